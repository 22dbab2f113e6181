package strategy

import (
	"log/slog"

	"github.com/nstehr/vimy/vimy-raid/deploy"
	"github.com/nstehr/vimy/vimy-raid/geometry"
	"github.com/nstehr/vimy/vimy-raid/inventory"
	"github.com/nstehr/vimy/vimy-raid/model"
	"github.com/nstehr/vimy/vimy-raid/rng"
	"github.com/nstehr/vimy/vimy-raid/rules"
)

const fingersPerLine = 4

// sixteenFingers deploys each role along the four sides of the boundary
// box, four points per side, then drops heroes and clan troops at the
// middle of the first side.
type sixteenFingers struct{ base }

func (sixteenFingers) Name() string { return SixteenFingers }

var fingerRoles = []struct {
	name string
	role model.Role
}{
	{"tank units", model.Tank},
	{"attack units", model.Damage},
	{"heal units", model.Heal},
	{"wallbreak units", model.Wallbreak},
}

func (f sixteenFingers) Compute(bf Battlefield, src rng.Source) *Engagement {
	lines, linesErr := geometry.EdgeLines(bf.Boundary())
	st := rules.NewState(rules.Sweeping, bf.Loot(true), bf.Objective())
	sched := f.scheduler(bf, src, 0, nil, nil)
	return f.engagement(f.Name(), bf, st, sched, func(s *stream) {
		if linesErr != nil {
			s.st.Surrender(linesErr)
			return
		}
		troops := f.troops(bf)
		for _, r := range fingerRoles {
			groups := troops.ExtractAll(inventory.ByRole(r.role))
			if groups.Empty() {
				continue
			}
			slog.Info("deploying along lines", "group", r.name, "units", groups.String())
			if !f.alongLines(s, sched, groups, lines) {
				return
			}
		}

		heroPoint := lines[0].Midpoint()
		if f.cfg.UseClanTroops {
			cc, _ := inventory.Partition(bf.Inventory().Available(), inventory.IsClanTroops)
			for _, g := range cc {
				slog.Info("deploying clan troops", "unit", g.Name)
				if !s.all(sched.Deploy(g, []model.Point{heroPoint})) || !s.one(model.Wait(f.cfg.WaveDelay)) {
					return
				}
			}
		}
		ms := int(f.cfg.WaveDelay.Milliseconds())
		placeHeroes(s, sched, src, f.heroes(bf), heroPoint, [2]int{ms, ms})
	})
}

// alongLines cycles each group over the lines, fingersPerLine units per
// line per pass, until it is empty or stuck.
func (sixteenFingers) alongLines(s *stream, sched *deploy.Scheduler, groups inventory.Pool, lines []model.Line) bool {
	next := 0
	return untilEmpty(groups, func(g *model.UnitGroup) bool {
		for range lines {
			if g.Count <= 0 {
				return true
			}
			line := lines[next%len(lines)]
			next++
			batch := deploy.Batch{
				Group:  g,
				Points: geometry.AlongLine(line, fingersPerLine),
				Limit:  fingersPerLine,
				Cursor: &deploy.ModuloCursor{},
			}
			if !s.all(sched.Run(batch)) {
				return false
			}
		}
		return true
	})
}
