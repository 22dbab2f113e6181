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

const (
	cornerCutoff = 18 // |x| and |y| beyond this is a corner
	rangedRing   = 4  // outward offset of the ranged ring
)

// redLine walks the whole boundary clockwise: melee and tanks spread evenly
// on the boundary, ranged on a ring further out, then clan troops and heroes
// at the bottom corner.
type redLine struct{ base }

func (redLine) Name() string { return RedLine }

func (r redLine) Compute(bf Battlefield, src rng.Source) *Engagement {
	boundary := bf.Boundary()
	st := rules.NewState(rules.Sweeping, bf.Loot(true), bf.Objective())
	sched := r.scheduler(bf, src, 0, nil, nil)
	return r.engagement(r.Name(), bf, st, sched, func(s *stream) {
		clockwise := geometry.OrderClockwise(boundary, geometry.ExcludeCorners(cornerCutoff))
		if len(clockwise) == 0 {
			s.st.Surrender(geometry.ErrNoDeployPoints)
			return
		}
		inflated := geometry.Inflate(clockwise, rangedRing)

		troops := r.troops(bf)
		melee := troops.ExtractAll(inventory.Not(inventory.IsRanged))
		slog.Info("deploying melee and tanking troops", "units", melee.String())
		if !r.spread(s, sched, melee, clockwise) {
			return
		}
		slog.Info("deploying ranged troops", "units", troops.String())
		if !r.spread(s, sched, troops, inflated) {
			return
		}

		b, _ := geometry.BoundsOf(boundary)
		corner := b.Bottom()
		if r.cfg.UseClanTroops {
			cc, _ := inventory.Partition(bf.Inventory().Available(), inventory.IsClanTroops)
			for _, g := range cc {
				slog.Info("deploying clan troops", "unit", g.Name)
				if !s.all(sched.Deploy(g, []model.Point{corner})) {
					return
				}
			}
		}
		placeHeroes(s, sched, src, r.heroes(bf), corner, [2]int{})
	})
}

// spread deploys each group evenly over points, step = len(points)/count,
// repeating until the groups are empty or stuck.
func (redLine) spread(s *stream, sched *deploy.Scheduler, groups inventory.Pool, points []model.Point) bool {
	return untilEmpty(groups, func(g *model.UnitGroup) bool {
		if g.Count <= 0 {
			return true
		}
		pts := geometry.SampleEvery(points, geometry.SampleStep(len(points), g.Count))
		return s.all(sched.Run(deploy.Batch{Group: g, Points: pts, Cursor: &deploy.ModuloCursor{}}))
	})
}
