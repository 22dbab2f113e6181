package strategy

import (
	"log/slog"
	"time"

	"github.com/nstehr/vimy/vimy-raid/deploy"
	"github.com/nstehr/vimy/vimy-raid/geometry"
	"github.com/nstehr/vimy/vimy-raid/inventory"
	"github.com/nstehr/vimy/vimy-raid/model"
	"github.com/nstehr/vimy/vimy-raid/rng"
	"github.com/nstehr/vimy/vimy-raid/rules"
)

const placementJitter = 1 // tiles

// fourSides spreads every troop around the whole boundary with the golden
// ratio cursor, in deploy order, ranged pulled back toward the outer border.
// Heroes go last.
type fourSides struct{ base }

func (fourSides) Name() string { return FourSides }

func (f fourSides) Compute(bf Battlefield, src rng.Source) *Engagement {
	boundary := bf.Boundary()
	points := geometry.OrderHalves(boundary)
	outer := geometry.Inflate(boundary, outerRing)
	st := rules.NewState(rules.Sweeping, bf.Loot(true), bf.Objective())
	sched := f.scheduler(bf, src, placementJitter, &deploy.GoldenCursor{}, pullBack(src, outer))
	return f.engagement(f.Name(), bf, st, sched, func(s *stream) {
		if len(points) == 0 {
			s.st.Surrender(geometry.ErrNoDeployPoints)
			return
		}
		if f.cfg.SurrenderOnFirstStar {
			slog.Info("will surrender as soon as the first star is reached")
		}
		heroes := f.heroes(bf)
		if !deployInWaves(s, func() inventory.Pool { return f.army(bf) }, func(g *model.UnitGroup) bool {
			return s.all(sched.Deploy(g, points))
		}) {
			return
		}
		placeHeroes(s, sched, src, heroes, points[0], [2]int{})
	})
}

// army is every enabled, available non-hero unit of a fresh snapshot.
func (b base) army(bf Battlefield) inventory.Pool {
	m, _ := inventory.Partition(bf.Inventory().Available(),
		inventory.And(inventory.Not(inventory.IsHero), inventory.Not(inventory.IsSpell), b.cfg.Enabled().Allows))
	return m
}

// deployInWaves rescans the army and deploys it in deploy order until
// nothing is left or a full round places nothing.
func deployInWaves(s *stream, scan func() inventory.Pool, place func(g *model.UnitGroup) bool) bool {
	for {
		units := scan()
		if units.Empty() {
			return true
		}
		inventory.OrderForDeploy(units)
		slog.Debug("deployable troops", "units", units.String())
		before := units.Total()
		for _, g := range units {
			slog.Debug("deploying", "unit", g.Name, "count", g.Count)
			if !place(g) {
				return false
			}
		}
		if !s.one(model.Wait(50 * time.Millisecond)) {
			return false
		}
		if units.Total() >= before {
			slog.Warn("round placed nothing, stopping", "units", units.String())
			return true
		}
	}
}
