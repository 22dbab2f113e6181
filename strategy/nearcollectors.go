package strategy

import (
	"log/slog"

	"github.com/nstehr/vimy/vimy-raid/analysis"
	"github.com/nstehr/vimy/vimy-raid/deploy"
	"github.com/nstehr/vimy/vimy-raid/geometry"
	"github.com/nstehr/vimy/vimy-raid/inventory"
	"github.com/nstehr/vimy/vimy-raid/model"
	"github.com/nstehr/vimy/vimy-raid/rng"
	"github.com/nstehr/vimy/vimy-raid/rules"
)

const collectorBatch = 4

// nearCollectors deploys only next to exposed collectors, cycling through
// their deploy points a few units at a time. With debug_image_dir set it
// renders the plan and every placement to an analysis image.
type nearCollectors struct{ base }

func (nearCollectors) Name() string { return NearCollectors }

func (n nearCollectors) Compute(bf Battlefield, src rng.Source) *Engagement {
	boundary := bf.Boundary()
	features := bf.Features(false)
	targets := geometry.GenerateTargets(features, boundary, model.Feature.IsCollector, n.targetOptions())
	points := geometry.MeleePoints(targets)
	outer := geometry.Inflate(boundary, outerRing)

	st := rules.NewState(rules.Sweeping, bf.Loot(true), bf.Objective())
	sched := n.scheduler(bf, src, placementJitter, &deploy.ModuloCursor{}, pullBack(src, outer))
	return n.engagement(n.Name(), bf, st, sched, func(s *stream) {
		slog.Info("deploy points from collectors", "points", len(points), "collectors", len(targets), "boundary", len(boundary))

		if n.cfg.DebugImageDir != "" {
			frame, err := analysis.Plan(boundary, features, points)
			if err != nil {
				slog.Warn("analysis frame unavailable", "error", err)
			} else {
				defer frame.Release()
				s.onPlace = func(step model.Step) { frame.Points([]model.Point{step.Point}, 2, analysis.DarkOrange) }
				defer func() {
					if s.halted {
						return
					}
					frame.Label(n.Name())
					if path, err := frame.Save(n.cfg.DebugImageDir, "AttackAnalysis"); err != nil {
						slog.Warn("failed to save analysis image", "error", err)
					} else {
						slog.Info("analysis image saved", "path", path)
					}
				}()
			}
		}

		if len(points) == 0 {
			s.st.Surrender(geometry.ErrNoDeployPoints)
			return
		}
		heroes := n.heroes(bf)
		if !deployInWaves(s, func() inventory.Pool { return n.army(bf) }, func(g *model.UnitGroup) bool {
			return untilEmpty(inventory.Pool{g}, func(u *model.UnitGroup) bool {
				return s.all(sched.Run(deploy.Batch{Group: u, Points: points, Limit: collectorBatch}))
			})
		}) {
			return
		}
		placeHeroes(s, sched, src, heroes, points[0], [2]int{})
	})
}
