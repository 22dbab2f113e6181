package strategy

import (
	"log/slog"

	"github.com/nstehr/vimy/vimy-raid/config"
	"github.com/nstehr/vimy/vimy-raid/deploy"
	"github.com/nstehr/vimy/vimy-raid/geometry"
	"github.com/nstehr/vimy/vimy-raid/inventory"
	"github.com/nstehr/vimy/vimy-raid/model"
	"github.com/nstehr/vimy/vimy-raid/rng"
	"github.com/nstehr/vimy/vimy-raid/rules"
)

// tilePullBack is geometry.DefaultPullBack rescaled from screen pixels to
// map tiles (16 px per tile).
var tilePullBack = geometry.PullBackOptions{MinDistance: 10.0 / 16, PerTile: 1, LerpMin: 0.85, LerpMax: 1.05}

// outerRing is how far the outer border used for ranged pull-back sits
// outside the deploy boundary.
const outerRing = 4

type base struct {
	cfg config.Config
}

func (base) sealed() {}

func (b base) scheduler(bf Battlefield, src rng.Source, jitter int, cursor deploy.Cursor, transform func(*model.UnitGroup, model.Point) model.Point) *deploy.Scheduler {
	return deploy.NewScheduler(bf, src, deploy.Options{
		WaveSize:  b.cfg.WaveSize,
		WaveDelay: b.cfg.WaveDelay,
		Jitter:    jitter,
		Cursor:    cursor,
		Transform: transform,
	})
}

func (b base) targetOptions() geometry.TargetOptions {
	o := geometry.DefaultTargetOptions
	o.MaxDistance = b.cfg.ExposedDistance
	return o
}

// engagement wires a strategy body into an Engagement.
func (b base) engagement(name string, bf Battlefield, st *rules.State, sched *deploy.Scheduler, body func(s *stream)) *Engagement {
	return &Engagement{
		Strategy: name,
		State:    st,
		sched:    sched,
		body:     body,
		bf:       bf,
		trophy:   b.cfg.SurrenderOnFirstStar,
		heroPoll: b.cfg.HeroPollInterval,
	}
}

// troops returns the enabled, available normal troops of a fresh snapshot.
func (b base) troops(bf Battlefield) inventory.Pool {
	m, _ := inventory.Partition(bf.Inventory().Available(), inventory.IsNormal)
	return m
}

// heroes returns the enabled, available heroes of a fresh snapshot.
func (b base) heroes(bf Battlefield) inventory.Pool {
	m, _ := inventory.Partition(bf.Inventory().Available(), inventory.And(inventory.IsHero, b.cfg.Enabled().Allows))
	return m
}

func (b base) hero(pool inventory.Pool, k model.HeroKind) *model.UnitGroup {
	if !b.cfg.Enabled().Hero(k) {
		return nil
	}
	avail := pool.Available()
	return avail.ExtractOne(inventory.HeroOf(k))
}

// pullBack moves ranged placements toward the outer border.
func pullBack(src rng.Source, outer []model.Point) func(*model.UnitGroup, model.Point) model.Point {
	return func(u *model.UnitGroup, p model.Point) model.Point {
		if !u.Ranged {
			return p
		}
		return geometry.PullBack(src, p, outer, u.Range, tilePullBack)
	}
}

// placeHeroes places each hero at p, pausing pause ms after each, and hands
// the placed heroes to the watcher.
func placeHeroes(s *stream, sched *deploy.Scheduler, src rng.Source, heroes inventory.Pool, p model.Point, pause [2]int) bool {
	var ids []string
	for _, h := range heroes.Available() {
		if !s.all(sched.Deploy(h, []model.Point{p})) {
			return false
		}
		ids = append(ids, h.ID)
		if pause[1] > 0 && !s.wait(src, pause[0], pause[1]) {
			return false
		}
	}
	if len(ids) == 0 {
		return true
	}
	return s.one(model.WatchHeroes(ids...))
}

// untilEmpty repeats passes over groups until every group is depleted or a
// pass makes no progress. pass places one group and returns false to stop.
func untilEmpty(groups inventory.Pool, pass func(g *model.UnitGroup) bool) bool {
	groups = groups.Available()
	for len(groups) > 0 {
		before := groups.Total()
		for _, g := range groups {
			if !pass(g) {
				return false
			}
		}
		if groups.Total() >= before {
			slog.Warn("pass placed nothing, giving up on groups", "groups", groups.String())
			return true
		}
		groups = groups.Available()
	}
	return true
}
