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
	snipeRadius = 1.2 // spread of snipe placements around the primary's deploy points
	sweepRadius = 1.4 // spread of sweep placements around a target
)

var (
	meleeTroops  = inventory.And(inventory.IsNormal, inventory.ByRole(model.Damage), inventory.Not(inventory.IsRanged))
	rangedTroops = inventory.And(inventory.IsNormal, inventory.ByRole(model.Damage), inventory.IsRanged)
)

// humanBarch is the adaptive attack: snipe the primary structure once, then
// sweep clusters of exposed collectors wave after wave while the loot keeps
// coming. Tanks and healers are never deployed.
type humanBarch struct {
	base
	engine *rules.Engine
}

func (humanBarch) Name() string { return HumanBarch }

// wave is the unit split of one wave's snapshot.
type wave struct {
	melee, ranged inventory.Pool
	king, queen   *model.UnitGroup
}

func (w wave) units() int { return w.melee.Total() + w.ranged.Total() }

func (h humanBarch) split(bf Battlefield) wave {
	pool := bf.Inventory().Available()
	melee, _ := inventory.Partition(pool, meleeTroops)
	ranged, _ := inventory.Partition(pool, rangedTroops)
	return wave{
		melee:  melee.ByCount(),
		ranged: ranged.ByCount(),
		king:   h.hero(pool, model.King),
		queen:  h.hero(pool, model.Queen),
	}
}

func (h humanBarch) Compute(bf Battlefield, src rng.Source) *Engagement {
	boundary := bf.Boundary()
	opts := h.targetOptions()

	var snipe geometry.Target
	snipable := false
	if primary, ok := bf.Primary(); ok && !primary.Destroyed {
		snipe, snipable = geometry.TargetFor(primary, boundary, opts)
		snipable = snipable && snipe.Exposed(opts.MaxDistance)
	}
	obj := bf.Objective()
	st := rules.NewState(rules.EntryMode(obj, snipable), bf.Loot(true), obj)
	slog.Info("human barch engagement", "mode", st.Mode(), "snipable", snipable)

	sched := h.scheduler(bf, src, 0, nil, nil)
	return h.engagement(h.Name(), bf, st, sched, func(s *stream) {
		h.run(s, bf, src, sched, boundary, snipe)
	})
}

func (h humanBarch) run(s *stream, bf Battlefield, src rng.Source, sched *deploy.Scheduler, boundary []model.Point, snipe geometry.Target) {
	st := s.st
	sniped := false
	refresh := false
	for !st.Terminal() {
		w := h.split(bf)
		targets := 0
		slog.Info("scanning troops", "wave", st.Wave()+1, "mode", st.Mode(), "melee", w.melee.Total(), "ranged", w.ranged.Total())

		switch st.Mode() {
		case rules.Sniping:
			if !sniped {
				sniped = true
				if !h.snipe(s, bf, src, sched, w, snipe) {
					return
				}
			}
		case rules.Sweeping:
			// First pass uses the cached scan; later passes rescan for destroyed features.
			found := geometry.GenerateTargets(bf.Features(refresh), boundary, model.Feature.IsCollector, h.targetOptions())
			refresh = true
			clusters := geometry.BuildClusters(found, h.cfg.ClusterMergeDistance)
			targets = geometry.TargetCount(clusters)
			slog.Info("targets generated", "targets", targets, "clusters", len(clusters))
			h.engine.Decide(st, st.Env(true, targets, w.units()))
			if st.Terminal() {
				continue
			}
			if !h.sweep(s, src, sched, w, clusters) {
				return
			}
		}

		if !s.wait(src, 2000, 5000) {
			return
		}
		st.EndWave(bf.Loot(true), bf.Objective())
		h.engine.Decide(st, st.Env(false, targets, h.split(bf).units()))
		if st.Mode() == rules.Sweeping {
			st.Rebase()
		}
	}
}

// snipe is the one-time burst on the primary structure's exposed side.
func (h humanBarch) snipe(s *stream, bf Battlefield, src rng.Source, sched *deploy.Scheduler, w wave, t geometry.Target) bool {
	sides := []struct {
		role  string
		units inventory.Pool
		at    model.Point
	}{
		{"melee", w.melee, t.Melee},
		{"ranged", w.ranged, t.Ranged},
	}
	for _, side := range sides {
		if side.units.Empty() {
			continue
		}
		n := rng.Int(src, 5, 15)
		slog.Info("sniping primary", "role", side.role, "units", n, "x", side.at.X, "y", side.at.Y)
		pts := geometry.RandomPointsInArea(src, side.at, snipeRadius, n)
		if !s.all(sched.Spread(side.units, pts, n, rng.Int(src, 10, 40), rng.Int(src, 10, 40))) {
			return false
		}
		if !s.wait(src, 300, 500) {
			return false
		}
	}
	if bf.Objective().HaveAStar() {
		return true
	}
	heroPause := [2]int{900, 1000}
	if w.king != nil && !placeHeroes(s, sched, src, inventory.Pool{w.king}, t.Melee, heroPause) {
		return false
	}
	if w.queen != nil && !placeHeroes(s, sched, src, inventory.Pool{w.queen}, t.Ranged, heroPause) {
		return false
	}
	return true
}

// sweep makes one pass over the clusters in walking order: melee around each
// target, the king on the second-largest cluster, ranged around each target,
// then the queen on the largest cluster.
func (h humanBarch) sweep(s *stream, src rng.Source, sched *deploy.Scheduler, w wave, clusters []geometry.Cluster) bool {
	largest, second := geometry.Largest(clusters)
	heroPause := [2]int{900, 1000}

	for ci, c := range clusters {
		for i, t := range c.Targets {
			if w.melee.Empty() {
				break
			}
			n := rng.Int(src, 6, 8) - (i+1)/2
			slog.Debug("melee around target", "units", n, "feature", t.Feature.ID)
			jitter := rng.Int(src, 10, 40)
			if !s.all(sched.Spread(w.melee, geometry.RandomPointsInArea(src, t.Melee, sweepRadius, n), n, jitter, jitter)) {
				return false
			}
			if !s.wait(src, 10, 40) {
				return false
			}
		}
		if !s.wait(src, 90, 100) {
			return false
		}

		if ci == second && c.Size() >= 3 && w.king != nil {
			slog.Info("king on second largest cluster", "cluster", ci, "size", c.Size())
			if !placeHeroes(s, sched, src, inventory.Pool{w.king}, c.Targets[1].Melee, heroPause) {
				return false
			}
		}

		for i, t := range c.Targets {
			if w.ranged.Empty() {
				break
			}
			n := rng.Int(src, 5, 7) - (i+1)/2
			slog.Debug("ranged around target", "units", n, "feature", t.Feature.ID)
			jitter := rng.Int(src, 10, 40)
			if !s.all(sched.Spread(w.ranged, geometry.RandomPointsInArea(src, t.Ranged, sweepRadius, n), n, jitter, jitter)) {
				return false
			}
			if !s.wait(src, 40, 50) {
				return false
			}
		}

		if ci == largest && c.Size() >= 3 && w.queen != nil {
			slog.Info("queen on largest cluster", "cluster", ci, "size", c.Size())
			if !s.wait(src, 90, 100) {
				return false
			}
			if !placeHeroes(s, sched, src, inventory.Pool{w.queen}, c.Targets[1].Ranged, heroPause) {
				return false
			}
		}

		if !s.wait(src, 90, 100) {
			return false
		}
	}
	return true
}
