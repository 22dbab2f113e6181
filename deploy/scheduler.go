// Package deploy paces the placement of unit groups over point sequences in
// bounded waves, detecting placements that did not register.
package deploy

import (
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/nstehr/vimy/vimy-raid/inventory"
	"github.com/nstehr/vimy/vimy-raid/model"
	"github.com/nstehr/vimy/vimy-raid/rng"
)

// Counter re-reads a unit group's live count from the game.
type Counter interface {
	Recount(unitID string) int
}

// Options configures a Scheduler.
type Options struct {
	WaveSize    int           // placements before a pause
	WaveDelay   time.Duration // pause after a full wave
	SettleDelay time.Duration // pause before each recount
	Jitter      int           // local offset, uniform in [-Jitter, Jitter)
	Cursor      Cursor        // nil means a GoldenCursor

	// Transform adjusts a chosen point for the group before jitter, e.g.
	// pulling ranged units back from the border.
	Transform func(u *model.UnitGroup, p model.Point) model.Point
}

// Batch is one scheduling request.
type Batch struct {
	Group  *model.UnitGroup
	Points []model.Point
	Limit  int    // at most this many units; 0 means the whole group
	Cursor Cursor // overrides the scheduler cursor for this batch

	// host-side jitter bounds attached to every placement
	JitterX, JitterY int
}

// Scheduler emits placement and pause steps for unit groups. It never reads
// loot or objective state. A Scheduler belongs to one engagement.
type Scheduler struct {
	opts    Options
	counter Counter
	rand    rng.Source
	faults  []error
}

func NewScheduler(counter Counter, src rng.Source, opts Options) *Scheduler {
	if opts.WaveSize <= 0 {
		opts.WaveSize = 1
	}
	if opts.Cursor == nil {
		opts.Cursor = &GoldenCursor{}
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = 500 * time.Millisecond
	}
	return &Scheduler{opts: opts, counter: counter, rand: src}
}

// Faults returns the placement faults recorded so far.
func (s *Scheduler) Faults() []error { return s.faults }

// Deploy places the whole group over points.
func (s *Scheduler) Deploy(g *model.UnitGroup, points []model.Point) iter.Seq[model.Step] {
	return s.Run(Batch{Group: g, Points: points})
}

// DeployAll orders the pool for deploy and places each group in turn.
func (s *Scheduler) DeployAll(pool inventory.Pool, points []model.Point) iter.Seq[model.Step] {
	groups := pool.Available()
	inventory.OrderForDeploy(groups)
	return func(yield func(model.Step) bool) {
		for _, g := range groups {
			for st := range s.Deploy(g, points) {
				if !yield(st) {
					return
				}
			}
		}
	}
}

// Spread places n units of a role, most plentiful type first, one unit per
// point in order.
func (s *Scheduler) Spread(pool inventory.Pool, points []model.Point, n, jx, jy int) iter.Seq[model.Step] {
	return func(yield func(model.Step) bool) {
		cur := &ModuloCursor{}
		for _, g := range pool.Available().ByCount() {
			if n <= 0 {
				return
			}
			k := min(n, g.Count)
			n -= k
			for st := range s.Run(Batch{Group: g, Points: points, Limit: k, Cursor: cur, JitterX: jx, JitterY: jy}) {
				if !yield(st) {
					return
				}
			}
		}
	}
}

// Run schedules one batch. After the planned placements it recounts the
// group: an unchanged count is a stuck unit and the group is abandoned; a
// partial drop gets one retry cycle before the group is abandoned.
func (s *Scheduler) Run(b Batch) iter.Seq[model.Step] {
	return func(yield func(model.Step) bool) {
		g := b.Group
		if g == nil || g.Count <= 0 || len(b.Points) == 0 {
			return
		}
		cur := b.Cursor
		if cur == nil {
			cur = s.opts.Cursor
		}

		want := g.Count
		if b.Limit > 0 && b.Limit < want {
			want = b.Limit
		}

		inWave := 0
		for attempt := 0; attempt < 2; attempt++ {
			before := g.Count
			slog.Debug("deploy start", "unit", g.Name, "count", before, "planned", want, "attempt", attempt)
			for range want {
				p := b.Points[cur.Next(len(b.Points))]
				if s.opts.Transform != nil {
					p = s.opts.Transform(g, p)
				}
				p.X += float64(rng.Offset(s.rand, s.opts.Jitter))
				p.Y += float64(rng.Offset(s.rand, s.opts.Jitter))

				if !yield(model.Step{Kind: model.StepPlace, Unit: g.ID, Point: p, JitterX: b.JitterX, JitterY: b.JitterY}) {
					return
				}
				inWave++
				if inWave >= s.opts.WaveSize {
					slog.Debug("wave limit reached", "waveSize", s.opts.WaveSize, "delay", s.opts.WaveDelay)
					if !yield(model.Wait(s.opts.WaveDelay)) {
						return
					}
					inWave = 0
				}
			}
			if !yield(model.Wait(s.opts.SettleDelay)) {
				return
			}
			inWave = 0

			after := s.counter.Recount(g.ID)
			g.Count = after
			placed := before - after
			if before != after {
				slog.Debug("recount", "unit", g.Name, "from", before, "to", after)
			}

			switch {
			case after <= 0:
				slog.Info("unit depleted", "unit", g.Name)
				return
			case placed >= want:
				return
			case placed <= 0:
				err := fmt.Errorf("%w: %s x%d", ErrStuckUnit, g.Name, after)
				s.faults = append(s.faults, err)
				slog.Warn("couldn't deploy unit, abandoning", "unit", g.Name, "count", after)
				return
			}

			err := fmt.Errorf("%w: %s placed %d of %d", ErrPartialPlacement, g.Name, placed, want)
			s.faults = append(s.faults, err)
			want -= placed
			if attempt == 0 {
				slog.Info("partial placement, retrying", "unit", g.Name, "remaining", want)
				continue
			}
			slog.Warn("partial placement after retry, abandoning", "unit", g.Name, "remaining", want)
		}
	}
}
