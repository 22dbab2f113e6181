package agent

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/nstehr/vimy/vimy-raid/model"
)

// ring is a circular deploy boundary of n points.
func ring(r float64, n int) []model.Point {
	pts := make([]model.Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = model.Pt(r*math.Cos(a), r*math.Sin(a))
	}
	return pts
}

func battleStart() model.BattleStart {
	return model.BattleStart{
		Boundary: ring(20, 48),
		Features: []model.Feature{
			{ID: "th", Kind: model.TownHall, Rect: model.Rect{X: -2, Y: -2, W: 4, H: 4}},
			{ID: "gm1", Kind: model.GoldMine, Rect: model.Rect{X: 14, Y: -1, W: 2, H: 2}},
		},
		PrimaryID: "th",
		Inventory: []model.UnitGroup{
			{ID: "barb", Name: "Barbarian", Role: model.Damage, Count: 12},
			{ID: "arch", Name: "Archer", Role: model.Damage, Ranged: true, Range: 3.5, Count: 12},
			{ID: "king", Name: "Barbarian King", Role: model.Hero, Hero: model.King, Count: 1},
		},
		Loot:      &model.Loot{Gold: 50000, Elixir: 50000},
		Objective: model.Objective{},
	}
}

// fakeHost plays the game: placements consume units on the battlefield.
// With fight set, a placed hero reports its ability ready and falls once the
// ability is used.
type fakeHost struct {
	mu         sync.Mutex
	bf         *Battlefield
	places     []model.Step
	surrenders []string
	activated  []string
	failPlace  error
	onPlace    func(n int)
	fight      bool
}

func (h *fakeHost) Place(_ context.Context, step model.Step) error {
	h.mu.Lock()
	if h.failPlace != nil {
		h.mu.Unlock()
		return h.failPlace
	}
	h.places = append(h.places, step)
	n := len(h.places)
	s := h.bf.Snapshot()
	for i := range s.Inventory {
		g := &s.Inventory[i]
		if g.ID != step.Unit || g.Count <= 0 {
			continue
		}
		g.Count--
		if h.fight && g.Role == model.Hero {
			s.Heroes = append(s.Heroes, model.HeroStatus{Unit: g.ID, Active: true, AbilityReady: true})
		}
	}
	h.bf.Update(s)
	hook := h.onPlace
	h.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return nil
}

func (h *fakeHost) Surrender(_ context.Context, reason string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.surrenders = append(h.surrenders, reason)
	return nil
}

func (h *fakeHost) Activate(_ context.Context, unit string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.activated = append(h.activated, unit)
	if h.fight {
		s := h.bf.Snapshot()
		for i := range s.Heroes {
			if s.Heroes[i].Unit == unit {
				s.Heroes[i] = model.HeroStatus{Unit: unit}
			}
		}
		h.bf.Update(s)
	}
	return nil
}

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

// tick stands in for every wait with a millisecond so watchers get to run.
func tick(ctx context.Context, _ time.Duration) error {
	t := time.NewTimer(time.Millisecond)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
