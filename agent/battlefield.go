package agent

import (
	"slices"
	"sync"

	"github.com/nstehr/vimy/vimy-raid/inventory"
	"github.com/nstehr/vimy/vimy-raid/model"
)

// Battlefield is the live view of one battle, fed by the host's snapshots.
// Strategies read it from the runner goroutine while the read loop updates it.
type Battlefield struct {
	mu        sync.RWMutex
	boundary  []model.Point
	primaryID string
	scanned   []model.Feature // features as of battle start
	state     model.BattleState
}

func NewBattlefield(start model.BattleStart) *Battlefield {
	return &Battlefield{
		boundary:  start.Boundary,
		primaryID: start.PrimaryID,
		scanned:   start.Features,
		state: model.BattleState{
			Inventory: start.Inventory,
			Features:  start.Features,
			Loot:      start.Loot,
			Objective: start.Objective,
		},
	}
}

// Update replaces the live snapshot. Features are kept from the previous
// snapshot when the host omits them.
func (b *Battlefield) Update(s model.BattleState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s.Features == nil {
		s.Features = b.state.Features
	}
	b.state = s
}

// Snapshot returns a copy of the latest state.
func (b *Battlefield) Snapshot() model.BattleState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s := b.state
	s.Inventory = slices.Clone(s.Inventory)
	s.Features = slices.Clone(s.Features)
	s.Heroes = slices.Clone(s.Heroes)
	if s.Loot != nil {
		l := *s.Loot
		s.Loot = &l
	}
	return s
}

func (b *Battlefield) Recount(unitID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, g := range b.state.Inventory {
		if g.ID == unitID {
			return g.Count
		}
	}
	return 0
}

func (b *Battlefield) Inventory() inventory.Pool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return inventory.FromSnapshot(b.state.Inventory)
}

func (b *Battlefield) Boundary() []model.Point { return b.boundary }

func (b *Battlefield) Features(refresh bool) []model.Feature {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if refresh {
		return slices.Clone(b.state.Features)
	}
	return slices.Clone(b.scanned)
}

func (b *Battlefield) Primary() (model.Feature, bool) {
	if b.primaryID == "" {
		return model.Feature{}, false
	}
	for _, f := range b.Features(true) {
		if f.ID == b.primaryID {
			return f, true
		}
	}
	return model.Feature{}, false
}

// Loot returns the latest loot read, nil when the host could not read it.
// The host pushes loot with every snapshot, so refresh has nothing to force.
func (b *Battlefield) Loot(bool) *model.Loot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.state.Loot == nil {
		return nil
	}
	l := *b.state.Loot
	return &l
}

func (b *Battlefield) Objective() model.Objective {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state.Objective
}

// Heroes reports the placed heroes' ability state for the hero controller.
func (b *Battlefield) Heroes() []model.HeroStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.state.Heroes)
}
