package agent

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nstehr/vimy/vimy-raid/rules"
)

const (
	// maxEvents bounds the events kept per engagement.
	maxEvents = 64
	// maxEngagements bounds the engagements kept. Only finished ones are
	// evicted, oldest first.
	maxEngagements = 256
)

// EngagementInfo is the public view of one engagement.
type EngagementInfo struct {
	ID       string     `json:"id"`
	Player   string     `json:"player"`
	Strategy string     `json:"strategy"`
	Mode     rules.Mode `json:"mode"`
	Wave     int        `json:"wave"`
	Reason   string     `json:"reason,omitempty"`
	Started  time.Time  `json:"started"`
	Events   []Event    `json:"events,omitempty"`
}

type entry struct {
	info  EngagementInfo
	state *rules.State
}

// Registry tracks the engagements of every session in this process.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
	limit   int
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry), limit: maxEngagements}
}

// Add registers an engagement and returns its id.
func (r *Registry) Add(player, strategy string, st *rules.State) string {
	id := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = &entry{
		info:  EngagementInfo{ID: id, Player: player, Strategy: strategy, Started: time.Now()},
		state: st,
	}
	r.order = append(r.order, id)
	r.evict()
	return id
}

// evict drops finished engagements, oldest first, until the registry is
// back under its limit. Must be called with mu held.
func (r *Registry) evict() {
	for i := 0; len(r.order) > r.limit && i < len(r.order); {
		id := r.order[i]
		if !r.entries[id].state.Terminal() {
			i++
			continue
		}
		delete(r.entries, id)
		r.order = slices.Delete(r.order, i, i+1)
	}
}

// Record appends events to an engagement, dropping the oldest past maxEvents.
func (r *Registry) Record(id string, events ...Event) {
	if len(events) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return
	}
	e.info.Events = append(e.info.Events, events...)
	if over := len(e.info.Events) - maxEvents; over > 0 {
		e.info.Events = slices.Delete(e.info.Events, 0, over)
	}
}

func (r *Registry) Get(id string) (EngagementInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return EngagementInfo{}, false
	}
	return e.view(), true
}

// List returns every engagement, oldest first.
func (r *Registry) List() []EngagementInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]EngagementInfo, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id].view())
	}
	return out
}

func (e *entry) view() EngagementInfo {
	info := e.info
	info.Events = slices.Clone(e.info.Events)
	sum := e.state.Summary()
	info.Mode = sum.Mode
	info.Wave = sum.Wave
	info.Reason = sum.Reason
	return info
}
