package rules

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/nstehr/vimy/vimy-raid/model"
)

// View is the read-only face of an engagement handed to concurrent watchers.
type View interface {
	Mode() Mode
	Terminal() bool
	Wave() int
}

// Summary is a point-in-time copy of an engagement's state.
type Summary struct {
	Mode    Mode         `json:"mode"`
	Wave    int          `json:"wave"`
	Reason  string       `json:"reason,omitempty"`
	History []model.Loot `json:"history"`
}

// State is the engagement's decision state. Only the decision loop mutates
// it; the mode is atomic so watchers can poll it without locking.
type State struct {
	mode atomic.Int32

	mu          sync.RWMutex
	wave        int
	modeWave    int
	objective   model.Objective
	baseline    model.Loot // last valid read the gain is measured against
	last        model.Loot // most recent valid read
	haveLoot    bool
	lootValid   bool
	history     []model.Loot
	reason      error
	surrendered bool
}

// NewState starts an engagement in mode start with the pre-attack loot read,
// which may be nil when the read failed.
func NewState(start Mode, loot *model.Loot, obj model.Objective) *State {
	s := &State{objective: obj}
	s.mode.Store(int32(start))
	s.recordLoot(loot)
	if s.haveLoot {
		s.baseline = s.last
	}
	slog.Info("engagement state created", "mode", start, "lootValid", s.lootValid)
	return s
}

func (s *State) Mode() Mode { return Mode(s.mode.Load()) }

func (s *State) Terminal() bool { return s.Mode().Terminal() }

func (s *State) Wave() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wave
}

// Reason is the termination cause, nil while running.
func (s *State) Reason() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reason
}

func (s *State) Objective() model.Objective {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objective
}

// History returns the per-wave loot reads; failed reads appear as
// model.UnreadableLoot.
func (s *State) History() []model.Loot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Loot, len(s.history))
	copy(out, s.history)
	return out
}

func (s *State) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := Summary{Mode: s.Mode(), Wave: s.wave, History: append([]model.Loot(nil), s.history...)}
	if s.reason != nil {
		sum.Reason = s.reason.Error()
	}
	return sum
}

// EndWave records a finished wave's loot read and objective.
func (s *State) EndWave(loot *model.Loot, obj model.Objective) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wave++
	s.modeWave++
	s.objective = obj
	s.recordLoot(loot)
}

// recordLoot must be called with mu held (or before the State is shared).
func (s *State) recordLoot(loot *model.Loot) {
	if loot == nil || !loot.Valid() {
		s.lootValid = false
		s.history = append(s.history, model.UnreadableLoot)
		slog.Warn("loot read failed, counting wave as no gain", "wave", s.wave, "error", ErrLootUnavailable)
		return
	}
	s.lootValid = true
	s.last = *loot
	s.history = append(s.history, *loot)
	if !s.haveLoot {
		s.baseline = *loot
		s.haveLoot = true
	}
}

// Env builds the rule environment for the current wave.
func (s *State) Env(planning bool, targets, unitsLeft int) Env {
	s.mu.RLock()
	defer s.mu.RUnlock()
	env := Env{
		Planning:  planning,
		Wave:      s.wave,
		ModeWave:  s.modeWave,
		Stars:     s.objective.Stars,
		Destroyed: s.objective.PrimaryDestroyed,
		LootValid: s.lootValid,
		Avail:     s.baseline.Gold + s.baseline.Elixir,
		Targets:   targets,
		UnitsLeft: unitsLeft,
	}
	if s.lootValid && s.haveLoot {
		env.Gained = max(0, (s.baseline.Gold-s.last.Gold)+(s.baseline.Elixir-s.last.Elixir))
	}
	return env
}

// Rebase moves the gain baseline to the latest valid read so the next
// review measures the delta since this one.
func (s *State) Rebase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lootValid {
		s.baseline = s.last
	}
}

// Transition moves to next. Terminal modes are sticky; reason is recorded
// when entering Surrendering.
func (s *State) Transition(next Mode, reason error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.Mode()
	if cur.Terminal() || cur == next {
		return false
	}
	if next == Surrendering && reason == nil {
		reason = ErrAborted
	}
	if next == Surrendering || next == Done {
		s.reason = reason
	}
	if next == Sweeping {
		s.baseline = s.last
	}
	s.modeWave = 0
	s.mode.Store(int32(next))
	slog.Info("engagement mode changed", "from", cur, "to", next, "wave", s.wave, "reason", reason)
	return true
}

// Surrender moves to Surrendering from any non-terminal mode.
func (s *State) Surrender(reason error) bool { return s.Transition(Surrendering, reason) }

// TakeSurrender reports true exactly once, the first time it is called while
// Surrendering. The caller emits the surrender command only then.
func (s *State) TakeSurrender() bool {
	if s.Mode() != Surrendering {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.surrendered {
		return false
	}
	s.surrendered = true
	return true
}

// Surrendered reports whether the surrender command was issued.
func (s *State) Surrendered() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surrendered
}

// Is reports whether the termination cause matches target.
func (s *State) Is(target error) bool { return errors.Is(s.Reason(), target) }
