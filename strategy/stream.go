package strategy

import (
	"iter"
	"log/slog"
	"slices"
	"time"

	"github.com/nstehr/vimy/vimy-raid/model"
	"github.com/nstehr/vimy/vimy-raid/rng"
	"github.com/nstehr/vimy/vimy-raid/rules"
)

// stream forwards a strategy's steps to the driver. Every forwarding call
// returns false once the driver stopped consuming or the engagement reached
// a terminal mode; strategies unwind on false.
type stream struct {
	yield  func(model.Step) bool
	st     *rules.State
	bf     Battlefield
	trophy bool // surrender as soon as a star shows up

	halted  bool // driver stopped consuming
	onPlace func(model.Step)

	poll     time.Duration // hero status poll while holding
	watching []string      // heroes handed to the watcher
}

const (
	// heroGrace is how many polls the hold waits for a watched hero to
	// report in before giving up on it.
	heroGrace = 20
	// holdLimit bounds how long deploy stays open for fighting heroes.
	holdLimit = 3 * time.Minute
)

func (s *stream) one(step model.Step) bool {
	if s.halted || s.st.Terminal() {
		return false
	}
	if step.Kind == model.StepPlace {
		if s.trophy && s.bf.Objective().HaveAStar() {
			slog.Info("star reached, surrendering to save troops")
			s.st.Surrender(rules.ErrObjectiveReached)
			return false
		}
		if s.onPlace != nil {
			s.onPlace(step)
		}
	}
	if !s.yield(step) {
		s.halted = true
		return false
	}
	if step.Kind == model.StepWatchHeroes {
		for _, id := range step.Heroes {
			if !slices.Contains(s.watching, id) {
				s.watching = append(s.watching, id)
			}
		}
	}
	return true
}

func (s *stream) all(seq iter.Seq[model.Step]) bool {
	for step := range seq {
		if !s.one(step) {
			return false
		}
	}
	return !s.halted && !s.st.Terminal()
}

// wait pauses for a random [lo, hi] milliseconds.
func (s *stream) wait(src rng.Source, lo, hi int) bool {
	return s.one(model.Wait(rng.Millis(src, lo, hi)))
}

// hold keeps a finished deploy open while watched heroes are still on the
// field, so the hero watcher gets to fire their abilities before the
// engagement ends. It polls one interval at a time and stops once every
// watched hero has fallen, none ever reported in, or holdLimit runs out.
func (s *stream) hold() {
	if len(s.watching) == 0 || s.poll <= 0 || s.halted || s.st.Terminal() {
		return
	}
	slog.Info("deploy finished, holding for heroes", "heroes", s.watching)
	seen := false
	for i := range int(holdLimit / s.poll) {
		active := s.activeHeroes()
		if active > 0 {
			seen = true
		}
		if (seen && active == 0) || (!seen && i >= heroGrace) {
			slog.Info("hold released", "polls", i, "heroesSeen", seen)
			return
		}
		if !s.one(model.Wait(s.poll)) {
			return
		}
	}
	slog.Warn("hold limit reached with heroes still active", "limit", holdLimit)
}

func (s *stream) activeHeroes() int {
	n := 0
	for _, h := range s.bf.Heroes() {
		if h.Active && slices.Contains(s.watching, h.Unit) {
			n++
		}
	}
	return n
}

// finish closes the stream: Surrendering emits the surrender command
// exactly once, a non-terminal engagement ends Done.
func (s *stream) finish() {
	if s.halted {
		return
	}
	if !s.st.Terminal() {
		s.st.Transition(rules.Done, nil)
	}
	if !s.st.TakeSurrender() {
		return
	}
	reason := rules.ErrAborted.Error()
	if err := s.st.Reason(); err != nil {
		reason = err.Error()
	}
	if !s.yield(model.Surrender(reason)) {
		s.halted = true
	}
}
