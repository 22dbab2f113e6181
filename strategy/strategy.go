// Package strategy holds the closed set of attack strategies. Each turns a
// battlefield into a lazy, finite, non-restartable stream of steps that an
// external driver consumes.
package strategy

import (
	"fmt"
	"iter"
	"sync/atomic"
	"time"

	"github.com/nstehr/vimy/vimy-raid/config"
	"github.com/nstehr/vimy/vimy-raid/deploy"
	"github.com/nstehr/vimy/vimy-raid/inventory"
	"github.com/nstehr/vimy/vimy-raid/model"
	"github.com/nstehr/vimy/vimy-raid/rng"
	"github.com/nstehr/vimy/vimy-raid/rules"
)

const (
	HumanBarch     = "humanbarch"
	RedLine        = "redline"
	FourSides      = "foursides"
	NearCollectors = "nearcollectors"
	SixteenFingers = "sixteenfingers"
	Breakthrough   = "breakthrough"
)

// Battlefield is the live view of one attack the strategies read from.
type Battlefield interface {
	deploy.Counter

	// Inventory returns a fresh pool built from the latest snapshot.
	Inventory() inventory.Pool
	Boundary() []model.Point
	// Features returns the map features; refresh forces a rescan, otherwise
	// the first scan is reused.
	Features(refresh bool) []model.Feature
	// Primary returns the opponent's primary structure.
	Primary() (model.Feature, bool)
	// Loot returns the opponent's available loot, nil when the read failed.
	Loot(refresh bool) *model.Loot
	Objective() model.Objective
	// Heroes reports the placed heroes' status.
	Heroes() []model.HeroStatus
}

// Strategy is one attack plan. The set is closed: New is the only
// constructor.
type Strategy interface {
	Name() string
	// Compute prepares an engagement. Geometry and the starting loot are
	// read eagerly; steps are produced lazily as the driver consumes them.
	Compute(bf Battlefield, src rng.Source) *Engagement
	sealed()
}

// Engagement is one computed attack: its decision state and step stream.
type Engagement struct {
	Strategy string
	State    *rules.State

	sched    *deploy.Scheduler
	body     func(s *stream)
	bf       Battlefield
	trophy   bool
	heroPoll time.Duration
	started  atomic.Bool
}

// Steps returns the step stream. It can be consumed once; later calls
// yield nothing.
func (e *Engagement) Steps() iter.Seq[model.Step] {
	return func(yield func(model.Step) bool) {
		if !e.started.CompareAndSwap(false, true) {
			return
		}
		s := &stream{yield: yield, st: e.State, bf: e.bf, trophy: e.trophy, poll: e.heroPoll}
		e.body(s)
		s.hold()
		s.finish()
	}
}

// Faults returns placement faults recorded so far.
func (e *Engagement) Faults() []error {
	if e.sched == nil {
		return nil
	}
	return e.sched.Faults()
}

// New returns the strategy cfg selects.
func New(cfg config.Config) (Strategy, error) {
	b := base{cfg: cfg}
	switch cfg.Strategy {
	case HumanBarch:
		engine, err := rules.NewEngine(rules.DefaultRules(cfg.Thresholds()))
		if err != nil {
			return nil, fmt.Errorf("build decision rules: %w", err)
		}
		return humanBarch{base: b, engine: engine}, nil
	case RedLine:
		return redLine{b}, nil
	case FourSides:
		return fourSides{b}, nil
	case NearCollectors:
		return nearCollectors{b}, nil
	case SixteenFingers:
		return sixteenFingers{b}, nil
	case Breakthrough:
		return breakthrough{b}, nil
	}
	return nil, fmt.Errorf("%w: strategy %q", config.ErrInvalid, cfg.Strategy)
}
