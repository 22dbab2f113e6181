package model

import (
	"fmt"
	"time"
)

// StepKind identifies what the driver must do with a Step.
type StepKind int

const (
	StepPlace StepKind = iota
	StepWait
	StepWatchHeroes
	StepActivateAbility
	StepSurrender
)

func (k StepKind) String() string {
	switch k {
	case StepPlace:
		return "place"
	case StepWait:
		return "wait"
	case StepWatchHeroes:
		return "watch_heroes"
	case StepActivateAbility:
		return "activate_ability"
	case StepSurrender:
		return "surrender"
	}
	return fmt.Sprintf("step(%d)", int(k))
}

// Step is one item of a command sequence. Every suspension point of a
// strategy is an explicit Step consumed by an external driver.
type Step struct {
	Kind    StepKind
	Unit    string // unit group ID for place / activate
	Point   Point
	JitterX int // per-axis jitter bounds applied by the host
	JitterY int
	Wait    time.Duration
	Heroes  []string // hero unit IDs for StepWatchHeroes
	Reason  string
}

func Place(unit string, p Point) Step { return Step{Kind: StepPlace, Unit: unit, Point: p} }

func Wait(d time.Duration) Step { return Step{Kind: StepWait, Wait: d} }

func Surrender(reason string) Step { return Step{Kind: StepSurrender, Reason: reason} }

func WatchHeroes(ids ...string) Step { return Step{Kind: StepWatchHeroes, Heroes: ids} }

func ActivateAbility(unit string) Step { return Step{Kind: StepActivateAbility, Unit: unit} }
