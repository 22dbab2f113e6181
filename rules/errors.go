package rules

import "errors"

var (
	// ErrLootUnavailable marks a wave whose loot read failed. The wave counts
	// as zero gain.
	ErrLootUnavailable = errors.New("rules: loot read failed")

	// ErrWaveCeiling is the safety bound on the number of waves in one mode.
	ErrWaveCeiling = errors.New("rules: wave ceiling reached")

	// ErrNoTargets means no exposed targets remain to deploy on.
	ErrNoTargets = errors.New("rules: no exposed targets")

	// ErrOutOfUnits means the pool has nothing left to deploy.
	ErrOutOfUnits = errors.New("rules: out of units")

	// ErrLowGain means the last sweep pass did not earn its keep.
	ErrLowGain = errors.New("rules: loot gain below threshold")

	// ErrObjectiveReached ends a trophy-mode engagement once a star is seen.
	ErrObjectiveReached = errors.New("rules: objective reached")

	// ErrBattleEnded means the host closed the battle before the engagement
	// finished. There is nothing left to surrender.
	ErrBattleEnded = errors.New("rules: battle ended by host")

	// ErrAborted is recorded when the driver stops the engagement.
	ErrAborted = errors.New("rules: engagement aborted")
)
