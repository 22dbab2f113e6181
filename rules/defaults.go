package rules

import "fmt"

// Thresholds parameterize the default rule set.
type Thresholds struct {
	SnipeWaveCeiling     int     // waves in Sniping before giving up
	LootGainAbortPercent float64 // snipe gain below this fraction of available loot switches to Sweeping
	MinGainPerCluster    int     // sweep gain required per exposed target
	MinExposedTargets    int     // fewer exposed targets than this surrenders
	MaxSweepWaves        int     // waves in Sweeping before giving up
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		SnipeWaveCeiling:     10,
		LootGainAbortPercent: 0.05,
		MinGainPerCluster:    3000,
		MinExposedTargets:    1,
		MaxSweepWaves:        20,
	}
}

// DefaultRules generates the decision loop's transitions. Conditions are
// built with fmt.Sprintf from the thresholds so they always compile.
func DefaultRules(t Thresholds) []*Rule {
	t.MinExposedTargets = max(t.MinExposedTargets, 1)
	var rules []*Rule

	// --- Sniping: reviewed after each wave ---

	rules = append(rules, &Rule{
		Name:         "snipe-objective-reached",
		Priority:     1000,
		From:         Sniping,
		ConditionSrc: `!Planning && HaveAStar()`,
		Next:         Done,
	})

	rules = append(rules, &Rule{
		Name:         "snipe-wave-ceiling",
		Priority:     900,
		From:         Sniping,
		ConditionSrc: fmt.Sprintf(`!Planning && ModeWave >= %d`, max(t.SnipeWaveCeiling, 1)),
		Next:         Surrendering,
		Reason:       ErrWaveCeiling,
	})

	rules = append(rules, &Rule{
		Name:         "snipe-out-of-units",
		Priority:     850,
		From:         Sniping,
		ConditionSrc: `!Planning && OutOfUnits()`,
		Next:         Surrendering,
		Reason:       ErrOutOfUnits,
	})

	// A failed read leaves nothing to measure the snipe against, which is
	// no measurable gain. Covers the pre-attack read too, where there is no
	// baseline for snipe-low-gain to compare with.
	rules = append(rules, &Rule{
		Name:         "snipe-loot-unreadable",
		Priority:     600,
		From:         Sniping,
		ConditionSrc: `!Planning && !LootValid`,
		Next:         Sweeping,
	})

	rules = append(rules, &Rule{
		Name:         "snipe-low-gain",
		Priority:     500,
		From:         Sniping,
		ConditionSrc: fmt.Sprintf(`!Planning && Gain() < %g * Available()`, t.LootGainAbortPercent),
		Next:         Sweeping,
	})

	// --- Sweeping: checked before each pass ---

	rules = append(rules, &Rule{
		Name:         "sweep-no-targets",
		Priority:     1000,
		From:         Sweeping,
		ConditionSrc: fmt.Sprintf(`Planning && Targets < %d`, t.MinExposedTargets),
		Next:         Surrendering,
		Reason:       ErrNoTargets,
	})

	rules = append(rules, &Rule{
		Name:         "sweep-out-of-units",
		Priority:     950,
		From:         Sweeping,
		ConditionSrc: `OutOfUnits()`,
		Next:         Surrendering,
		Reason:       ErrOutOfUnits,
	})

	// --- Sweeping: reviewed after each pass ---

	if t.MaxSweepWaves > 0 {
		rules = append(rules, &Rule{
			Name:         "sweep-wave-ceiling",
			Priority:     900,
			From:         Sweeping,
			ConditionSrc: fmt.Sprintf(`!Planning && ModeWave >= %d`, t.MaxSweepWaves),
			Next:         Surrendering,
			Reason:       ErrWaveCeiling,
		})
	}

	rules = append(rules, &Rule{
		Name:         "sweep-low-gain",
		Priority:     500,
		From:         Sweeping,
		ConditionSrc: fmt.Sprintf(`!Planning && Gain() < %d * Targets`, t.MinGainPerCluster),
		Next:         Surrendering,
		Reason:       ErrLowGain,
	})

	return rules
}
