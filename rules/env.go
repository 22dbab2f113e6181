package rules

// Env is the snapshot a review evaluates. Methods are callable from expr
// conditions.
type Env struct {
	Planning  bool // true before a pass, false when reviewing a finished wave
	Wave      int  // waves finished over the whole engagement
	ModeWave  int  // waves finished in the current mode
	Stars     int
	Destroyed bool // primary structure destroyed
	LootValid bool // the last loot read succeeded
	Gained    int  // gold+elixir taken since the baseline; 0 when the read failed
	Avail     int  // gold+elixir available at the baseline
	Targets   int  // exposed targets known to the current pass
	UnitsLeft int
}

func (e Env) Gain() int { return e.Gained }

func (e Env) Available() int { return e.Avail }

func (e Env) HaveAStar() bool { return e.Stars > 0 }

// GainPercent is the gain as a fraction of available loot.
func (e Env) GainPercent() float64 {
	if e.Avail <= 0 {
		return 0
	}
	return float64(e.Gained) / float64(e.Avail)
}

func (e Env) OutOfUnits() bool { return e.UnitsLeft <= 0 }
