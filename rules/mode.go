package rules

import (
	"fmt"

	"github.com/nstehr/vimy/vimy-raid/model"
)

// Mode is the engagement's strategy mode.
type Mode int32

const (
	Sniping Mode = iota
	Sweeping
	Surrendering
	Done
)

var modeNames = [...]string{"sniping", "sweeping", "surrendering", "done"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Terminal reports whether no further waves follow.
func (m Mode) Terminal() bool { return m == Surrendering || m == Done }

// EntryMode picks the starting mode: an engagement whose primary structure is
// already gone, or cannot be reached, skips straight to Sweeping.
func EntryMode(obj model.Objective, snipable bool) Mode {
	if obj.PrimaryDestroyed || !snipable {
		return Sweeping
	}
	return Sniping
}
