package ipc

import "github.com/nstehr/vimy/vimy-raid/model"

// PlaceCommand drops one unit of a group at a map point. The host adds its
// own jitter within the given bounds.
type PlaceCommand struct {
	Unit    string  `json:"unit"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	JitterX int     `json:"jitter_x,omitempty"`
	JitterY int     `json:"jitter_y,omitempty"`
}

// PlaceFromStep converts a place step to its wire command.
func PlaceFromStep(s model.Step) PlaceCommand {
	return PlaceCommand{Unit: s.Unit, X: s.Point.X, Y: s.Point.Y, JitterX: s.JitterX, JitterY: s.JitterY}
}

type ActivateCommand struct {
	Unit string `json:"unit"`
}

type SurrenderCommand struct {
	Reason string `json:"reason"`
}
