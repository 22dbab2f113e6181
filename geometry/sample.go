package geometry

import (
	"math"

	"github.com/nstehr/vimy/vimy-raid/model"
)

// SampleStep is the walk step that spreads units evenly over length points.
func SampleStep(length, units int) float64 {
	if length <= 0 || units <= 0 {
		return 0
	}
	return float64(length) / float64(units)
}

// SampleIndices walks [0, length) at step and returns ceil(length/step)
// indices, each wrapped modulo length.
func SampleIndices(length int, step float64) []int {
	if length <= 0 || step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil
	}
	// The epsilon keeps L/(L/U) == U from rounding up to U+1.
	n := int(math.Ceil(float64(length)/step - 1e-9))
	if n < 1 {
		n = 1
	}
	out := make([]int, n)
	for k := range n {
		out[k] = int(float64(k)*step) % length
	}
	return out
}

// SampleEvery returns the points at SampleIndices(len(seq), step).
func SampleEvery(seq []model.Point, step float64) []model.Point {
	idx := SampleIndices(len(seq), step)
	out := make([]model.Point, len(idx))
	for i, j := range idx {
		out[i] = seq[j]
	}
	return out
}
