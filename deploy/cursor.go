package deploy

import "math"

// Cursor picks the next index into a point sequence of length n.
type Cursor interface {
	Next(n int) int
}

// goldenRatio is the multiplier of the low-discrepancy cursor. Its spread is
// empirical: consecutive picks land far apart on the perimeter.
const goldenRatio = 1.618034

// GoldenCursor walks counter 0..n-1 and maps it to
// floor(counter * 1.618034 * n mod n).
type GoldenCursor struct {
	counter int
}

func (c *GoldenCursor) Next(n int) int {
	if n <= 0 {
		return 0
	}
	if c.counter >= n {
		c.counter = 0
	}
	i := int(math.Mod(float64(c.counter)*goldenRatio*float64(n), float64(n)))
	c.counter++
	return i % n
}

// ModuloCursor cycles 0, 1, ..., n-1, 0, ...
type ModuloCursor struct {
	counter int
}

func (c *ModuloCursor) Next(n int) int {
	if n <= 0 {
		return 0
	}
	if c.counter >= n {
		c.counter = 0
	}
	i := c.counter
	c.counter++
	return i
}
