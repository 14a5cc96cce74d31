package extrusion

// Accumulator keeps the absolute extruder position along one path, so
// every extruding move can carry its E target.
// It is owned by a single generator and is not safe for concurrent use.
type Accumulator struct {
	total float64
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Advance adds amount and returns the new absolute position.
// Advance(0) returns the current position unchanged.
func (a *Accumulator) Advance(amount float64) float64 {
	a.total += amount
	return a.total
}

// Total returns the current absolute position.
func (a *Accumulator) Total() float64 {
	return a.total
}

// Reset puts the position back to zero, matching a G92 E0.
func (a *Accumulator) Reset() {
	a.total = 0
}
