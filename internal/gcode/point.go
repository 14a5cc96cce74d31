// Package gcode renders single G-code command lines from typed motion
// and machine-state parameters. Every renderer is pure: it returns one
// line terminated by "\n" and never fails.
package gcode

// Point2d is a position in the XY plane, in millimeters.
type Point2d struct {
	X, Y float64
}

// Point3d is a position in XYZ space, in millimeters.
type Point3d struct {
	X, Y, Z float64
}

// XY drops the Z coordinate.
func (p Point3d) XY() Point2d {
	return Point2d{X: p.X, Y: p.Y}
}

// Opt is a value that is either present or absent.
// The zero value is absent.
type Opt[T any] struct {
	v  T
	ok bool
}

// Some returns a present value.
func Some[T any](v T) Opt[T] {
	return Opt[T]{v: v, ok: true}
}

// None returns an absent value.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) {
	return o.v, o.ok
}

// IsSome reports whether the value is present.
func (o Opt[T]) IsSome() bool {
	return o.ok
}
