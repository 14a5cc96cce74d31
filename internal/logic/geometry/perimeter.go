package geometry

import (
	"math"

	"github.com/cjeanneret/GcodeGo/internal/gcode"
)

// WallCount returns how many nozzle-width walls fit in wallThickness.
// The fraction is dropped, so 1.0 mm with a 0.4 mm nozzle is 2 walls.
func WallCount(wallThickness, nozzleWidth float64) uint {
	n := wallThickness / nozzleWidth
	if !(n > 0) {
		return 0
	}
	if n >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint(n)
}

// Perimeter traces walls concentric rectangles inside the xDim by yDim
// box whose minimum corner is start, outermost first. Wall n is inset by
// n*inset on every side.
//
// Each wall is four points: up to the top edge, right to the right edge,
// down to the bottom edge, left to the left edge. The path is
// continuous: wall 0 starts from start and every later wall starts where
// the previous one ended, so consecutive points always differ in exactly
// one axis.
func Perimeter(start gcode.Point3d, inset float64, walls uint, xDim, yDim float64) []gcode.Point3d {
	points := make([]gcode.Point3d, 0, 4*walls)
	cur := start
	for n := uint(0); n < walls; n++ {
		offset := float64(n) * inset

		cur = gcode.Point3d{X: cur.X, Y: start.Y + yDim - offset, Z: cur.Z}
		points = append(points, cur)
		cur = gcode.Point3d{X: start.X + xDim - offset, Y: cur.Y, Z: cur.Z}
		points = append(points, cur)
		cur = gcode.Point3d{X: cur.X, Y: start.Y + offset, Z: cur.Z}
		points = append(points, cur)
		cur = gcode.Point3d{X: start.X + offset, Y: cur.Y, Z: cur.Z}
		points = append(points, cur)
	}
	return points
}
