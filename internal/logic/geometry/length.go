package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/cjeanneret/GcodeGo/internal/gcode"
)

func vec(p gcode.Point3d) mgl64.Vec3 {
	return mgl64.Vec3{p.X, p.Y, p.Z}
}

// PathLength returns the Euclidean length of the polyline from through
// every point of points.
func PathLength(from gcode.Point3d, points []gcode.Point3d) float64 {
	total := 0.0
	prev := vec(from)
	for _, p := range points {
		v := vec(p)
		total += v.Sub(prev).Len()
		prev = v
	}
	return total
}
