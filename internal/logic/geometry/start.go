package geometry

import "github.com/cjeanneret/GcodeGo/internal/gcode"

// CenteredStart returns the minimum corner of a printX by printY
// rectangle centered on a bedX by bedY bed, at height z.
func CenteredStart(bedX, bedY, printX, printY, z float64) gcode.Point3d {
	return gcode.Point3d{
		X: bedX/2 - printX/2,
		Y: bedY/2 - printY/2,
		Z: z,
	}
}
