package gcode

// linearOpcode picks G1 when the move extrudes and G0 otherwise.
func linearOpcode(extrude Opt[float64]) string {
	if extrude.IsSome() {
		return "G1"
	}
	return "G0"
}

// MoveXY returns a G0 travel, or a G1 extruding move when extrude is
// present. E is written before F.
//
//	MoveXY(Point2d{10, 5}, None[uint32](), Some(5.0)) == "G1 X10 Y5 E5\n"
func MoveXY(dest Point2d, feed Opt[uint32], extrude Opt[float64]) string {
	return newLine(linearOpcode(extrude)).
		float('X', dest.X).
		float('Y', dest.Y).
		optFloat('E', extrude).
		optFeed(feed).
		String()
}

// MoveXYZ is MoveXY with a Z field.
func MoveXYZ(dest Point3d, feed Opt[uint32], extrude Opt[float64]) string {
	return newLine(linearOpcode(extrude)).
		float('X', dest.X).
		float('Y', dest.Y).
		float('Z', dest.Z).
		optFloat('E', extrude).
		optFeed(feed).
		String()
}

// MoveZ returns a Z-only travel, used for layer changes and z-hops.
func MoveZ(z float64) string {
	return newLine("G0").float('Z', z).String()
}

// ArcIJ returns a G2 (clockwise) or G3 (counter-clockwise) arc. I and J
// are the center offsets from the current position. Every field is
// optional; present ones are written in X, Y, I, J, E order.
func ArcIJ(dest Opt[Point2d], i, j Opt[float64], extrude Opt[float64], ccw bool) string {
	opcode := "G2"
	if ccw {
		opcode = "G3"
	}
	l := newLine(opcode)
	if p, ok := dest.Get(); ok {
		l.float('X', p.X).float('Y', p.Y)
	}
	return l.optFloat('I', i).
		optFloat('J', j).
		optFloat('E', extrude).
		String()
}

// SetPos2d declares the current XY position without moving (G92).
func SetPos2d(pos Point2d, extrude Opt[float64]) string {
	return newLine("G92").
		float('X', pos.X).
		float('Y', pos.Y).
		optFloat('E', extrude).
		String()
}

// SetPos3d declares the current XYZ position without moving (G92).
func SetPos3d(pos Point3d, extrude Opt[float64]) string {
	return newLine("G92").
		float('X', pos.X).
		float('Y', pos.Y).
		float('Z', pos.Z).
		optFloat('E', extrude).
		String()
}

// ResetExtruder sets the extruder axis position (G92 E).
func ResetExtruder(e float64) string {
	return newLine("G92").float('E', e).String()
}
