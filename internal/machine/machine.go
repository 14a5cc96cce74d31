// Package machine describes the printer envelope and where it homes.
package machine

import (
	"fmt"

	"github.com/cjeanneret/GcodeGo/internal/gcode"
)

// HomePos is the bed corner (or center) the printer homes to.
type HomePos int

const (
	BottomLeft HomePos = iota
	BottomRight
	TopLeft
	TopRight
	Center
)

var homeNames = map[string]HomePos{
	"bottom_left":  BottomLeft,
	"bottom_right": BottomRight,
	"top_left":     TopLeft,
	"top_right":    TopRight,
	"center":       Center,
}

// ParseHomePos maps a config name such as "bottom_left" to a HomePos.
// An empty name means BottomLeft.
func ParseHomePos(name string) (HomePos, error) {
	if name == "" {
		return BottomLeft, nil
	}
	h, ok := homeNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown home position %q", name)
	}
	return h, nil
}

func (h HomePos) String() string {
	for name, v := range homeNames {
		if v == h {
			return name
		}
	}
	return fmt.Sprintf("HomePos(%d)", int(h))
}

// Machine holds the bed size in millimeters and the home position.
type Machine struct {
	BedX, BedY float64
	Home       HomePos
}

// HomePoint returns the XY position the nozzle sits at after G28.
func (m Machine) HomePoint() gcode.Point2d {
	switch m.Home {
	case BottomRight:
		return gcode.Point2d{X: m.BedX, Y: 0}
	case TopLeft:
		return gcode.Point2d{X: 0, Y: m.BedY}
	case TopRight:
		return gcode.Point2d{X: m.BedX, Y: m.BedY}
	case Center:
		return gcode.Point2d{X: m.BedX / 2, Y: m.BedY / 2}
	default:
		return gcode.Point2d{X: 0, Y: 0}
	}
}
