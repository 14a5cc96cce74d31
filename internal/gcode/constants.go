package gcode

// Constant is a parameterless machine-mode command.
type Constant int

const (
	UseMillimeters    Constant = iota // G21
	UseInches                         // G20
	AbsolutePos                       // G90, all axes relative to home
	RelativePos                       // G91, all axes relative to the tool
	ResetPosition                     // G92.1, back to native offsets
	Home                              // G28, firmware autohome
	AbsoluteExtrude                   // M82, extruder axis only
	RelativeExtrude                   // M83, extruder axis only
)

// String returns the bare opcode.
func (c Constant) String() string {
	switch c {
	case UseMillimeters:
		return "G21"
	case UseInches:
		return "G20"
	case AbsolutePos:
		return "G90"
	case RelativePos:
		return "G91"
	case ResetPosition:
		return "G92.1"
	case Home:
		return "G28"
	case AbsoluteExtrude:
		return "M82"
	case RelativeExtrude:
		return "M83"
	default:
		return ""
	}
}

// Line returns the opcode as a full command line.
func (c Constant) Line() string {
	return c.String() + "\n"
}

// AbsolutePositioning returns G90.
func AbsolutePositioning() string { return AbsolutePos.Line() }

// RelativePositioning returns G91.
func RelativePositioning() string { return RelativePos.Line() }

// ResetPos returns G92.1.
func ResetPos() string { return ResetPosition.Line() }

// AutoHome returns G28.
func AutoHome() string { return Home.Line() }

// AbsoluteExtrusion returns M82.
func AbsoluteExtrusion() string { return AbsoluteExtrude.Line() }

// RelativeExtrusion returns M83.
func RelativeExtrusion() string { return RelativeExtrude.Line() }
