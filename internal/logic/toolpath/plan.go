package toolpath

import (
	"github.com/cjeanneret/GcodeGo/internal/config"
	"github.com/cjeanneret/GcodeGo/internal/gcode"
	"github.com/cjeanneret/GcodeGo/internal/logic/geometry"
	"github.com/cjeanneret/GcodeGo/internal/machine"
)

// hopFactor scales the layer height for the Z lift between layers.
const hopFactor = 1.25

// Params defines everything needed to generate a box toolpath.
type Params struct {
	Machine machine.Machine

	NozzleWidth      float64 // mm, also the inset between walls
	BoxLength        float64 // mm, side of the square box
	Height           float64 // mm, layers stop below this
	WallThickness    float64 // mm
	LayerHeight      float64 // mm
	FirstLayerHeight float64 // mm
	ExtrudePerTravel float64 // filament mm per mm of box side
	ClearanceZ       float64 // mm, Z of the travel after homing

	MoveFeed  uint32 // mm/min for travels
	PrintFeed uint32 // mm/min for extruding moves

	HopLayerChange         bool // lift, travel, lower between layers
	ResetExtruderEachLayer bool // G92 E0 at every layer start

	NozzleTemp  uint16
	BedTemp     uint8
	ChamberTemp uint8 // 0 = not set
	WaitTemps   bool  // M109/M190/M191 instead of M104/M140/M141

	FanSpeed      uint8 // 0 = fan not used
	FanStartLayer int   // zero-based layer index

	CoolDown bool // heaters and fan off at the end
}

// ParamsFromConfig builds Params from a loaded configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		Machine:                cfg.Machine(),
		NozzleWidth:            cfg.Nozzle.WidthMm,
		BoxLength:              cfg.Print.BoxLengthMm,
		Height:                 cfg.TotalHeight(),
		WallThickness:          cfg.Print.WallThicknessMm,
		LayerHeight:            cfg.Print.LayerHeightMm,
		FirstLayerHeight:       cfg.Print.FirstLayerHeightMm,
		ExtrudePerTravel:       cfg.Print.ExtrudePerTravel,
		ClearanceZ:             cfg.Print.ClearanceZMm,
		MoveFeed:               cfg.Print.MoveFeedRate,
		PrintFeed:              cfg.Print.PrintFeedRate,
		HopLayerChange:         cfg.Print.LayerChange == config.LayerChangeHop,
		ResetExtruderEachLayer: cfg.ResetsExtruderEachLayer(),
		NozzleTemp:             cfg.Temperatures.NozzleC,
		BedTemp:                cfg.Temperatures.BedC,
		ChamberTemp:            cfg.Temperatures.ChamberC,
		WaitTemps:              cfg.WaitForTemperatures(),
		FanSpeed:               cfg.Print.FanSpeed,
		FanStartLayer:          cfg.FanStartLayer(),
		CoolDown:               cfg.CoolDown(),
	}
}

// Plan is the precomputed shape of a job.
type Plan struct {
	Params Params

	Layers          []float64 // z of every layer, increasing
	Walls           uint      // concentric walls per layer
	PointsPerLayer  int       // extruding moves per layer
	ExtrudePerPoint float64   // E added by each extruding move
	PathLength      float64   // mm travelled by the nozzle per layer while extruding
	TotalLines      int       // lines Run will write
}

// CalculatePlan computes the layer series, wall count and line budget
// for p.
func CalculatePlan(p Params) *Plan {
	layers := geometry.LayerHeights(p.FirstLayerHeight, p.Height, p.LayerHeight)
	walls := geometry.WallCount(p.WallThickness, p.NozzleWidth)

	plan := &Plan{
		Params:         p,
		Layers:         layers,
		Walls:          walls,
		PointsPerLayer: int(4 * walls),
		// Every point gets the same amount regardless of segment length.
		ExtrudePerPoint: p.BoxLength * p.ExtrudePerTravel,
	}
	if len(layers) > 0 {
		start := plan.Start(layers[0])
		plan.PathLength = geometry.PathLength(start, plan.Perimeter(start))
	}
	plan.TotalLines = plan.countLines()
	return plan
}

// Start returns the first corner of the box at height z, centred on the bed.
func (p *Plan) Start(z float64) gcode.Point3d {
	m := p.Params.Machine
	return geometry.CenteredStart(m.BedX, m.BedY, p.Params.BoxLength, p.Params.BoxLength, z)
}

// Perimeter returns the extruding points of one layer starting at start.
func (p *Plan) Perimeter(start gcode.Point3d) []gcode.Point3d {
	return geometry.Perimeter(start, p.Params.NozzleWidth, p.Walls, p.Params.BoxLength, p.Params.BoxLength)
}

// HopZ returns the lift height used when leaving a layer at prevZ.
func (p *Plan) HopZ(prevZ float64) float64 {
	return prevZ + p.Params.LayerHeight*hopFactor
}

// FanLayer reports whether the fan is switched on at layer index i.
func (p *Plan) FanLayer(i int) bool {
	return p.Params.FanSpeed > 0 && i == p.Params.FanStartLayer
}

func (p *Plan) preambleLines() int {
	n := 7 // bed, hotend, G90, M82, G28, G92 E0, clearance travel
	if p.Params.ChamberTemp > 0 {
		n++
	}
	return n
}

func (p *Plan) layerLines(i int) int {
	n := p.PointsPerLayer + 1
	if p.Params.HopLayerChange && i > 0 {
		n += 2
	}
	if p.Params.ResetExtruderEachLayer {
		n++
	}
	if p.FanLayer(i) {
		n++
	}
	return n
}

func (p *Plan) postambleLines() int {
	if p.Params.CoolDown {
		return 3
	}
	return 0
}

func (p *Plan) countLines() int {
	n := p.preambleLines() + p.postambleLines()
	for i := range p.Layers {
		n += p.layerLines(i)
	}
	return n
}
