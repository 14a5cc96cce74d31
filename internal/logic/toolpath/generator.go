package toolpath

import (
	"context"
	"fmt"

	"github.com/cjeanneret/GcodeGo/internal/debug"
	"github.com/cjeanneret/GcodeGo/internal/gcode"
	"github.com/cjeanneret/GcodeGo/internal/logic/extrusion"
	"github.com/cjeanneret/GcodeGo/internal/sink"
)

// Generator turns a Plan into G-code lines written to a sink.
type Generator struct {
	out sink.Sink

	// OnLayer, when set, is called after layer n (1-based) of total is written.
	OnLayer func(n, total int, z float64)
}

func NewGenerator(out sink.Sink) *Generator {
	return &Generator{out: out}
}

// Run writes the whole job: preamble, one block per layer, postamble.
// The first sink failure stops generation and is returned. ctx is only
// checked between layers.
func (g *Generator) Run(ctx context.Context, plan *Plan) error {
	debug.Plan(len(plan.Layers), plan.Walls, plan.TotalLines)
	if len(plan.Layers) == 0 {
		debug.Info("No layers fit below %g mm, only preamble is written", plan.Params.Height)
	}
	if plan.Walls == 0 {
		debug.Info("Wall thickness %g mm is thinner than the nozzle, layers have no walls", plan.Params.WallThickness)
	}

	if err := g.writePreamble(plan); err != nil {
		return fmt.Errorf("preamble: %w", err)
	}

	acc := extrusion.NewAccumulator()
	for i, z := range plan.Layers {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		debug.Layer(i+1, len(plan.Layers), z)
		if err := g.writeLayer(plan, i, acc); err != nil {
			return fmt.Errorf("layer %d: %w", i+1, err)
		}
		if g.OnLayer != nil {
			g.OnLayer(i+1, len(plan.Layers), z)
		}
	}

	if err := g.writePostamble(plan); err != nil {
		return fmt.Errorf("postamble: %w", err)
	}
	return nil
}

func (g *Generator) write(lines ...string) error {
	for _, l := range lines {
		if err := g.out.WriteLine(l); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) writePreamble(plan *Plan) error {
	p := plan.Params
	debug.Section("Preamble")

	var lines []string
	if p.WaitTemps {
		lines = append(lines, gcode.WaitBedTemp(p.BedTemp))
	} else {
		lines = append(lines, gcode.SetBedTemp(p.BedTemp))
	}
	if p.ChamberTemp > 0 {
		if p.WaitTemps {
			lines = append(lines, gcode.WaitChamberTemp(p.ChamberTemp))
		} else {
			lines = append(lines, gcode.SetChamberTemp(p.ChamberTemp))
		}
	}
	if p.WaitTemps {
		lines = append(lines, gcode.WaitHotendTemp(p.NozzleTemp, gcode.None[uint8]()))
	} else {
		lines = append(lines, gcode.SetHotendTemp(p.NozzleTemp, gcode.None[uint8]()))
	}

	home := p.Machine.HomePoint()
	debug.Verbose("Home point (%g, %g), clearance z=%g", home.X, home.Y, p.ClearanceZ)
	lines = append(lines,
		gcode.AbsolutePositioning(),
		gcode.AbsoluteExtrusion(),
		gcode.AutoHome(),
		gcode.ResetExtruder(0),
		gcode.MoveXYZ(gcode.Point3d{X: home.X, Y: home.Y, Z: p.ClearanceZ}, gcode.Some(p.MoveFeed), gcode.None[float64]()),
	)
	return g.write(lines...)
}

// writeLayer emits layer i. acc is restarted for every layer, so each
// layer's E values count up from the first extruding move.
func (g *Generator) writeLayer(plan *Plan, i int, acc *extrusion.Accumulator) error {
	p := plan.Params
	z := plan.Layers[i]
	start := plan.Start(z)
	debug.Verbose("Layer start (%g, %g, %g)", start.X, start.Y, start.Z)

	if p.HopLayerChange && i > 0 {
		if err := g.write(
			gcode.MoveZ(plan.HopZ(plan.Layers[i-1])),
			gcode.MoveXY(start.XY(), gcode.None[uint32](), gcode.None[float64]()),
			gcode.MoveZ(z),
		); err != nil {
			return err
		}
	} else {
		if err := g.write(gcode.MoveXYZ(start, gcode.Some(p.MoveFeed), gcode.None[float64]())); err != nil {
			return err
		}
	}

	if p.ResetExtruderEachLayer {
		if err := g.write(gcode.ResetExtruder(0)); err != nil {
			return err
		}
	}
	if plan.FanLayer(i) {
		debug.Live("Fan on at %d", p.FanSpeed)
		if err := g.write(gcode.SetFanSpeed(p.FanSpeed, gcode.None[uint8]())); err != nil {
			return err
		}
	}

	acc.Reset()
	feed := gcode.Some(p.PrintFeed)
	for _, pt := range plan.Perimeter(start) {
		e := acc.Advance(plan.ExtrudePerPoint)
		if err := g.write(gcode.MoveXYZ(pt, feed, gcode.Some(e))); err != nil {
			return err
		}
	}
	debug.Verbose("Layer %d extruded E%g", i+1, acc.Total())
	return nil
}

func (g *Generator) writePostamble(plan *Plan) error {
	if !plan.Params.CoolDown {
		return nil
	}
	debug.Section("Cool down")
	return g.write(
		gcode.FanOff(gcode.None[uint8]()),
		gcode.SetHotendTemp(0, gcode.None[uint8]()),
		gcode.SetBedTemp(0),
	)
}
