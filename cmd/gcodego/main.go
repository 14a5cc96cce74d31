package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/cjeanneret/GcodeGo/internal/config"
	"github.com/cjeanneret/GcodeGo/internal/debug"
	"github.com/cjeanneret/GcodeGo/internal/logic/toolpath"
	"github.com/cjeanneret/GcodeGo/internal/sink"
	"github.com/cjeanneret/GcodeGo/internal/web"
)

const defaultWebPort = 8080

func main() {
	// CLI flags
	webPort := &webPortFlag{}
	flag.Var(webPort, "web", "start web server on port; --web alone uses 8080, --web=8980 for a custom port")
	flag.Lookup("web").NoOptDefVal = strconv.Itoa(defaultWebPort)
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	outPath := flag.String("out", "", "override output G-code file")
	boxLengthMm := flag.Float64("box_length_mm", 0, "override box side length in mm")
	wallThicknessMm := flag.Float64("wall_thickness_mm", 0, "override wall thickness in mm")
	layerHeightMm := flag.Float64("layer_height_mm", 0, "override layer height in mm")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	// Validate CLI overrides (only non-zero values are applied; zero means "use config default")
	if err := validateCLIOverrides(*boxLengthMm, *wallThicknessMm, *layerHeightMm); err != nil {
		log.Fatalf("invalid CLI override: %v", err)
	}

	applyOverrides(cfg, web.Overrides{
		BoxLengthMm:     *boxLengthMm,
		WallThicknessMm: *wallThicknessMm,
		LayerHeightMm:   *layerHeightMm,
	})
	if *outPath != "" {
		cfg.Output.Path = *outPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration after overrides: %v", err)
	}

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)
	debug.PrintStruct("Printer", cfg.Printer)
	debug.PrintStruct("Temperatures", cfg.Temperatures)

	if port := webPort.port(); port > 0 {
		webAddr := fmt.Sprintf(":%d", port)
		broadcaster := web.NewStatusBroadcaster()
		debug.SetOutput(io.MultiWriter(os.Stdout, web.BroadcastWriter(broadcaster)))

		run := func(ctx context.Context, overrides web.Overrides) error {
			jobCfg, err := overriddenConfig(cfg, overrides)
			if err != nil {
				return err
			}
			return writeFile(ctx, jobCfg, broadcaster)
		}
		preview := func(ctx context.Context, overrides web.Overrides, out sink.Sink) error {
			jobCfg, err := overriddenConfig(cfg, overrides)
			if err != nil {
				return err
			}
			return generate(ctx, jobCfg, out, nil)
		}

		formDefaults := web.FormConfig{
			BoxLengthMm:     cfg.Print.BoxLengthMm,
			WallThicknessMm: cfg.Print.WallThicknessMm,
			LayerHeightMm:   cfg.Print.LayerHeightMm,
			NozzleWidthMm:   cfg.Nozzle.WidthMm,
			OutputPath:      cfg.Output.Path,
		}
		srv, err := web.NewServer(webAddr, broadcaster, web.Jobs{Run: run, Preview: preview, Form: formDefaults})
		if err != nil {
			log.Fatalf("web server: %v", err)
		}
		if err := srv.Run(ctx); err != nil {
			log.Fatalf("web server: %v", err)
		}
		return
	}

	if err := writeFile(ctx, cfg, nil); err != nil {
		log.Fatalf("generation failed: %v", err)
	}
}

// generate plans the job described by cfg and writes it to out.
// Layer progress goes to b when it is not nil.
func generate(ctx context.Context, cfg *config.Config, out sink.Sink, b *web.StatusBroadcaster) error {
	debug.Step(1, "Calculating toolpath plan")
	plan := toolpath.CalculatePlan(toolpath.ParamsFromConfig(cfg))

	if debug.IsEnabled(debug.LevelInfo) {
		debug.Summary("Toolpath Plan Summary")
		debug.Value("Box length", cfg.Print.BoxLengthMm)
		debug.Value("Height", cfg.TotalHeight())
		debug.Value("Layers", len(plan.Layers))
		debug.Value("Walls", plan.Walls)
		debug.Value("Extrusion per point", plan.ExtrudePerPoint)
		debug.Value("Path length per layer", plan.PathLength)
		if len(plan.Layers) > 0 {
			debug.Value("Last layer", plan.Layers[len(plan.Layers)-1])
		}
	}

	debug.Step(2, "Generating G-code")
	gen := toolpath.NewGenerator(out)
	if b != nil {
		gen.OnLayer = func(n, total int, _ float64) {
			b.BroadcastProgress(n, total)
		}
	}
	return gen.Run(ctx, plan)
}

// writeFile generates the job into cfg.Output.Path.
func writeFile(ctx context.Context, cfg *config.Config, b *web.StatusBroadcaster) error {
	f, err := sink.Create(cfg.Output.Path)
	if err != nil {
		return err
	}
	err = generate(ctx, cfg, f, b)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	debug.Section("Generation Complete")
	debug.Info("Wrote %d lines to %s", f.Lines(), cfg.Output.Path)
	if b != nil {
		b.BroadcastDone(f.Lines())
	}
	return nil
}

// validateCLIOverrides checks that non-zero CLI overrides are within valid ranges.
// Zero values are ignored (they mean "use config default").
func validateCLIOverrides(boxLength, wallThickness, layerHeight float64) error {
	if boxLength != 0 {
		if err := web.CheckRange("box_length_mm", boxLength, web.MaxBoxLengthMm); err != nil {
			return err
		}
	}
	if wallThickness != 0 {
		if err := web.CheckRange("wall_thickness_mm", wallThickness, web.MaxWallThicknessMm); err != nil {
			return err
		}
	}
	if layerHeight != 0 {
		if err := web.CheckRange("layer_height_mm", layerHeight, web.MaxLayerHeightMm); err != nil {
			return err
		}
	}
	return nil
}

// applyOverrides mutates cfg with overrides. Only non-zero override values are applied.
func applyOverrides(cfg *config.Config, overrides web.Overrides) {
	if overrides.BoxLengthMm > 0 {
		cfg.Print.BoxLengthMm = overrides.BoxLengthMm
	}
	if overrides.WallThicknessMm > 0 {
		cfg.Print.WallThicknessMm = overrides.WallThicknessMm
	}
	if overrides.LayerHeightMm > 0 {
		cfg.Print.LayerHeightMm = overrides.LayerHeightMm
	}
}

// overriddenConfig returns a validated copy of baseCfg with overrides applied.
// Zero values in overrides mean "use base config".
func overriddenConfig(baseCfg *config.Config, overrides web.Overrides) (*config.Config, error) {
	cfg := *baseCfg
	applyOverrides(&cfg, overrides)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// webPortFlag implements pflag.Value for --web: 0 = disabled, --web → 8080, --web=8980 → 8980.
type webPortFlag struct {
	val int
}

func (w *webPortFlag) String() string {
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) Type() string { return "port" }

func (w *webPortFlag) port() int { return w.val }
