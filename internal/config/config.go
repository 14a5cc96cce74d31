package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cjeanneret/GcodeGo/internal/machine"
)

// PrinterConfig describes the machine envelope.
type PrinterConfig struct {
	BedXMm       float64 `yaml:"bed_x_mm"`
	BedYMm       float64 `yaml:"bed_y_mm"`
	BedZMm       float64 `yaml:"bed_z_mm"`
	HomePosition string  `yaml:"home_position"` // bottom_left, bottom_right, top_left, top_right, center
}

// NozzleConfig describes the hotend nozzle.
type NozzleConfig struct {
	WidthMm float64 `yaml:"width_mm"` // also the inset between walls
}

// TemperatureConfig holds target temperatures in °C.
type TemperatureConfig struct {
	NozzleC  uint16 `yaml:"nozzle_c"`  // 0 = 210
	BedC     uint8  `yaml:"bed_c"`     // 0 = 80
	ChamberC uint8  `yaml:"chamber_c"` // 0 = no chamber command
	Wait     *bool  `yaml:"wait"`      // M109/M190 instead of M104/M140 (default: true)
}

// PrintConfig describes the box being printed.
type PrintConfig struct {
	BoxLengthMm            float64 `yaml:"box_length_mm"`
	HeightMm               float64 `yaml:"height_mm"` // 0 = box_length_mm
	WallThicknessMm        float64 `yaml:"wall_thickness_mm"`
	LayerHeightMm          float64 `yaml:"layer_height_mm"`
	FirstLayerHeightMm     float64 `yaml:"first_layer_height_mm"`
	ExtrudePerTravel       float64 `yaml:"extrude_per_travel"` // filament mm per mm of box side
	MoveFeedRate           uint32  `yaml:"move_feed_rate"`     // mm/min
	PrintFeedRate          uint32  `yaml:"print_feed_rate"`    // mm/min
	ClearanceZMm           float64 `yaml:"clearance_z_mm"`
	LayerChange            string  `yaml:"layer_change"`              // direct or hop
	ResetExtruderEachLayer *bool   `yaml:"reset_extruder_each_layer"` // G92 E0 after each layer travel (default: false)
	FanSpeed               uint8   `yaml:"fan_speed"`                 // 0-255, 0 = fan never switched on
	FanStartLayer          *int    `yaml:"fan_start_layer"`           // zero-based (default: 1)
	CoolDown               *bool   `yaml:"cool_down"`                 // heaters and fan off at the end (default: true)
}

// OutputConfig says where the G-code goes.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel int `yaml:"debug_level"` // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
}

// Config aggregates all application configuration.
type Config struct {
	Printer      PrinterConfig     `yaml:"printer"`
	Nozzle       NozzleConfig      `yaml:"nozzle"`
	Temperatures TemperatureConfig `yaml:"temperatures"`
	Print        PrintConfig       `yaml:"print"`
	Output       OutputConfig      `yaml:"output"`
	Defaults     DefaultsConfig    `yaml:"defaults"`
}

// Layer change modes.
const (
	LayerChangeDirect = "direct"
	LayerChangeHop    = "hop"
)

// ValidateConfigPath checks that path names a .yaml file directly inside
// a directory called "configs".
func ValidateConfigPath(path string) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return fmt.Errorf("config path must not contain '..': %s", path)
		}
	}
	clean := filepath.Clean(path)
	if filepath.Ext(clean) != ".yaml" {
		return fmt.Errorf("config file must have .yaml extension: %s", path)
	}
	abs, err := filepath.Abs(clean)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if filepath.Base(filepath.Dir(abs)) != "configs" {
		return fmt.Errorf("config file must be in a configs/ directory: %s", path)
	}
	return nil
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	if err := ValidateConfigPath(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func (c *Config) applyDefaults() {
	if c.Printer.BedXMm <= 0 {
		c.Printer.BedXMm = 220
	}
	if c.Printer.BedYMm <= 0 {
		c.Printer.BedYMm = 220
	}
	if c.Printer.BedZMm <= 0 {
		c.Printer.BedZMm = 250
	}
	if c.Printer.HomePosition == "" {
		c.Printer.HomePosition = "bottom_left"
	}

	if c.Nozzle.WidthMm <= 0 {
		c.Nozzle.WidthMm = 0.4
	}

	if c.Temperatures.NozzleC == 0 {
		c.Temperatures.NozzleC = 210
	}
	if c.Temperatures.BedC == 0 {
		c.Temperatures.BedC = 80
	}
	if c.Temperatures.Wait == nil {
		c.Temperatures.Wait = boolPtr(true)
	}

	p := &c.Print
	if p.BoxLengthMm <= 0 {
		p.BoxLengthMm = 40
	}
	if p.WallThicknessMm <= 0 {
		p.WallThicknessMm = 2 * c.Nozzle.WidthMm
	}
	if p.LayerHeightMm <= 0 {
		p.LayerHeightMm = 0.2
	}
	if p.FirstLayerHeightMm <= 0 {
		p.FirstLayerHeightMm = 0.17
	}
	if p.ExtrudePerTravel <= 0 {
		p.ExtrudePerTravel = 0.024
	}
	if p.MoveFeedRate == 0 {
		p.MoveFeedRate = 3000
	}
	if p.PrintFeedRate == 0 {
		p.PrintFeedRate = 300
	}
	if p.ClearanceZMm <= 0 {
		p.ClearanceZMm = 2
	}
	if p.LayerChange == "" {
		p.LayerChange = LayerChangeDirect
	}
	if p.ResetExtruderEachLayer == nil {
		p.ResetExtruderEachLayer = boolPtr(false)
	}
	if p.FanStartLayer == nil {
		p.FanStartLayer = intPtr(1)
	}
	if p.CoolDown == nil {
		p.CoolDown = boolPtr(true)
	}

	if c.Output.Path == "" {
		c.Output.Path = "out.gcode"
	}
}

func positive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%s must be > 0, got %g", name, v)
	}
	return nil
}

// Validate checks a config that already has defaults applied.
func (c *Config) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"printer.bed_x_mm", c.Printer.BedXMm},
		{"printer.bed_y_mm", c.Printer.BedYMm},
		{"printer.bed_z_mm", c.Printer.BedZMm},
		{"nozzle.width_mm", c.Nozzle.WidthMm},
		{"print.box_length_mm", c.Print.BoxLengthMm},
		{"print.height_mm", c.TotalHeight()},
		{"print.wall_thickness_mm", c.Print.WallThicknessMm},
		{"print.layer_height_mm", c.Print.LayerHeightMm},
		{"print.first_layer_height_mm", c.Print.FirstLayerHeightMm},
		{"print.extrude_per_travel", c.Print.ExtrudePerTravel},
		{"print.clearance_z_mm", c.Print.ClearanceZMm},
	}
	for _, chk := range checks {
		if err := positive(chk.name, chk.v); err != nil {
			return err
		}
	}

	if c.Temperatures.NozzleC == 0 {
		return fmt.Errorf("temperatures.nozzle_c must be > 0")
	}
	if c.Print.MoveFeedRate == 0 || c.Print.PrintFeedRate == 0 {
		return fmt.Errorf("print.move_feed_rate and print.print_feed_rate must be > 0")
	}
	if _, err := machine.ParseHomePos(c.Printer.HomePosition); err != nil {
		return fmt.Errorf("printer.home_position: %w", err)
	}
	if c.Print.BoxLengthMm > c.Printer.BedXMm || c.Print.BoxLengthMm > c.Printer.BedYMm {
		return fmt.Errorf("box of %g mm does not fit a %gx%g mm bed",
			c.Print.BoxLengthMm, c.Printer.BedXMm, c.Printer.BedYMm)
	}
	if c.TotalHeight() > c.Printer.BedZMm {
		return fmt.Errorf("print.height_mm %g exceeds printer.bed_z_mm %g", c.TotalHeight(), c.Printer.BedZMm)
	}
	switch c.Print.LayerChange {
	case LayerChangeDirect, LayerChangeHop:
	default:
		return fmt.Errorf("print.layer_change must be %q or %q, got %q",
			LayerChangeDirect, LayerChangeHop, c.Print.LayerChange)
	}
	if c.FanStartLayer() < 0 {
		return fmt.Errorf("print.fan_start_layer must be >= 0, got %d", c.FanStartLayer())
	}
	if c.Defaults.DebugLevel < 0 || c.Defaults.DebugLevel > 4 {
		return fmt.Errorf("defaults.debug_level must be between 0 and 4, got %d", c.Defaults.DebugLevel)
	}
	return nil
}

// Machine returns the printer as a machine.Machine.
// The home position has already been validated by Load.
func (c *Config) Machine() machine.Machine {
	home, _ := machine.ParseHomePos(c.Printer.HomePosition)
	return machine.Machine{
		BedX: c.Printer.BedXMm,
		BedY: c.Printer.BedYMm,
		Home: home,
	}
}

// TotalHeight returns the height the layers are sliced up to.
// An unset height_mm makes the box a cube.
func (c *Config) TotalHeight() float64 {
	if c.Print.HeightMm == 0 {
		return c.Print.BoxLengthMm
	}
	return c.Print.HeightMm
}

// WaitForTemperatures reports whether heaters are waited on (M109/M190).
func (c *Config) WaitForTemperatures() bool {
	return c.Temperatures.Wait == nil || *c.Temperatures.Wait
}

// ResetsExtruderEachLayer reports whether every layer starts with G92 E0.
func (c *Config) ResetsExtruderEachLayer() bool {
	return c.Print.ResetExtruderEachLayer != nil && *c.Print.ResetExtruderEachLayer
}

// FanStartLayer returns the zero-based layer the fan is switched on at.
func (c *Config) FanStartLayer() int {
	if c.Print.FanStartLayer == nil {
		return 1
	}
	return *c.Print.FanStartLayer
}

// CoolDown reports whether heaters and the fan are switched off at the end.
func (c *Config) CoolDown() bool {
	return c.Print.CoolDown == nil || *c.Print.CoolDown
}
