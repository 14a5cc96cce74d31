package main

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	flag "github.com/spf13/pflag"

	"github.com/cjeanneret/GcodeGo/internal/config"
	"github.com/cjeanneret/GcodeGo/internal/sink"
	"github.com/cjeanneret/GcodeGo/internal/web"
)

// ---------- validateCLIOverrides ----------

func TestValidateCLIOverrides_AllZero(t *testing.T) {
	if err := validateCLIOverrides(0, 0, 0); err != nil {
		t.Errorf("all zeros should be valid (use config defaults), got: %v", err)
	}
}

func TestValidateCLIOverrides_ValidBoundary(t *testing.T) {
	cases := []struct {
		name    string
		b, w, l float64
	}{
		{"max_box", 300, 0, 0},
		{"max_wall", 0, 20, 0},
		{"max_layer", 0, 0, 2},
		{"reference", 40, 0.8, 0.2},
		{"small_positive", 0.001, 0.001, 0.001},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validateCLIOverrides(tc.b, tc.w, tc.l); err != nil {
				t.Errorf("expected valid, got: %v", err)
			}
		})
	}
}

func TestValidateCLIOverrides_Invalid(t *testing.T) {
	nan := math.NaN()
	cases := []struct {
		name    string
		b, w, l float64
	}{
		{"box_too_large", 301, 0, 0},
		{"wall_too_large", 0, 21, 0},
		{"layer_too_large", 0, 0, 2.5},
		{"box_negative", -1, 0, 0},
		{"wall_negative", 0, -1, 0},
		{"layer_negative", 0, 0, -1},
		{"box_NaN", nan, 0, 0},
		{"wall_+Inf", 0, math.Inf(1), 0},
		{"layer_-Inf", 0, 0, math.Inf(-1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validateCLIOverrides(tc.b, tc.w, tc.l); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

// ---------- webPortFlag ----------

func parseWeb(t *testing.T, args ...string) (*webPortFlag, error) {
	t.Helper()
	w := &webPortFlag{}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(w, "web", "")
	fs.Lookup("web").NoOptDefVal = strconv.Itoa(defaultWebPort)
	return w, fs.Parse(args)
}

func TestWebPortFlag_NoValueUsesDefault(t *testing.T) {
	w, err := parseWeb(t, "--web")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if w.port() != 8080 {
		t.Errorf("expected default port 8080, got %d", w.port())
	}
}

func TestWebPortFlag_Absent(t *testing.T) {
	w, err := parseWeb(t)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if w.port() != 0 {
		t.Errorf("expected web server disabled, got port %d", w.port())
	}
}

func TestWebPortFlag_ValidPorts(t *testing.T) {
	cases := []struct {
		input string
		want  int
	}{
		{"8080", 8080},
		{"1", 1},
		{"65535", 65535},
		{"3000", 3000},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			w, err := parseWeb(t, "--web="+tc.input)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.input, err)
			}
			if w.port() != tc.want {
				t.Errorf("port() = %d, want %d", w.port(), tc.want)
			}
		})
	}
}

func TestWebPortFlag_InvalidPorts(t *testing.T) {
	cases := []string{"0", "65536", "-1", "abc", "8080.5", ""}
	for _, input := range cases {
		t.Run(input, func(t *testing.T) {
			w := &webPortFlag{}
			if err := w.Set(input); err == nil {
				t.Errorf("Set(%q) should fail, got nil", input)
			}
		})
	}
}

func TestWebPortFlag_String(t *testing.T) {
	w := &webPortFlag{val: 0}
	if s := w.String(); s != "0" {
		t.Errorf("String() = %q, want \"0\"", s)
	}
	w.val = 9090
	if s := w.String(); s != "9090" {
		t.Errorf("String() = %q, want \"9090\"", s)
	}
	if w.Type() != "port" {
		t.Errorf("Type() = %q", w.Type())
	}
}

// ---------- applyOverrides ----------

// loadTestConfig writes yaml into a temporary configs/ dir and loads it.
func loadTestConfig(t *testing.T, yaml string) *config.Config {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "configs")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "test.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return cfg
}

func TestApplyOverrides_NonZero(t *testing.T) {
	cfg := loadTestConfig(t, "{}\n")
	applyOverrides(cfg, web.Overrides{BoxLengthMm: 20, WallThicknessMm: 1.2, LayerHeightMm: 0.3})

	if cfg.Print.BoxLengthMm != 20 {
		t.Errorf("BoxLengthMm = %v, want 20", cfg.Print.BoxLengthMm)
	}
	if cfg.Print.WallThicknessMm != 1.2 {
		t.Errorf("WallThicknessMm = %v, want 1.2", cfg.Print.WallThicknessMm)
	}
	if cfg.Print.LayerHeightMm != 0.3 {
		t.Errorf("LayerHeightMm = %v, want 0.3", cfg.Print.LayerHeightMm)
	}
	if cfg.TotalHeight() != 20 {
		t.Errorf("TotalHeight() = %v, want the overridden box length", cfg.TotalHeight())
	}
}

func TestApplyOverrides_ZeroKeepsConfig(t *testing.T) {
	cfg := loadTestConfig(t, "{}\n")
	applyOverrides(cfg, web.Overrides{})

	if cfg.Print.BoxLengthMm != 40 || cfg.Print.WallThicknessMm != 0.8 || cfg.Print.LayerHeightMm != 0.2 {
		t.Errorf("zero overrides changed config: %+v", cfg.Print)
	}
}

func TestOverriddenConfig_DoesNotMutateBase(t *testing.T) {
	base := loadTestConfig(t, "{}\n")
	cfg, err := overriddenConfig(base, web.Overrides{BoxLengthMm: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Print.BoxLengthMm != 30 {
		t.Errorf("copy BoxLengthMm = %v, want 30", cfg.Print.BoxLengthMm)
	}
	if base.Print.BoxLengthMm != 40 {
		t.Errorf("base BoxLengthMm = %v, want 40 (unchanged)", base.Print.BoxLengthMm)
	}
}

func TestOverriddenConfig_RejectsBoxLargerThanBed(t *testing.T) {
	base := loadTestConfig(t, "{}\n")
	if _, err := overriddenConfig(base, web.Overrides{BoxLengthMm: 250}); err == nil {
		t.Error("expected error for a 250 mm box on a 220 mm bed")
	}
}

// ---------- generation ----------

func TestWriteFile_ReferenceBox(t *testing.T) {
	cfg := loadTestConfig(t, "{}\n")
	cfg.Output.Path = filepath.Join(t.TempDir(), "box.gcode")

	if err := writeFile(context.Background(), cfg, nil); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
	data, err := os.ReadFile(cfg.Output.Path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.SplitAfter(string(data), "\n")
	lines = lines[:len(lines)-1] // text ends with a newline

	// 7 preamble + 200 layers of (travel + 8 moves) + 3 postamble
	if len(lines) != 1810 {
		t.Errorf("wrote %d lines, want 1810", len(lines))
	}
	if lines[0] != "M190 S80\n" {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[1] != "M109 S210\n" {
		t.Errorf("hotend line = %q, want the default 210 °C", lines[1])
	}
	if lines[7] != "G0 X90 Y90 Z0.17 F3000\n" {
		t.Errorf("first layer travel = %q", lines[7])
	}
	if lines[8] != "G1 X90 Y130 Z0.17 E0.96 F300\n" {
		t.Errorf("first extruding move = %q", lines[8])
	}
	for i, l := range lines[7:] {
		if l == "G92 E0\n" {
			t.Errorf("line %d resets the extruder, the default layer is travel then moves", i+7)
			break
		}
	}
	if lines[len(lines)-1] != "M140 S0\n" {
		t.Errorf("last line = %q", lines[len(lines)-1])
	}
}

func TestWriteFile_BroadcastsProgress(t *testing.T) {
	cfg := loadTestConfig(t, "print:\n  height_mm: 0.6\n")
	cfg.Output.Path = filepath.Join(t.TempDir(), "box.gcode")

	b := web.NewStatusBroadcaster()
	ch, unsub := b.Subscribe()
	defer unsub()

	if err := writeFile(context.Background(), cfg, b); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
	// three layers plus the final done event, all buffered
	if n := len(ch); n != 4 {
		t.Errorf("got %d events, want 4", n)
	}
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	cfg := loadTestConfig(t, "{}\n")
	cfg.Output.Path = filepath.Join(t.TempDir(), "missing", "box.gcode")
	if err := writeFile(context.Background(), cfg, nil); err == nil {
		t.Error("expected error for missing output directory")
	}
}

func TestGenerate_Preview(t *testing.T) {
	cfg := loadTestConfig(t, "print:\n  height_mm: 0.4\n")
	mem := &sink.Memory{}
	if err := generate(context.Background(), cfg, mem, nil); err != nil {
		t.Fatalf("generate: %v", err)
	}
	// 7 preamble + 2 layers of (travel + 8 moves) + 3 postamble
	if n := len(mem.Lines()); n != 28 {
		t.Errorf("got %d lines, want 28", n)
	}
}
