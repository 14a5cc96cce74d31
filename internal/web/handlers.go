package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/cjeanneret/GcodeGo/internal/debug"
	"github.com/cjeanneret/GcodeGo/internal/sink"
)

// Upper bounds for overridable values, in mm.
const (
	MaxBoxLengthMm     = 300.0
	MaxWallThicknessMm = 20.0
	MaxLayerHeightMm   = 2.0
)

const (
	maxBodyBytes   = 1 << 20
	minRunInterval = 5 * time.Second
)

// Overrides holds print parameters that can override config defaults.
// Zero means "use the config value" on the CLI; the HTTP API requires all three.
type Overrides struct {
	BoxLengthMm     float64 `json:"box_length_mm"`
	WallThicknessMm float64 `json:"wall_thickness_mm"`
	LayerHeightMm   float64 `json:"layer_height_mm"`
}

// CheckRange rejects v unless it is finite and in (0, max].
func CheckRange(name string, v, max float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v > max {
		return fmt.Errorf("%s must be > 0 and <= %g, got %g", name, max, v)
	}
	return nil
}

// ValidateOverrides checks that every override is set and within range.
func ValidateOverrides(o Overrides) error {
	if err := CheckRange("box_length_mm", o.BoxLengthMm, MaxBoxLengthMm); err != nil {
		return err
	}
	if err := CheckRange("wall_thickness_mm", o.WallThicknessMm, MaxWallThicknessMm); err != nil {
		return err
	}
	if err := CheckRange("layer_height_mm", o.LayerHeightMm, MaxLayerHeightMm); err != nil {
		return err
	}
	if o.WallThicknessMm*2 > o.BoxLengthMm {
		return fmt.Errorf("wall_thickness_mm %g is more than half of box_length_mm %g", o.WallThicknessMm, o.BoxLengthMm)
	}
	return nil
}

// RunFunc generates a job with the given overrides to the configured output file.
// It is called from the POST /run handler in a goroutine.
type RunFunc func(ctx context.Context, overrides Overrides) error

// PreviewFunc generates a job with the given overrides into out.
type PreviewFunc func(ctx context.Context, overrides Overrides, out sink.Sink) error

// FormConfig holds default values for the job form (from config).
type FormConfig struct {
	BoxLengthMm     float64 `json:"box_length_mm"`
	WallThicknessMm float64 `json:"wall_thickness_mm"`
	LayerHeightMm   float64 `json:"layer_height_mm"`
	NozzleWidthMm   float64 `json:"nozzle_width_mm"`
	OutputPath      string  `json:"output_path"`
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Broadcaster  *StatusBroadcaster
	Run          RunFunc
	Preview      PreviewFunc
	FormDefaults FormConfig
	runningMu    sync.Mutex
	running      bool
	lastRun      time.Time
	staticFS     fs.FS
}

// NewHandlers creates handlers with the given dependencies.
// If run or preview is nil, the matching POST route returns 503 Service Unavailable.
func NewHandlers(broadcaster *StatusBroadcaster, run RunFunc, preview PreviewFunc, formDefaults FormConfig, staticFS fs.FS) *Handlers {
	return &Handlers{
		Broadcaster:  broadcaster,
		Run:          run,
		Preview:      preview,
		FormDefaults: formDefaults,
		staticFS:     staticFS,
	}
}

// HandleConfig returns the form default values (from config) as JSON.
func (h *Handlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.FormDefaults)
}

// ServeIndex serves the main HTML page (root path only).
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.staticFS, "index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// decodeOverrides reads and validates the JSON body. On failure it has
// already written the error response.
func decodeOverrides(w http.ResponseWriter, r *http.Request) (Overrides, bool) {
	var overrides Overrides
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&overrides); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return overrides, false
	}
	if err := ValidateOverrides(overrides); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return overrides, false
	}
	return overrides, true
}

// HandleRun handles POST /run to write a job to the output file.
func (h *Handlers) HandleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	overrides, ok := decodeOverrides(w, r)
	if !ok {
		return
	}

	if h.Run == nil {
		http.Error(w, "generation not configured", http.StatusServiceUnavailable)
		return
	}

	h.runningMu.Lock()
	if h.running {
		h.runningMu.Unlock()
		http.Error(w, "generation already in progress", http.StatusConflict)
		return
	}
	if !h.lastRun.IsZero() && time.Since(h.lastRun) < minRunInterval {
		h.runningMu.Unlock()
		http.Error(w, "too many requests, retry later", http.StatusTooManyRequests)
		return
	}
	h.running = true
	h.lastRun = time.Now()
	h.runningMu.Unlock()

	// Run in goroutine; clear running when done
	go func() {
		defer func() {
			h.runningMu.Lock()
			h.running = false
			h.runningMu.Unlock()
		}()

		if err := h.Run(context.Background(), overrides); err != nil {
			h.Broadcaster.Broadcast("error", "Generation failed: "+err.Error())
			debug.Error(fmt.Errorf("generation failed: %w", err))
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "started"})
}

// HandlePreview handles POST /preview and answers with the G-code itself.
// Previews never touch the output file and are not serialized with runs.
func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	overrides, ok := decodeOverrides(w, r)
	if !ok {
		return
	}

	if h.Preview == nil {
		http.Error(w, "preview not configured", http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	out := sink.NewWriter(&buf)
	err := h.Preview(r.Context(), overrides, out)
	if err == nil {
		err = out.Flush()
	}
	if err != nil {
		debug.Error(fmt.Errorf("preview failed: %w", err))
		http.Error(w, "preview failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(buf.Bytes())
}

// HandleStatusStream handles GET /status/stream for SSE.
func (h *Handlers) HandleStatusStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	// Heartbeat while idle
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
