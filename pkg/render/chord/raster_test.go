package chord

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chordial/chordial/pkg/errors"
)

func TestNewAcceleratedRejectsContext(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		quality float64
	}{
		{"zero size", 0, 0, 1},
		{"negative width", -100, 400, 1},
		{"supersampled over budget", 3000, 3000, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAccelerated(tt.w, tt.h, tt.quality)
			if err == nil {
				t.Fatal("expected context acquisition failure")
			}
			if code := errors.GetCode(err); code != errors.ErrCodeRenderContext {
				t.Errorf("code = %v, want %v", code, errors.ErrCodeRenderContext)
			}
		})
	}

	if _, err := NewAccelerated(900, 900, 1); err != nil {
		t.Errorf("900x900 should acquire a context, got %v", err)
	}
}

func TestSuperSample(t *testing.T) {
	tests := []struct {
		quality float64
		want    int
	}{
		{0, 1}, {0.4, 1}, {1, 1}, {2, 2}, {2.4, 2}, {3.6, 4}, {9, 4},
	}
	for _, tt := range tests {
		if got := superSample(tt.quality); got != tt.want {
			t.Errorf("superSample(%v) = %d, want %d", tt.quality, got, tt.want)
		}
	}
}

func TestFits(t *testing.T) {
	a, err := NewAccelerated(800, 600, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Fits(800, 600, 2) {
		t.Error("context should fit its own parameters")
	}
	if a.Fits(800, 600, 3) {
		t.Error("quality change should require a rebuild")
	}
	if a.Fits(400, 600, 2) {
		t.Error("size change should require a rebuild")
	}
}

func TestWrapUnit(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0}, {0.25, 0.25}, {1, 0}, {1.75, 0.75}, {-0.25, 0.75}, {2.5, 0.5},
	}
	for _, tt := range tests {
		if got := wrapUnit(tt.in); got != tt.want {
			t.Errorf("wrapUnit(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAcceleratedRenderWithoutScene(t *testing.T) {
	a, err := NewAccelerated(300, 300, 1)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := a.Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.Len() != 0 {
		t.Error("rendering before the first frame should write nothing")
	}
}

// particleScene builds a redrawn scene with particles on, for feeding the
// raster backend directly.
func particleScene(t *testing.T) *Scene {
	t.Helper()
	d := New(threeCategories())
	cfg := d.Config()
	cfg.ParticleMode = true
	cfg.Width = 300
	cfg.Height = 300
	d.Update(cfg)
	scene, err := d.Redraw()
	if err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	return scene
}

func TestAcceleratedTransformIdempotent(t *testing.T) {
	scene := particleScene(t)
	a, err := NewAccelerated(300, 300, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if err := a.Prepare(scene); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	frame := func() string {
		var buf bytes.Buffer
		if err := a.Render(&buf); err != nil {
			t.Fatalf("Render: %v", err)
		}
		return buf.String()
	}

	base := frame()
	if !strings.Contains(base, "data:image/png;base64,") {
		t.Fatal("frame should embed a png data uri")
	}

	a.SetTransform(Identity())
	if frame() != base {
		t.Error("re-pushing the current transform must not change the frame")
	}

	a.SetTransform(Transform{TranslateX: 120, TranslateY: 0, Scale: 1.5})
	moved := frame()
	if moved == base {
		t.Error("a new transform should re-render the frame")
	}

	a.SetTransform(Transform{TranslateX: 120, TranslateY: 0, Scale: 1.5})
	if frame() != moved {
		t.Error("repeated identical push must leave the frame untouched")
	}
}

func TestAcceleratedLifecycle(t *testing.T) {
	scene := particleScene(t)
	a, err := NewAccelerated(300, 300, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Prepare(scene); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	a.Start()
	a.Start() // second start is a no-op
	a.Stop()
	a.Stop() // second stop must not block or panic
	a.Start()
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var buf bytes.Buffer
	if err := a.Render(&buf); err != nil {
		t.Fatalf("Render after close: %v", err)
	}
	if buf.Len() != 0 {
		t.Error("closed backend should hold no frame")
	}
}

func TestAcceleratedSupersampledFrame(t *testing.T) {
	scene := particleScene(t)
	a, err := NewAccelerated(300, 300, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if err := a.Prepare(scene); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	var buf bytes.Buffer
	if err := a.Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `width="300"`) || !strings.Contains(out, `height="300"`) {
		t.Error("image layer should report logical dimensions, not supersampled ones")
	}
}
