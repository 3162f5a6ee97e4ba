package chord

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/errors"
	"github.com/chordial/chordial/pkg/palette"
	"github.com/chordial/chordial/pkg/render/chord/decor"
)

const (
	// maxRasterDim bounds the supersampled context. Anything larger is
	// treated as a failed context acquisition.
	maxRasterDim = 8192

	// movementInterval is the frame cadence of the movement loop.
	movementInterval = 33 * time.Millisecond

	// movementStep is the path fraction one unit of movement amount
	// advances per frame: a full circuit in about 30s at amount 1.
	movementStep = 1.0 / 900
)

// Accelerated rasterizes decorations into a bitmap layer, supersampled
// by the quality factor and downscaled with Catmull-Rom resampling. It
// receives the full path set once per redraw and runs its own frame
// loop in movement mode, decoupled from scene redraws.
//
// The frame loop runs in its own goroutine, so internal state is behind
// a mutex; everything crossing the boundary is copied by value.
type Accelerated struct {
	mu        sync.Mutex
	width     int
	height    int
	super     int
	dc        *gg.Context
	scene     *Scene
	transform Transform
	phase     float64
	frame     string

	cancel context.CancelFunc
	done   chan struct{}
}

// NewAccelerated acquires the raster context. Impossible dimensions are
// an acquisition failure reported with ErrCodeRenderContext, telling the
// caller to fall back to the vector backend.
func NewAccelerated(width, height int, quality float64) (*Accelerated, error) {
	super := superSample(quality)
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeRenderContext,
			"raster context %dx%d unavailable", width, height)
	}
	if width*super > maxRasterDim || height*super > maxRasterDim {
		return nil, errors.New(errors.ErrCodeRenderContext,
			"raster context %dx%d at %dx supersampling exceeds %d px",
			width, height, super, maxRasterDim)
	}
	return &Accelerated{
		width:     width,
		height:    height,
		super:     super,
		dc:        gg.NewContext(width*super, height*super),
		transform: Identity(),
	}, nil
}

// Fits reports whether the context already matches the wanted viewport,
// so the diagram knows when a rebuild is due.
func (a *Accelerated) Fits(width, height int, quality float64) bool {
	return a.width == width && a.height == height && a.super == superSample(quality)
}

func superSample(quality float64) int {
	s := int(math.Round(quality))
	return min(max(s, 1), 4)
}

// Prepare takes the new scene and renders the first frame synchronously,
// so an exported scene never waits on the loop.
func (a *Accelerated) Prepare(s *Scene) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scene = s
	a.phase = 0
	return a.renderFrame()
}

// Render writes the current frame as an image layer.
func (a *Accelerated) Render(w io.Writer) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.frame == "" {
		return nil
	}
	_, err := fmt.Fprintf(w,
		"  <image x=\"0\" y=\"0\" width=\"%d\" height=\"%d\" preserveAspectRatio=\"none\" href=\"data:image/png;base64,%s\"/>\n",
		a.width, a.height, a.frame)
	return err
}

// SetTransform pushes the viewport transform ahead of the next frame.
// An identical push returns without re-rendering.
func (a *Accelerated) SetTransform(t Transform) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if t == a.transform {
		return
	}
	a.transform = t
	if a.scene != nil {
		_ = a.renderFrame()
	}
}

// Start launches the movement loop. Starting an already running loop is
// a no-op.
func (a *Accelerated) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.done = make(chan struct{})
	go a.loop(ctx, a.done)
}

func (a *Accelerated) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(movementInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.tick()
		}
	}
}

func (a *Accelerated) tick() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.scene == nil {
		return
	}
	a.phase = wrapUnit(a.phase + a.scene.Config.ParticleMovementAmount*movementStep)
	_ = a.renderFrame()
}

// Stop cancels the movement loop and waits for it to exit.
func (a *Accelerated) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (a *Accelerated) Close() error {
	a.Stop()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scene = nil
	a.frame = ""
	return nil
}

// renderFrame rasterizes one frame. Callers hold the mutex.
func (a *Accelerated) renderFrame() error {
	dc := a.dc
	dc.Identity()
	dc.SetRGBA(0, 0, 0, 0)
	dc.Clear()

	ss := float64(a.super)
	dc.Scale(ss, ss)
	dc.Translate(a.transform.TranslateX, a.transform.TranslateY)
	dc.Scale(a.transform.Scale, a.transform.Scale)

	for _, key := range a.scene.Decorations.Keys() {
		sampler := a.scene.Samplers[key]
		for _, p := range a.scene.Decorations.Particles(key) {
			pos := p.Pos
			if a.phase != 0 && sampler != nil {
				pos = sampler.At(wrapUnit(p.Along + a.phase))
			}
			c, err := palette.ParseHex(p.Color)
			if err != nil {
				continue
			}
			dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(255*p.Opacity))
			dc.DrawCircle(pos.X, pos.Y, p.Size)
			dc.Fill()
		}
		for _, sh := range a.scene.Decorations.Shapes(key) {
			drawShape(dc, sh)
		}
	}

	img := image.Image(dc.Image())
	if a.super > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, a.width, a.height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "encode raster frame")
	}
	a.frame = base64.StdEncoding.EncodeToString(buf.Bytes())
	return nil
}

func drawShape(dc *gg.Context, sh decor.Shape) {
	fill, err := palette.ParseHex(sh.Fill)
	if err != nil {
		return
	}
	x, y, s := sh.Pos.X, sh.Pos.Y, sh.Size

	switch sh.Type {
	case config.ShapeSquare:
		dc.DrawRectangle(x-s, y-s, 2*s, 2*s)
	case config.ShapeDiamond:
		dc.MoveTo(x, y-s)
		dc.LineTo(x+s, y)
		dc.LineTo(x, y+s)
		dc.LineTo(x-s, y)
		dc.ClosePath()
	default:
		dc.DrawCircle(x, y, s)
	}

	dc.SetRGBA255(int(fill.R), int(fill.G), int(fill.B), 255)
	if sh.StrokeWidth > 0 {
		if stroke, err := palette.ParseHex(sh.Stroke); err == nil {
			dc.FillPreserve()
			dc.SetRGBA255(int(stroke.R), int(stroke.G), int(stroke.B), 255)
			dc.SetLineWidth(sh.StrokeWidth)
			dc.Stroke()
			return
		}
	}
	dc.Fill()
}

func wrapUnit(f float64) float64 {
	return f - math.Floor(f)
}
