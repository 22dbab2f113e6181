// Package analysis renders debug images of an attack plan: the boundary,
// the features, and the chosen deploy points.
package analysis

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/nstehr/vimy/vimy-raid/geometry"
	"github.com/nstehr/vimy/vimy-raid/model"
)

var (
	Red        = color.RGBA{R: 0xc0, A: 0xff}
	DarkOrange = color.RGBA{R: 0xff, G: 0x8c, A: 0xff}
	White      = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	background = color.RGBA{R: 0x20, G: 0x28, B: 0x20, A: 0xff}
)

const margin = 16

var (
	buffers sync.Pool
	live    atomic.Int64
)

// Live is the number of frames acquired and not yet released.
func Live() int64 { return live.Load() }

// Frame is a pooled RGBA canvas mapped onto a region of map space.
// A Frame must be released exactly once; Release is idempotent.
type Frame struct {
	img    *image.RGBA
	bounds geometry.Bounds
	scale  float64
	z      *vector.Rasterizer
	once   sync.Once
}

// NewFrame acquires a canvas covering b at scale pixels per map unit.
func NewFrame(b geometry.Bounds, scale float64) *Frame {
	if scale <= 0 {
		scale = 8
	}
	w := int(math.Ceil((b.MaxX-b.MinX)*scale)) + 2*margin
	h := int(math.Ceil((b.MaxY-b.MinY)*scale)) + 2*margin
	rect := image.Rect(0, 0, w, h)

	var pix []uint8
	if v, ok := buffers.Get().(*[]uint8); ok && cap(*v) >= 4*w*h {
		pix = (*v)[:4*w*h]
	} else {
		pix = make([]uint8, 4*w*h)
	}
	img := &image.RGBA{Pix: pix, Stride: 4 * w, Rect: rect}
	draw.Draw(img, rect, image.NewUniform(background), image.Point{}, draw.Src)

	live.Add(1)
	return &Frame{img: img, bounds: b, scale: scale, z: vector.NewRasterizer(w, h)}
}

// Image exposes the canvas. It is invalid after Release.
func (f *Frame) Image() *image.RGBA { return f.img }

// Release returns the canvas to the pool.
func (f *Frame) Release() {
	f.once.Do(func() {
		pix := f.img.Pix
		buffers.Put(&pix)
		f.img = nil
		live.Add(-1)
	})
}

// toPixel maps a map point onto the canvas, y axis up.
func (f *Frame) toPixel(p model.Point) (float32, float32) {
	x := (p.X-f.bounds.MinX)*f.scale + margin
	y := (f.bounds.MaxY-p.Y)*f.scale + margin
	return float32(x), float32(y)
}

func (f *Frame) fill(c color.Color) {
	f.z.Draw(f.img, f.img.Bounds(), image.NewUniform(c), image.Point{})
	f.z.Reset(f.img.Rect.Dx(), f.img.Rect.Dy())
}

// Points marks each point with a filled square of side size pixels.
func (f *Frame) Points(pts []model.Point, size float32, c color.Color) {
	if f.img == nil || len(pts) == 0 {
		return
	}
	h := size / 2
	for _, p := range pts {
		x, y := f.toPixel(p)
		f.z.MoveTo(x-h, y-h)
		f.z.LineTo(x+h, y-h)
		f.z.LineTo(x+h, y+h)
		f.z.LineTo(x-h, y+h)
		f.z.ClosePath()
	}
	f.fill(c)
}

// Rect outlines a map-space rectangle.
func (f *Frame) Rect(r model.Rect, c color.Color) {
	if f.img == nil {
		return
	}
	x0, y0 := f.toPixel(model.Pt(r.X, r.Y+r.H))
	x1, y1 := f.toPixel(model.Pt(r.X+r.W, r.Y))
	const t = 1.5
	// outer ring clockwise, inner ring counter-clockwise
	f.z.MoveTo(x0, y0)
	f.z.LineTo(x1, y0)
	f.z.LineTo(x1, y1)
	f.z.LineTo(x0, y1)
	f.z.ClosePath()
	f.z.MoveTo(x0+t, y0+t)
	f.z.LineTo(x0+t, y1-t)
	f.z.LineTo(x1-t, y1-t)
	f.z.LineTo(x1-t, y0+t)
	f.z.ClosePath()
	f.fill(c)
}

// Line draws a thin segment between two map points.
func (f *Frame) Line(a, b model.Point, c color.Color) {
	if f.img == nil {
		return
	}
	ax, ay := f.toPixel(a)
	bx, by := f.toPixel(b)
	dx, dy := bx-ax, by-ay
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*0.75, dx/l*0.75
	f.z.MoveTo(ax+nx, ay+ny)
	f.z.LineTo(bx+nx, by+ny)
	f.z.LineTo(bx-nx, by-ny)
	f.z.LineTo(ax-nx, ay-ny)
	f.z.ClosePath()
	f.fill(c)
}

// Label writes text at the top-left corner.
func (f *Frame) Label(s string) {
	if f.img == nil {
		return
	}
	d := font.Drawer{
		Dst:  f.img,
		Src:  image.NewUniform(White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(4, 13),
	}
	d.DrawString(s)
}

// Save writes the frame as a timestamped PNG in dir and returns its path.
func (f *Frame) Save(dir, name string) (string, error) {
	if f.img == nil {
		return "", fmt.Errorf("save %s: frame released", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	d := time.Now().UTC()
	path := filepath.Join(dir, fmt.Sprintf("%s %s.png", name, d.Format("2006-01-02 15-04-05.000")))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	if err := png.Encode(out, f.img); err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	return path, nil
}
