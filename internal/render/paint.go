package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/five82/flipbook/internal/asset"
	"github.com/five82/flipbook/internal/content"
	"github.com/five82/flipbook/internal/layout"
)

const (
	placeholderGray = 240.0 / 255.0
	labelScale      = 0.1
	minLabelSize    = 4.0
)

// Painter rasterizes scenes. It caches font faces and is not safe for
// concurrent use.
type Painter struct {
	Background color.Color

	source *text.FontSource
	faces  map[int]text.Face
}

// NewPainter loads the label font.
func NewPainter() (*Painter, error) {
	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load label font: %w", err)
	}
	return &Painter{Background: color.Black, source: source, faces: make(map[int]text.Face)}, nil
}

// Paint clears dc to the background and draws every layer of s in order.
func (p *Painter) Paint(dc *gg.Context, s Scene) error {
	bg := p.Background
	if bg == nil {
		bg = color.Black
	}
	dc.SetColor(bg)
	dc.DrawRectangle(0, 0, float64(dc.Width()), float64(dc.Height()))
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("paint background: %w", err)
	}

	for _, layer := range s.Layers {
		if err := p.layer(dc, layer); err != nil {
			return fmt.Errorf("paint %s layer: %w", layer.Role, err)
		}
	}
	return dc.FlushGPU()
}

func (p *Painter) layer(dc *gg.Context, layer Layer) error {
	r := layer.Rect
	switch layer.Role {
	case RoleTurnShadow, RoleSpineShadow, RoleLetterbox:
		dc.SetRGBA(0, 0, 0, layer.Alpha)
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		return dc.Fill()
	case RoleGutter:
		dc.SetRGB(layer.Gray, layer.Gray, layer.Gray)
		dc.SetLineWidth(1)
		dc.DrawLine(r.X, r.Y, r.X, r.Y+r.H)
		return dc.Stroke()
	}

	switch c := layer.Content.(type) {
	case content.Image:
		drawHandle(dc, c.Handle, nil, r)
	case content.Video:
		src := image.Rect(c.CropX, 0, c.CropX+c.CropWidth, c.Height)
		drawHandle(dc, c.Handle, &src, r)
	case content.Unavailable:
		return p.placeholder(dc, c, r)
	}
	return nil
}

func drawHandle(dc *gg.Context, h asset.Handle, src *image.Rectangle, r layout.Rect) {
	if h == nil || h.Image() == nil || r.W < 1 || r.H < 1 {
		return
	}
	dc.DrawImageEx(h.Image(), gg.DrawImageOptions{
		X:             r.X,
		Y:             r.Y,
		DstWidth:      r.W,
		DstHeight:     r.H,
		SrcRect:       src,
		Interpolation: gg.InterpBilinear,
		BlendMode:     gg.BlendNormal,
	})
}

// placeholder draws the light card shown for loading or missing content.
func (p *Painter) placeholder(dc *gg.Context, c content.Unavailable, r layout.Rect) error {
	dc.SetRGB(placeholderGray, placeholderGray, placeholderGray)
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	if err := dc.Fill(); err != nil {
		return err
	}

	size := r.W * labelScale
	if size < minLabelSize {
		return nil
	}
	dc.SetFont(p.face(size))
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(Label(c), r.X+r.W/2, r.Y+r.H/2, 0.5, 0.5)
	return nil
}

func (p *Painter) face(size float64) text.Face {
	key := int(math.Round(size))
	if f, ok := p.faces[key]; ok {
		return f
	}
	f := p.source.Face(float64(key))
	p.faces[key] = f
	return f
}

// Label is the placeholder text for unavailable content.
func Label(c content.Unavailable) string {
	if c.Status == asset.StatusLoading {
		return "Loading…"
	}
	return fmt.Sprintf("Missing: page %d", c.PageNumber)
}
