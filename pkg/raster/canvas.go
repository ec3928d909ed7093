// Package raster is a software host for element trees built on gg. It draws
// into an in-memory image, loads fonts and textures from disk and can save
// frames as PNG.
package raster

import (
	"image"
	"image/draw"

	"github.com/fogleman/gg"

	"boxkit/pkg/css"
	"boxkit/pkg/host"
)

// Canvas is a host.Backend and host.Viewport drawing into a gg context.
type Canvas struct {
	dc *gg.Context
}

func NewCanvas(width, height int) *Canvas {
	return &Canvas{dc: gg.NewContext(width, height)}
}

// ScreenSize reports the canvas size.
func (c *Canvas) ScreenSize() (float64, float64) {
	return float64(c.dc.Width()), float64(c.dc.Height())
}

// Resize replaces the drawing surface. The content is discarded.
func (c *Canvas) Resize(width, height int) {
	if width == c.dc.Width() && height == c.dc.Height() {
		return
	}
	c.dc = gg.NewContext(width, height)
}

// Clear fills the whole canvas with col.
func (c *Canvas) Clear(col css.RGBA) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

// Image returns the drawing surface.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

func (c *Canvas) SavePNG(filename string) error {
	return c.dc.SavePNG(filename)
}

func (c *Canvas) FillRect(x, y, w, h float64, col css.RGBA) {
	if w <= 0 || h <= 0 || col.IsTransparent() {
		return
	}
	c.dc.SetColor(col)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Fill()
}

func (c *Canvas) DrawLine(x1, y1, x2, y2, thickness float64, col css.RGBA) {
	if col.IsTransparent() {
		return
	}
	c.dc.SetColor(col)
	c.dc.SetLineWidth(thickness)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
}

// DrawTexture fills the rectangle with t according to mode. Textures that
// were not loaded by this package are ignored.
func (c *Canvas) DrawTexture(t host.Texture, x, y, w, h float64, mode host.RepeatMode, tint css.RGBA) {
	tex, ok := t.(*Texture)
	if !ok || tex == nil || w <= 0 || h <= 0 || tint.IsTransparent() {
		return
	}
	img := tex.img
	if tint != css.White {
		img = tinted(img, tint)
	}
	iw, ih := tex.Size()
	if iw == 0 || ih == 0 {
		return
	}

	c.dc.Push()
	defer c.dc.Pop()
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Clip()

	switch mode {
	case host.RepeatNone:
		c.drawScaled(img, x, y, w/iw, h/ih)

	case host.RepeatX:
		sy := h / ih
		for tx := x; tx < x+w; tx += iw {
			c.drawScaled(img, tx, y, 1, sy)
		}

	case host.RepeatY:
		sx := w / iw
		for ty := y; ty < y+h; ty += ih {
			c.drawScaled(img, x, ty, sx, 1)
		}

	default:
		for ty := y; ty < y+h; ty += ih {
			for tx := x; tx < x+w; tx += iw {
				c.drawScaled(img, tx, ty, 1, 1)
			}
		}
	}
}

func (c *Canvas) drawScaled(img image.Image, x, y, sx, sy float64) {
	c.dc.Push()
	c.dc.Translate(x, y)
	c.dc.Scale(sx, sy)
	c.dc.DrawImage(img, 0, 0)
	c.dc.Pop()
}

// tinted multiplies every pixel of img by tint. Pixels are premultiplied so
// the color channels also take the tint's alpha.
func tinted(img image.Image, tint css.RGBA) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)
	mul := [4]float64{tint.R * tint.A, tint.G * tint.A, tint.B * tint.A, tint.A}
	for i := 0; i < len(out.Pix); i++ {
		out.Pix[i] = uint8(float64(out.Pix[i]) * mul[i%4])
	}
	return out
}
