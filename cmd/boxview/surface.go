package main

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"boxkit/pkg/window"
)

// surface shows the rendered canvas and turns pointer events into window
// samples.
type surface struct {
	widget.BaseWidget

	image   *canvas.Image
	win     *window.Window
	buttons int
	size    fyne.Size
}

func newSurface(img image.Image, win *window.Window) *surface {
	s := &surface{image: canvas.NewImageFromImage(img), win: win}
	s.image.FillMode = canvas.ImageFillOriginal
	s.image.ScaleMode = canvas.ImageScalePixels
	b := img.Bounds()
	s.size = fyne.NewSize(float32(b.Dx()), float32(b.Dy()))
	s.ExtendBaseWidget(s)
	return s
}

func (s *surface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.image)
}

func (s *surface) MinSize() fyne.Size { return s.size }

// frame runs one frame and shows the result.
func (s *surface) frame() {
	s.win.Frame()
	s.image.Refresh()
}

func (s *surface) MouseIn(ev *desktop.MouseEvent)    { s.sample(ev.Position) }
func (s *surface) MouseMoved(ev *desktop.MouseEvent) { s.sample(ev.Position) }
func (s *surface) MouseOut()                         {}

// Button transitions are framed immediately; only the latest sample is
// kept between frames and a quick click would otherwise be lost.
func (s *surface) MouseDown(ev *desktop.MouseEvent) {
	s.buttons |= buttonBit(ev.Button)
	s.sample(ev.Position)
	s.frame()
}

func (s *surface) MouseUp(ev *desktop.MouseEvent) {
	s.buttons &^= buttonBit(ev.Button)
	s.sample(ev.Position)
	s.frame()
}

func (s *surface) sample(pos fyne.Position) {
	scale := float32(1)
	if c := fyne.CurrentApp().Driver().CanvasForObject(s); c != nil {
		scale = c.Scale()
	}
	s.win.Input(window.Sample{
		X:       float64(pos.X * scale),
		Y:       float64(pos.Y * scale),
		Buttons: s.buttons,
	})
}

func buttonBit(b desktop.MouseButton) int {
	switch b {
	case desktop.MouseButtonSecondary:
		return window.ButtonSecondary
	case desktop.MouseButtonTertiary:
		return window.ButtonMiddle
	}
	return window.ButtonPrimary
}
