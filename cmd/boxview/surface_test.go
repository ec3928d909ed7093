package main

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxkit/internal/config"
	"boxkit/internal/session"
	"boxkit/pkg/event"
	"boxkit/pkg/window"
)

func newTestSurface(t *testing.T) (*surface, *session.Session) {
	t.Helper()
	test.NewApp()
	v := viper.New()
	config.Defaults(v)
	v.Set("viewport.width", 100)
	v.Set("viewport.height", 80)
	cfg, err := config.New(v)
	require.NoError(t, err)

	s, err := session.New(cfg, session.Options{}, nil)
	require.NoError(t, err)
	_, err = s.LoadString(`<div id="box" style="width: 40px; height: 40px"></div>`)
	require.NoError(t, err)
	s.Frames(1)
	return newSurface(s.Host.Canvas.Image(), s.Window), s
}

func mouseAt(x, y float32, b desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: b}
}

func TestSurface_MinSize(t *testing.T) {
	view, _ := newTestSurface(t)
	assert.Equal(t, fyne.NewSize(100, 80), view.MinSize())
}

func TestSurface_Click(t *testing.T) {
	view, s := newTestSurface(t)
	box := s.Window.GetElementByID("box")
	require.NotNil(t, box)

	var clicks int
	box.AddEventListener(event.Click, event.NewListener(func(*event.Event) { clicks++ }))

	view.MouseMoved(mouseAt(10, 10, 0))
	view.frame()
	assert.True(t, box.Hovered())

	view.MouseDown(mouseAt(10, 10, desktop.MouseButtonPrimary))
	assert.Equal(t, window.ButtonPrimary, s.Window.Mouse().Buttons())
	view.MouseUp(mouseAt(10, 10, desktop.MouseButtonPrimary))
	assert.Equal(t, 0, s.Window.Mouse().Buttons())
	assert.Equal(t, 1, clicks)
}

func TestButtonBit(t *testing.T) {
	assert.Equal(t, window.ButtonPrimary, buttonBit(desktop.MouseButtonPrimary))
	assert.Equal(t, window.ButtonSecondary, buttonBit(desktop.MouseButtonSecondary))
	assert.Equal(t, window.ButtonMiddle, buttonBit(desktop.MouseButtonTertiary))
}
