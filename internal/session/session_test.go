package session

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"boxkit/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.Defaults(v)
	v.Set("viewport.width", 64)
	v.Set("viewport.height", 48)
	cfg, err := config.New(v)
	require.NoError(t, err)
	return cfg
}

func writePNG(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func rgb(img image.Image, x, y int) [3]uint32 {
	r, g, b, _ := img.At(x, y).RGBA()
	return [3]uint32{r >> 8, g >> 8, b >> 8}
}

const page = `<div id="box" style="width: 20px; height: 10px; background-color: red"></div>
<img src="dot.png" width="4" height="4">
<script>document.getElementById("box").setStyle("width: 30px; height: 10px; background-color: red");</script>`

func TestSession_LoadFileAndRender(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "dot.png"), color.RGBA{B: 255, A: 255})
	htmlPath := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte(page), 0o644))

	s, err := New(testConfig(t), Options{}, nil)
	require.NoError(t, err)
	_, err = s.LoadFile(htmlPath)
	require.NoError(t, err)
	s.Frames(1)

	img := s.Host.Canvas.Image()
	assert.Equal(t, [3]uint32{255, 0, 0}, rgb(img, 5, 5))
	assert.Equal(t, [3]uint32{255, 0, 0}, rgb(img, 25, 5), "the script widened the box")
	assert.Equal(t, [3]uint32{255, 255, 255}, rgb(img, 40, 5), "cleared to white")
	assert.Equal(t, [3]uint32{0, 0, 255}, rgb(img, 1, 11), "texture resolved next to the document")
	assert.Equal(t, 1, s.Host.Textures.Len())

	out := filepath.Join(dir, "out.png")
	require.NoError(t, s.SavePNG(out))
	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestSession_NoScripts(t *testing.T) {
	s, err := New(testConfig(t), Options{NoScripts: true}, nil)
	require.NoError(t, err)
	_, err = s.LoadString(page)
	require.NoError(t, err)
	s.Frames(1)

	assert.Equal(t, 20.0, s.Window.GetElementByID("box").Cache().Width)
}

func TestSession_Errors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Render.ClearColor = "not-a-color"
	_, err := New(cfg, Options{}, nil)
	assert.ErrorContains(t, err, "render.clear_color")

	s, err := New(testConfig(t), Options{}, nil)
	require.NoError(t, err)
	_, err = s.LoadFile(filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}

func TestSession_ScriptFailureLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s, err := New(testConfig(t), Options{}, zap.New(core))
	require.NoError(t, err)

	_, err = s.LoadString(`<script>throw new Error("boom")</script>`)
	require.NoError(t, err)

	created := logs.FilterMessage("Window created").All()
	require.Len(t, created, 1)
	assert.Equal(t, "session", created[0].LoggerName)
	fields := created[0].ContextMap()
	assert.Equal(t, s.Window.ID.String(), fields["window"])
	assert.Equal(t, "64x48", fields["viewport"])

	failed := logs.FilterMessage("Script failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, s.Window.ID.String(), failed[0].ContextMap()["window"])
}

func TestFontConfig(t *testing.T) {
	fc := FontConfig(config.FontsConfig{
		Default:     "serif",
		LineSpacing: 1.25,
		Families:    map[string]config.FontConfig{"serif": {Path: "a.ttf", Size: 12}},
	})
	assert.Equal(t, "serif", fc.Default)
	assert.Equal(t, 1.25, fc.LineSpacing)
	assert.Equal(t, "a.ttf", fc.Families["serif"].Path)
	assert.Equal(t, 12.0, fc.Families["serif"].Size)
}
