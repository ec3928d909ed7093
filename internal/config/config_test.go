package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	v := viper.New()
	Defaults(v)

	cfg, err := New(v)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "green", cfg.Logger.Colors.Info)
	assert.Equal(t, ViewportConfig{Width: 800, Height: 600}, cfg.Viewport)
	assert.Equal(t, "small", cfg.Fonts.Default)
	assert.Equal(t, 1.0, cfg.Fonts.LineSpacing)
	assert.Equal(t, "white", cfg.Render.ClearColor)
	assert.Equal(t, 16*time.Millisecond, cfg.Viewer.TickRate)
}

func TestNew_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boxkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
viewport:
  width: 320
fonts:
  line_spacing: 1.5
  families:
    serif:
      path: /fonts/serif.ttf
      size: 14
render:
  debug: true
viewer:
  tick_rate: 40ms
`), 0o644))
	t.Setenv("BOXKIT_VIEWPORT_HEIGHT", "240")

	v := viper.New()
	Defaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("BOXKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	require.NoError(t, v.ReadInConfig())

	cfg, err := New(v)
	require.NoError(t, err)
	assert.Equal(t, ViewportConfig{Width: 320, Height: 240}, cfg.Viewport)
	assert.Equal(t, 1.5, cfg.Fonts.LineSpacing)
	assert.Equal(t, FontConfig{Path: "/fonts/serif.ttf", Size: 14}, cfg.Fonts.Families["serif"])
	assert.True(t, cfg.Render.Debug)
	assert.Equal(t, 40*time.Millisecond, cfg.Viewer.TickRate)
}

func TestValidate(t *testing.T) {
	valid := Config{Viewport: ViewportConfig{Width: 1, Height: 1}}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.Viewport.Height = 0
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Fonts.Families = map[string]FontConfig{"serif": {Path: "x.ttf"}}
	assert.ErrorContains(t, bad.Validate(), `font "serif"`)

	bad = valid
	bad.Fonts.LineSpacing = -1
	assert.Error(t, bad.Validate())
}

func TestLoadAndGet(t *testing.T) {
	instance, once = nil, sync.Once{}
	t.Cleanup(func() { instance, once = nil, sync.Once{} })

	assert.Panics(t, func() { Get() })

	v := viper.New()
	Defaults(v)
	require.NoError(t, Load(v))
	assert.Equal(t, 800, Get().Viewport.Width)
}
