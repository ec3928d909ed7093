// Package session assembles a raster host, a window and a script engine from
// the application configuration. Both commands drive documents through it.
package session

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"boxkit/internal/config"
	"boxkit/internal/observability"
	"boxkit/pkg/css"
	"boxkit/pkg/markup"
	"boxkit/pkg/raster"
	"boxkit/pkg/render"
	"boxkit/pkg/script"
	"boxkit/pkg/window"
)

// Options tweak a session beyond what the configuration says.
type Options struct {
	// TextureRoot overrides fonts.texture_root.
	TextureRoot string
	// NoScripts skips running document scripts.
	NoScripts bool
}

type Session struct {
	Host   *raster.Host
	Window *window.Window
	Script *script.Engine

	opts   Options
	logger *zap.Logger
}

func New(cfg *config.Config, opts Options, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	clearColor, ok := css.ParseColor(cfg.Render.ClearColor)
	if !ok {
		return nil, fmt.Errorf("render.clear_color: invalid color %q", cfg.Render.ClearColor)
	}
	root := opts.TextureRoot
	if root == "" {
		root = cfg.Fonts.TextureRoot
	}

	h := raster.NewHost(cfg.Viewport.Width, cfg.Viewport.Height, FontConfig(cfg.Fonts), root, logger)
	w := window.New(window.Options{
		Host:   h.Collaborators(),
		Render: render.Options{Debug: cfg.Render.Debug, ClearColor: clearColor},
		Logger: logger,
	})
	sessionLogger := logger.Named("session").With(observability.WindowFields(w.ID, cfg.Viewport.Width, cfg.Viewport.Height)...)
	sessionLogger.Debug("Window created")
	return &Session{
		Host:   h,
		Window: w,
		Script: script.New(w, logger),
		opts:   opts,
		logger: sessionLogger,
	}, nil
}

// FontConfig converts the font settings for the raster host.
func FontConfig(c config.FontsConfig) raster.FontConfig {
	fc := raster.FontConfig{
		Default:     c.Default,
		LineSpacing: c.LineSpacing,
		Families:    make(map[string]raster.FontSpec, len(c.Families)),
	}
	for name, f := range c.Families {
		fc.Families[name] = raster.FontSpec{Path: f.Path, Size: f.Size}
	}
	return fc
}

// LoadFile loads an HTML file into the window and runs its scripts.
// Relative texture references resolve against the file's directory unless
// a texture root was configured.
func (s *Session) LoadFile(path string) (*markup.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	if s.opts.TextureRoot == "" && s.Host.Textures.Root() == "" {
		s.Host.Textures.SetRoot(filepath.Dir(path))
	}
	return s.load(s.Window.LoadHTML(f))
}

// LoadString loads HTML text into the window and runs its scripts.
func (s *Session) LoadString(text string) (*markup.Document, error) {
	return s.load(s.Window.LoadHTMLString(text))
}

// load runs the scripts of a freshly loaded document. Stylesheet and
// script failures are logged; the document is still usable.
func (s *Session) load(doc *markup.Document, err error) (*markup.Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if s.opts.NoScripts || len(doc.Scripts) == 0 {
		return doc, nil
	}
	if err := s.Script.Run(doc); err != nil {
		s.logger.Warn("Script failed", zap.Error(err))
	}
	return doc, nil
}

// Frames renders n frames.
func (s *Session) Frames(n int) {
	for i := 0; i < n; i++ {
		s.Window.Frame()
	}
}

// SavePNG writes the canvas to a PNG file.
func (s *Session) SavePNG(path string) error {
	if err := s.Host.Canvas.SavePNG(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
