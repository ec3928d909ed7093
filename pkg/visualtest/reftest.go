package visualtest

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"boxkit/internal/config"
	"boxkit/internal/session"
)

// Render renders HTML text for frames frames and returns the canvas.
func Render(cfg *config.Config, html string, frames int, logger *zap.Logger) (image.Image, error) {
	s, err := session.New(cfg, session.Options{}, logger)
	if err != nil {
		return nil, err
	}
	if _, err := s.LoadString(html); err != nil {
		return nil, err
	}
	s.Frames(frames)
	return s.Host.Canvas.Image(), nil
}

// RenderFile renders an HTML file. Relative image references resolve
// against the file's directory.
func RenderFile(cfg *config.Config, path string, frames int, logger *zap.Logger) (image.Image, error) {
	s, err := session.New(cfg, session.Options{}, logger)
	if err != nil {
		return nil, err
	}
	if _, err := s.LoadFile(path); err != nil {
		return nil, err
	}
	s.Frames(frames)
	return s.Host.Canvas.Image(), nil
}

// Reftest renders a test document and its reference and compares them.
func Reftest(cfg *config.Config, test, ref string, opts Options) (*Result, error) {
	actual, err := Render(cfg, test, 1, nil)
	if err != nil {
		return nil, fmt.Errorf("test: %w", err)
	}
	expected, err := Render(cfg, ref, 1, nil)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	return Compare(actual, expected, opts)
}
