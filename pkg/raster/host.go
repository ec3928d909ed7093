package raster

import (
	"go.uber.org/zap"

	"boxkit/pkg/host"
)

// Host bundles a canvas with the font pool and texture cache drawing on it.
type Host struct {
	Canvas   *Canvas
	Fonts    *FontPool
	Textures *TextureCache
}

// NewHost creates a width by height canvas. Relative texture references
// resolve against textureRoot.
func NewHost(width, height int, fonts FontConfig, textureRoot string, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("raster")
	canvas := NewCanvas(width, height)
	return &Host{
		Canvas:   canvas,
		Fonts:    NewFontPool(canvas, fonts, logger),
		Textures: NewTextureCache(textureRoot, logger),
	}
}

// Collaborators returns the host.Host backed by h.
func (h *Host) Collaborators() host.Host {
	return host.Host{
		Viewport: h.Canvas,
		Fonts:    h.Fonts,
		Textures: h.Textures,
		Backend:  h.Canvas,
	}
}
