// Package host declares the collaborators an element tree needs from its
// embedding environment: screen size, fonts, textures and a draw backend.
package host

import (
	"errors"

	"boxkit/pkg/css"
)

// ErrMissingResource is returned by providers when a font or texture cannot
// be found. Layout and rendering treat it as "draw nothing".
var ErrMissingResource = errors.New("host: missing resource")

// Viewport reports the current screen size.
type Viewport interface {
	ScreenSize() (width, height float64)
}

// Font measures and draws single lines of text.
type Font interface {
	// MeasureLine returns the pixel size of one line of text.
	MeasureLine(text string) (width, height float64)
	// LineHeight is the advance between consecutive lines.
	LineHeight() float64
	// DrawLine draws text with its top-left corner at (x, y).
	DrawLine(text string, x, y float64, tint css.RGBA)
}

// FontProvider resolves font family names.
type FontProvider interface {
	Font(family string) (Font, error)
}

// Texture is a loaded image.
type Texture interface {
	Size() (width, height float64)
}

// TextureProvider loads images by reference. Providers are expected to
// cache by reference.
type TextureProvider interface {
	Texture(ref string) (Texture, error)
}

// RepeatMode selects how DrawTexture fills its destination rectangle.
type RepeatMode int

const (
	// RepeatNone scales the texture once to the rectangle.
	RepeatNone RepeatMode = iota
	// RepeatBoth tiles along both axes at natural size.
	RepeatBoth
	// RepeatX tiles horizontally; the texture is scaled to the height.
	RepeatX
	// RepeatY tiles vertically; the texture is scaled to the width.
	RepeatY
)

// ParseRepeatMode maps a background-repeat value to a RepeatMode.
// "no-repeat" and "round" draw once scaled; unknown values repeat.
func ParseRepeatMode(value string) RepeatMode {
	switch value {
	case "repeat-x":
		return RepeatX
	case "repeat-y":
		return RepeatY
	case "no-repeat", "round":
		return RepeatNone
	}
	return RepeatBoth
}

func (m RepeatMode) String() string {
	switch m {
	case RepeatBoth:
		return "repeat"
	case RepeatX:
		return "repeat-x"
	case RepeatY:
		return "repeat-y"
	}
	return "no-repeat"
}

// Backend draws primitives.
type Backend interface {
	FillRect(x, y, w, h float64, c css.RGBA)
	DrawTexture(t Texture, x, y, w, h float64, mode RepeatMode, tint css.RGBA)
	DrawLine(x1, y1, x2, y2, thickness float64, c css.RGBA)
}

// Host bundles every collaborator. Nil providers mean "nothing available".
type Host struct {
	Viewport Viewport
	Fonts    FontProvider
	Textures TextureProvider
	Backend  Backend
}

// StaticViewport is a fixed-size Viewport.
type StaticViewport struct {
	Width, Height float64
}

func (v StaticViewport) ScreenSize() (float64, float64) { return v.Width, v.Height }
