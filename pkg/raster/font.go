package raster

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"boxkit/pkg/css"
	"boxkit/pkg/host"
)

// BuiltinFont is the family always available without a font file.
const BuiltinFont = "small"

// FontSpec locates a TrueType font and its size in points.
type FontSpec struct {
	Path string
	Size float64
}

// FontConfig maps family names to font files.
type FontConfig struct {
	// Default is the family served for an empty family name.
	Default string
	// LineSpacing multiplies each face's natural line height.
	LineSpacing float64
	Families    map[string]FontSpec
}

// Font is a host.Font drawing onto a canvas.
type Font struct {
	face    font.Face
	canvas  *Canvas
	ascent  float64
	height  float64
	spacing float64
}

func newFont(face font.Face, canvas *Canvas, spacing float64) *Font {
	if spacing <= 0 {
		spacing = 1
	}
	m := face.Metrics()
	return &Font{
		face:    face,
		canvas:  canvas,
		ascent:  float64(m.Ascent) / 64,
		height:  float64(m.Height) / 64,
		spacing: spacing,
	}
}

func (f *Font) MeasureLine(text string) (float64, float64) {
	return float64(font.MeasureString(f.face, text)) / 64, f.height
}

func (f *Font) LineHeight() float64 {
	return f.height * f.spacing
}

// DrawLine draws text with its top-left corner at (x, y).
func (f *Font) DrawLine(text string, x, y float64, tint css.RGBA) {
	if f.canvas == nil || tint.IsTransparent() {
		return
	}
	dc := f.canvas.dc
	dc.SetFontFace(f.face)
	dc.SetColor(tint)
	dc.DrawString(text, x, y+f.ascent)
}

// FontPool resolves family names to fonts, loading each face once.
type FontPool struct {
	canvas *Canvas
	cfg    FontConfig
	logger *zap.Logger

	mu     sync.Mutex
	loaded map[string]*Font
}

func NewFontPool(canvas *Canvas, cfg FontConfig, logger *zap.Logger) *FontPool {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Default == "" {
		cfg.Default = BuiltinFont
	}
	families := make(map[string]FontSpec, len(cfg.Families))
	for name, spec := range cfg.Families {
		families[strings.ToLower(name)] = spec
	}
	cfg.Families = families
	return &FontPool{
		canvas: canvas,
		cfg:    cfg,
		logger: logger.Named("fonts"),
		loaded: make(map[string]*Font),
	}
}

// Font implements host.FontProvider. Unknown families and unreadable font
// files wrap host.ErrMissingResource.
func (p *FontPool) Font(family string) (host.Font, error) {
	family = strings.ToLower(strings.TrimSpace(family))
	if family == "" {
		family = p.cfg.Default
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if f, ok := p.loaded[family]; ok {
		return f, nil
	}

	face, err := p.face(family)
	if err != nil {
		return nil, err
	}
	f := newFont(face, p.canvas, p.cfg.LineSpacing)
	p.loaded[family] = f
	p.logger.Debug("Loaded font", zap.String("family", family), zap.Float64("line_height", f.LineHeight()))
	return f, nil
}

func (p *FontPool) face(family string) (font.Face, error) {
	spec, ok := p.cfg.Families[family]
	if ok && spec.Path != "" {
		size := spec.Size
		if size <= 0 {
			size = 13
		}
		face, err := gg.LoadFontFace(spec.Path, size)
		if err != nil {
			return nil, fmt.Errorf("%w: font %q: %v", host.ErrMissingResource, family, err)
		}
		return face, nil
	}
	if ok || family == BuiltinFont {
		return basicfont.Face7x13, nil
	}
	return nil, fmt.Errorf("%w: font %q", host.ErrMissingResource, family)
}
