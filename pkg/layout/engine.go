// Package layout computes element geometry in two passes. Precalculate runs
// bottom-up and records each element's intrinsic content size and the flow
// offsets of its children. Calculate runs top-down and turns styles, flow
// offsets and parent geometry into concrete boxes, colors, fonts and
// textures in the element cache.
package layout

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"boxkit/pkg/css"
	"boxkit/pkg/dom"
	"boxkit/pkg/host"
)

// DefaultFont is the family used when an element's font cannot be loaded.
const DefaultFont = "small"

// LayoutEngine holds the host collaborators layout needs. It is not safe for
// concurrent use; one engine serves one window.
type LayoutEngine struct {
	host   host.Host
	logger *zap.Logger

	// warned remembers missing resources so each is logged once.
	warned map[string]struct{}
}

func NewLayoutEngine(h host.Host, logger *zap.Logger) *LayoutEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LayoutEngine{
		host:   h,
		logger: logger.Named("layout"),
		warned: make(map[string]struct{}),
	}
}

// Host returns the collaborators the engine was built with.
func (le *LayoutEngine) Host() host.Host { return le.host }

// ScreenSize returns the viewport size, or zero without a viewport.
func (le *LayoutEngine) ScreenSize() (float64, float64) {
	if le.host.Viewport == nil {
		return 0, 0
	}
	return le.host.Viewport.ScreenSize()
}

// Layout runs Precalculate followed by Calculate over the subtree.
func (le *LayoutEngine) Layout(root *dom.Element, force bool) {
	le.Precalculate(root, force)
	le.Calculate(root, force)
}

// length resolves a CSS length against base. Keywords and unsupported units
// report false; the caller substitutes its own fallback.
func length(value string, base float64) (float64, bool) {
	l, err := css.ParseLength(value)
	if err != nil {
		return 0, false
	}
	return l.Resolve(base), true
}

// font returns the font for family, falling back to DefaultFont and then to
// no font at all.
func (le *LayoutEngine) font(family string) host.Font {
	if le.host.Fonts == nil {
		return nil
	}
	family = strings.TrimSpace(family)
	if family == "" {
		family = DefaultFont
	}
	f, err := le.host.Fonts.Font(family)
	if err == nil && f != nil {
		return f
	}
	le.warnMissing("font", family, err)
	if family == DefaultFont {
		return nil
	}
	return le.font(DefaultFont)
}

// texture loads ref through the texture provider. Missing textures yield nil.
func (le *LayoutEngine) texture(ref string) host.Texture {
	if ref == "" || le.host.Textures == nil {
		return nil
	}
	t, err := le.host.Textures.Texture(ref)
	if err != nil || t == nil {
		le.warnMissing("texture", ref, err)
		return nil
	}
	return t
}

func (le *LayoutEngine) warnMissing(kind, ref string, err error) {
	key := kind + ":" + ref
	if _, ok := le.warned[key]; ok {
		return
	}
	le.warned[key] = struct{}{}
	if err == nil {
		err = host.ErrMissingResource
	}
	le.logger.Warn("Missing resource",
		zap.String("kind", kind),
		zap.String("ref", ref),
		zap.Bool("not_found", errors.Is(err, host.ErrMissingResource)),
		zap.Error(err))
}

// imageRef extracts the reference from a background-image value: url(x),
// url('x') or url("x"). "none" and anything else yields "".
func imageRef(value string) string {
	v := strings.TrimSpace(value)
	if !strings.HasPrefix(strings.ToLower(v), "url(") || !strings.HasSuffix(v, ")") {
		return ""
	}
	v = strings.TrimSpace(v[4 : len(v)-1])
	return strings.Trim(v, `"'`)
}

// imageSource returns the texture reference of an element: its
// background-image, or the src attribute of an img.
func imageSource(e *dom.Element) string {
	if ref := imageRef(e.Style().Get(css.PropBackgroundImage)); ref != "" {
		return ref
	}
	if e.Kind() == dom.KindImg {
		src, _ := e.Attr("src")
		return src
	}
	return ""
}
