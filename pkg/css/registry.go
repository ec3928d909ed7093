package css

import (
	"sort"
	"strings"
)

// Property describes one known style property.
type Property struct {
	ID           string
	DefaultValue string
	Inherited    bool
	Animatable   bool
}

// Registry is a table of known properties keyed by lower-cased id. A
// Registry is built once and handed to the cascade and layout engine; it is
// not safe to register properties while trees using it are being laid out.
type Registry struct {
	props map[string]Property
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{props: make(map[string]Property)}
}

// Register adds p, replacing any earlier registration with the same id.
func (r *Registry) Register(p Property) {
	p.ID = strings.ToLower(p.ID)
	r.props[p.ID] = p
}

// Lookup returns the definition for id.
func (r *Registry) Lookup(id string) (Property, bool) {
	p, ok := r.props[strings.ToLower(id)]
	return p, ok
}

// Known reports whether id is registered.
func (r *Registry) Known(id string) bool {
	_, ok := r.props[strings.ToLower(id)]
	return ok
}

// Default returns the registered default for id, or "" when unknown.
func (r *Registry) Default(id string) string {
	return r.props[strings.ToLower(id)].DefaultValue
}

// IsInherited reports whether id is registered as inherited.
func (r *Registry) IsInherited(id string) bool {
	return r.props[strings.ToLower(id)].Inherited
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.props))
	for id := range r.props {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Property ids consulted by layout and rendering.
const (
	PropPosition           = "position"
	PropDisplay            = "display"
	PropTop                = "top"
	PropLeft               = "left"
	PropBottom             = "bottom"
	PropRight              = "right"
	PropWidth              = "width"
	PropHeight             = "height"
	PropMinWidth           = "min-width"
	PropMinHeight          = "min-height"
	PropMaxWidth           = "max-width"
	PropMaxHeight          = "max-height"
	PropColor              = "color"
	PropBackgroundColor    = "background-color"
	PropBackgroundImage    = "background-image"
	PropBackgroundRepeat   = "background-repeat"
	PropFont               = "font"
	PropDebugColorOuter    = "--debug-color-outer"
	PropDebugColorInner    = "--debug-color-inner"
	PropBackgroundPosition = "background-position"
	PropBackgroundSize     = "background-size"
)

// StandardProperties is the built-in property set.
var StandardProperties = []Property{
	{ID: PropPosition, DefaultValue: "static"},
	{ID: PropDisplay, DefaultValue: "inline"},
	{ID: PropTop, DefaultValue: "auto", Animatable: true},
	{ID: PropLeft, DefaultValue: "auto", Animatable: true},
	{ID: PropBottom, DefaultValue: "auto", Animatable: true},
	{ID: PropRight, DefaultValue: "auto", Animatable: true},
	{ID: PropWidth, DefaultValue: "auto", Animatable: true},
	{ID: PropHeight, DefaultValue: "auto", Animatable: true},
	{ID: PropMinWidth, DefaultValue: "0", Animatable: true},
	{ID: PropMinHeight, DefaultValue: "0", Animatable: true},
	{ID: PropMaxWidth, DefaultValue: "none", Animatable: true},
	{ID: PropMaxHeight, DefaultValue: "none", Animatable: true},
	{ID: PropColor, DefaultValue: "black", Inherited: true, Animatable: true},
	{ID: PropBackgroundColor, DefaultValue: "transparent", Animatable: true},
	{ID: PropBackgroundImage, DefaultValue: "none"},
	{ID: PropBackgroundRepeat, DefaultValue: "repeat"},
	{ID: PropBackgroundPosition, DefaultValue: "auto"},
	{ID: PropBackgroundSize, DefaultValue: "auto"},
	{ID: PropFont, DefaultValue: "small", Inherited: true, Animatable: true},
	{ID: PropDebugColorOuter, DefaultValue: "transparent"},
	{ID: PropDebugColorInner, DefaultValue: "transparent"},
}

// DefaultRegistry returns a new registry holding StandardProperties.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range StandardProperties {
		r.Register(p)
	}
	return r
}
