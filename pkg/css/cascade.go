package css

import "strings"

// Cascade merges declaration blocks into resolved rulesets using a property
// registry. A Cascade holds no mutable state of its own, so one instance can
// serve any number of trees.
type Cascade struct {
	registry *Registry
}

// NewCascade returns a cascade over reg. A nil registry means
// DefaultRegistry().
func NewCascade(reg *Registry) *Cascade {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Cascade{registry: reg}
}

// Registry returns the registry the cascade resolves against.
func (c *Cascade) Registry() *Registry { return c.registry }

// Resolve computes the ruleset for one element. blocks are applied in order,
// later blocks overwriting earlier ones, and inline overwrites all of them.
// parent is the resolved ruleset of the parent element, or nil for a root.
//
// Registered properties with no declared value take the parent's value when
// inherited, else the registry default. The keywords "inherit" and
// "initial" select the parent's value and the registry default explicitly.
// Unknown properties are stored verbatim.
func (c *Cascade) Resolve(blocks []Block, inline Block, parent *Ruleset) *Ruleset {
	declared := make(map[string]string)
	for _, b := range blocks {
		for _, d := range b {
			declared[d.Property] = d.Value
		}
	}
	for _, d := range inline {
		declared[d.Property] = d.Value
	}

	rs := NewRuleset()
	for _, id := range c.registry.IDs() {
		if value, ok := declared[id]; ok {
			c.assign(rs, id, value, parent)
			continue
		}
		prop, _ := c.registry.Lookup(id)
		if prop.Inherited && parent != nil {
			if pv, ok := parent.Lookup(id); ok {
				rs.set(id, pv, OriginInherited)
				continue
			}
		}
		rs.set(id, prop.DefaultValue, OriginDefault)
	}

	for id, value := range declared {
		if c.registry.Known(id) {
			continue
		}
		c.assign(rs, id, value, parent)
	}
	return rs
}

func (c *Cascade) assign(rs *Ruleset, id, value string, parent *Ruleset) {
	switch strings.ToLower(value) {
	case "inherit":
		if parent != nil {
			if pv, ok := parent.Lookup(id); ok {
				rs.set(id, pv, OriginInherited)
				return
			}
		}
		rs.set(id, c.registry.Default(id), OriginDefault)
	case "initial":
		rs.set(id, c.registry.Default(id), OriginDefault)
	default:
		rs.set(id, value, OriginDeclared)
	}
}
