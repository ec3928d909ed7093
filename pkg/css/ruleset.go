package css

import "sort"

// Origin records where a resolved value came from.
type Origin int

const (
	OriginDefault Origin = iota
	OriginInherited
	OriginDeclared
)

func (o Origin) String() string {
	switch o {
	case OriginInherited:
		return "inherited"
	case OriginDeclared:
		return "declared"
	}
	return "default"
}

type resolvedValue struct {
	value  string
	origin Origin
	dirty  bool
}

// Ruleset is the resolved style of one element: a value per property plus
// a dirty flag that is raised whenever the value is reassigned.
type Ruleset struct {
	values map[string]*resolvedValue
}

// NewRuleset returns an empty ruleset.
func NewRuleset() *Ruleset {
	return &Ruleset{values: make(map[string]*resolvedValue)}
}

// Get returns the value of id, or "" when it is not set.
func (r *Ruleset) Get(id string) string {
	if v, ok := r.values[id]; ok {
		return v.value
	}
	return ""
}

// Lookup returns the value of id and whether it is set.
func (r *Ruleset) Lookup(id string) (string, bool) {
	v, ok := r.values[id]
	if !ok {
		return "", false
	}
	return v.value, true
}

// Origin returns where the value of id came from.
func (r *Ruleset) Origin(id string) Origin {
	if v, ok := r.values[id]; ok {
		return v.origin
	}
	return OriginDefault
}

// Set assigns a declared value and marks it dirty.
func (r *Ruleset) Set(id, value string) {
	r.set(id, value, OriginDeclared)
}

func (r *Ruleset) set(id, value string, origin Origin) {
	if v, ok := r.values[id]; ok {
		v.value, v.origin, v.dirty = value, origin, true
		return
	}
	r.values[id] = &resolvedValue{value: value, origin: origin, dirty: true}
}

// IsDirty reports whether id was reassigned since ClearDirty.
func (r *Ruleset) IsDirty(id string) bool {
	v, ok := r.values[id]
	return ok && v.dirty
}

// ClearDirty lowers the dirty flag of id.
func (r *Ruleset) ClearDirty(id string) {
	if v, ok := r.values[id]; ok {
		v.dirty = false
	}
}

// ClearAllDirty lowers every dirty flag.
func (r *Ruleset) ClearAllDirty() {
	for _, v := range r.values {
		v.dirty = false
	}
}

// Properties returns the ids present in the ruleset, sorted.
func (r *Ruleset) Properties() []string {
	ids := make([]string, 0, len(r.values))
	for id := range r.values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of properties present.
func (r *Ruleset) Len() int { return len(r.values) }

// Equal compares values and origins, ignoring dirty flags.
func (r *Ruleset) Equal(o *Ruleset) bool {
	if r == nil || o == nil {
		return r == o
	}
	if len(r.values) != len(o.values) {
		return false
	}
	for id, v := range r.values {
		ov, ok := o.values[id]
		if !ok || ov.value != v.value || ov.origin != v.origin {
			return false
		}
	}
	return true
}

// Update copies the values of next into r. Only values that actually change
// are reassigned, so dirty flags mark real changes. Properties missing from
// next are removed. The changed ids are returned in sorted order.
func (r *Ruleset) Update(next *Ruleset) []string {
	var changed []string
	for id, nv := range next.values {
		v, ok := r.values[id]
		if ok && v.value == nv.value {
			v.origin = nv.origin
			continue
		}
		r.set(id, nv.value, nv.origin)
		changed = append(changed, id)
	}
	for id := range r.values {
		if _, ok := next.values[id]; !ok {
			delete(r.values, id)
			changed = append(changed, id)
		}
	}
	sort.Strings(changed)
	return changed
}
