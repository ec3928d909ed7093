package event

import "sort"

// Func handles an event.
type Func func(e *Event)

// Listener wraps a handler so that it has an identity. Registering the same
// *Listener twice for one type keeps a single registration.
type Listener struct {
	fn Func
}

// NewListener returns a listener calling fn.
func NewListener(fn Func) *Listener {
	return &Listener{fn: fn}
}

// Handle invokes the handler.
func (l *Listener) Handle(e *Event) {
	if l != nil && l.fn != nil {
		l.fn(e)
	}
}

// Registry holds the listeners of one node, per event type, in
// registration order.
type Registry struct {
	byType map[string][]*Listener
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[string][]*Listener)}
}

// Add registers l for typ. A listener already registered for typ is moved
// to the end rather than added twice.
func (r *Registry) Add(typ string, l *Listener) {
	if l == nil {
		return
	}
	list := remove(r.byType[typ], l)
	r.byType[typ] = append(list, l)
}

// Remove unregisters l. Removing an unknown listener is a no-op. A type
// left without listeners is dropped.
func (r *Registry) Remove(typ string, l *Listener) {
	list, ok := r.byType[typ]
	if !ok {
		return
	}
	list = remove(list, l)
	if len(list) == 0 {
		delete(r.byType, typ)
		return
	}
	r.byType[typ] = list
}

// Listeners returns a snapshot of the listeners for typ, so handlers may
// add or remove listeners while the snapshot is iterated.
func (r *Registry) Listeners(typ string) []*Listener {
	list := r.byType[typ]
	if len(list) == 0 {
		return nil
	}
	out := make([]*Listener, len(list))
	copy(out, list)
	return out
}

// Has reports whether any listener is registered for typ.
func (r *Registry) Has(typ string) bool {
	return len(r.byType[typ]) > 0
}

// Types returns the event types with listeners, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func remove(list []*Listener, l *Listener) []*Listener {
	for i, existing := range list {
		if existing == l {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
