package dom

import "boxkit/pkg/event"

// AddEventListener registers l for typ. Registering the same listener
// again moves it to the end instead of adding a second registration.
func (e *Element) AddEventListener(typ string, l *event.Listener) {
	e.listeners.Add(typ, l)
}

// RemoveEventListener unregisters l. Unknown listeners are ignored.
func (e *Element) RemoveEventListener(typ string, l *event.Listener) {
	e.listeners.Remove(typ, l)
}

// Listeners exposes the element's listener registry.
func (e *Element) Listeners() *event.Registry { return e.listeners }

// DispatchEvent broadcasts ev through the subtree rooted at e, top-down.
// At every element, each listener registered for the event type fires with
// a copy of ev whose current target is that element, provided ev.Test
// accepts the element. Children are visited whether or not anything fired.
//
// This is a broadcast, not a capture/target/bubble walk: every matching
// listener in the subtree fires once, in pre-order.
func (e *Element) DispatchEvent(ev *event.Event) {
	if e.listeners.Has(ev.Type()) && ev.Test(e) {
		phase := e.phaseFor(ev)
		for _, l := range e.listeners.Listeners(ev.Type()) {
			l.Handle(ev.CloneFor(e, phase))
		}
	}
	for _, c := range e.Children() {
		c.DispatchEvent(ev)
	}
}

// phaseFor reports the phase an element observes: at-target for the target,
// capturing for its ancestors and none for elements off that path.
func (e *Element) phaseFor(ev *event.Event) event.Phase {
	target, ok := ev.Target().(*Element)
	switch {
	case !ok:
		return event.PhaseNone
	case target == e:
		return event.PhaseAtTarget
	case e.IsAncestorOf(target):
		return event.PhaseCapturing
	}
	return event.PhaseNone
}
