// Package event defines the event record dispatched through element trees
// and the per-node listener registry.
package event

import "time"

// Phase of event flow, numbered as in the DOM.
type Phase int

const (
	PhaseNone      Phase = 0
	PhaseCapturing Phase = 1
	PhaseAtTarget  Phase = 2
	PhaseBubbling  Phase = 3
)

func (p Phase) String() string {
	switch p {
	case PhaseCapturing:
		return "capturing"
	case PhaseAtTarget:
		return "at-target"
	case PhaseBubbling:
		return "bubbling"
	}
	return "none"
}

// Event types produced by the mouse sampler.
const (
	MouseMove  = "mousemove"
	MouseDown  = "mousedown"
	MouseUp    = "mouseup"
	Click      = "click"
	MouseEnter = "mouseenter"
	MouseLeave = "mouseleave"
)

// Dispatchable is anything an event can be dispatched to.
type Dispatchable interface {
	DispatchEvent(e *Event)
}

// Measurable is a dispatch target that occupies screen space.
type Measurable interface {
	Contains(x, y float64) bool
}

// Mouse is the payload of mouse events.
type Mouse struct {
	X, Y    float64
	DX, DY  float64
	Button  int // button that changed, for down/up/click
	Buttons int // bitmask of held buttons
}

// Options configure a new event.
type Options struct {
	Bubbles    bool
	Cancelable bool
	Composed   bool
}

// Event is an immutable event record. Dispatch hands every listener its own
// copy made with CloneFor.
type Event struct {
	typ           string
	bubbles       bool
	cancelable    bool
	composed      bool
	target        Dispatchable
	currentTarget Dispatchable
	phase         Phase
	timeStamp     time.Time
	mouse         *Mouse
}

// New creates an event of the given type aimed at target.
func New(typ string, target Dispatchable, opts Options) *Event {
	return &Event{
		typ:        typ,
		bubbles:    opts.Bubbles,
		cancelable: opts.Cancelable,
		composed:   opts.Composed,
		target:     target,
		timeStamp:  time.Now(),
	}
}

// NewMouse creates a mouse event. Mouse events bubble, and all but
// mouseenter/mouseleave are cancelable.
func NewMouse(typ string, target Dispatchable, m Mouse) *Event {
	relational := typ == MouseEnter || typ == MouseLeave
	e := New(typ, target, Options{Bubbles: !relational, Cancelable: !relational, Composed: true})
	e.mouse = &m
	return e
}

func (e *Event) Type() string                { return e.typ }
func (e *Event) Bubbles() bool               { return e.bubbles }
func (e *Event) Cancelable() bool            { return e.cancelable }
func (e *Event) Composed() bool              { return e.composed }
func (e *Event) Target() Dispatchable        { return e.target }
func (e *Event) CurrentTarget() Dispatchable { return e.currentTarget }
func (e *Event) Phase() Phase                { return e.phase }
func (e *Event) TimeStamp() time.Time        { return e.timeStamp }

// Mouse returns the mouse payload, or false for non-mouse events.
func (e *Event) Mouse() (Mouse, bool) {
	if e.mouse == nil {
		return Mouse{}, false
	}
	return *e.mouse, true
}

// CloneFor returns a copy of e as seen by current during the given phase.
func (e *Event) CloneFor(current Dispatchable, phase Phase) *Event {
	c := *e
	c.currentTarget = current
	c.phase = phase
	if e.mouse != nil {
		m := *e.mouse
		c.mouse = &m
	}
	return &c
}

// Test reports whether listeners on node should fire for e. Positional
// mouse events fire on nodes containing the pointer; mouseenter and
// mouseleave fire only on their target; everything else fires everywhere.
func (e *Event) Test(node Dispatchable) bool {
	switch e.typ {
	case MouseMove, MouseDown, MouseUp, Click:
		m, ok := node.(Measurable)
		if !ok || e.mouse == nil {
			return false
		}
		return m.Contains(e.mouse.X, e.mouse.Y)
	case MouseEnter, MouseLeave:
		return node == e.target
	}
	return true
}
