package window

import (
	"boxkit/pkg/dom"
	"boxkit/pkg/event"
)

// Button bits of Sample.Buttons.
const (
	ButtonPrimary = 1 << iota
	ButtonSecondary
	ButtonMiddle

	buttonCount = 3
)

// Sample is the pointer state reported by the host for one frame.
type Sample struct {
	X, Y    float64
	Buttons int
}

// Mouse turns successive samples into mouse events.
type Mouse struct {
	x, y    float64
	buttons int
	sampled bool

	pending *Sample
}

// Position returns the last processed pointer position.
func (m *Mouse) Position() (float64, float64) { return m.x, m.y }

// Buttons returns the last processed button mask.
func (m *Mouse) Buttons() int { return m.buttons }

// Feed queues a sample. Only the latest sample before a frame is used.
func (m *Mouse) Feed(s Sample) {
	m.pending = &s
}

// update processes the pending sample against the document subtree:
//
//   - a position change broadcasts mousemove from the document and updates
//     hover state, firing mouseleave then mouseenter on the elements whose
//     state changed;
//   - every button transition broadcasts mousedown, or mouseup followed by
//     click.
//
// Positional events only reach elements whose outer box contains the
// pointer.
func (m *Mouse) update(document *dom.Element) {
	if m.pending == nil {
		return
	}
	s := *m.pending
	m.pending = nil

	moved := !m.sampled || s.X != m.x || s.Y != m.y
	payload := event.Mouse{X: s.X, Y: s.Y, DX: s.X - m.x, DY: s.Y - m.y, Buttons: s.Buttons}
	if !m.sampled {
		payload.DX, payload.DY = 0, 0
	}
	m.x, m.y, m.sampled = s.X, s.Y, true

	if moved {
		document.DispatchEvent(event.NewMouse(event.MouseMove, document, payload))
		m.updateHover(document, payload)
	}

	changed := s.Buttons ^ m.buttons
	m.buttons = s.Buttons
	for i := 0; i < buttonCount; i++ {
		bit := 1 << i
		if changed&bit == 0 {
			continue
		}
		p := payload
		p.Button = i
		if s.Buttons&bit != 0 {
			document.DispatchEvent(event.NewMouse(event.MouseDown, document, p))
			continue
		}
		document.DispatchEvent(event.NewMouse(event.MouseUp, document, p))
		document.DispatchEvent(event.NewMouse(event.Click, document, p))
	}
}

func (m *Mouse) updateHover(document *dom.Element, payload event.Mouse) {
	var entered, left []*dom.Element
	document.Walk(func(e *dom.Element) bool {
		inside := e.Contains(payload.X, payload.Y)
		switch {
		case inside && !e.Hovered():
			entered = append(entered, e)
		case !inside && e.Hovered():
			left = append(left, e)
		}
		return true
	})

	for _, e := range left {
		e.SetHovered(false)
		e.DispatchEvent(event.NewMouse(event.MouseLeave, e, payload))
	}
	for _, e := range entered {
		e.SetHovered(true)
		e.DispatchEvent(event.NewMouse(event.MouseEnter, e, payload))
	}
}
