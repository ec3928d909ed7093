package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type box struct {
	x1, y1, x2, y2 float64
}

func (b *box) DispatchEvent(*Event) {}

func (b *box) Contains(x, y float64) bool {
	return x >= b.x1 && x < b.x2 && y >= b.y1 && y < b.y2
}

type plain struct{}

func (p *plain) DispatchEvent(*Event) {}

func TestEvent_CloneFor(t *testing.T) {
	target := &box{}
	other := &box{}
	e := NewMouse(Click, target, Mouse{X: 1, Y: 2})

	c := e.CloneFor(other, PhaseCapturing)
	assert.Equal(t, Click, c.Type())
	assert.Same(t, target, c.Target())
	assert.Same(t, other, c.CurrentTarget())
	assert.Equal(t, PhaseCapturing, c.Phase())
	assert.Equal(t, e.TimeStamp(), c.TimeStamp())

	// The original is untouched.
	assert.Nil(t, e.CurrentTarget())
	assert.Equal(t, PhaseNone, e.Phase())

	m, ok := c.Mouse()
	require.True(t, ok)
	assert.Equal(t, 1.0, m.X)
	assert.Equal(t, 2.0, m.Y)
}

func TestEvent_Options(t *testing.T) {
	e := New("custom", nil, Options{Bubbles: true, Composed: true})
	assert.True(t, e.Bubbles())
	assert.False(t, e.Cancelable())
	assert.True(t, e.Composed())
	_, ok := e.Mouse()
	assert.False(t, ok)

	enter := NewMouse(MouseEnter, nil, Mouse{})
	assert.False(t, enter.Bubbles())
	assert.False(t, enter.Cancelable())
}

func TestEvent_Test(t *testing.T) {
	hit := &box{0, 0, 10, 10}
	miss := &box{20, 20, 30, 30}
	noGeometry := &plain{}

	click := NewMouse(Click, hit, Mouse{X: 5, Y: 5})
	assert.True(t, click.Test(hit))
	assert.False(t, click.Test(miss))
	assert.False(t, click.Test(noGeometry))

	enter := NewMouse(MouseEnter, hit, Mouse{X: 25, Y: 25})
	assert.True(t, enter.Test(hit))
	assert.False(t, enter.Test(miss))

	custom := New("custom", hit, Options{})
	assert.True(t, custom.Test(miss))
	assert.True(t, custom.Test(noGeometry))
}

func TestRegistry_Dedup(t *testing.T) {
	r := NewRegistry()
	calls := 0
	l := NewListener(func(*Event) { calls++ })

	r.Add(Click, l)
	r.Add(Click, l)
	require.Len(t, r.Listeners(Click), 1)

	for _, listener := range r.Listeners(Click) {
		listener.Handle(New(Click, nil, Options{}))
	}
	assert.Equal(t, 1, calls)
}

func TestRegistry_ReAddMovesToEnd(t *testing.T) {
	r := NewRegistry()
	a := NewListener(nil)
	b := NewListener(nil)
	r.Add("x", a)
	r.Add("x", b)
	r.Add("x", a)

	assert.Equal(t, []*Listener{b, a}, r.Listeners("x"))
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	a := NewListener(nil)

	assert.NotPanics(t, func() { r.Remove(Click, a) })

	r.Add(Click, a)
	r.Remove(Click, NewListener(nil))
	assert.True(t, r.Has(Click))

	r.Remove(Click, a)
	assert.False(t, r.Has(Click))
	assert.Empty(t, r.Types())
}

func TestRegistry_SnapshotSurvivesMutation(t *testing.T) {
	r := NewRegistry()
	a := NewListener(nil)
	b := NewListener(nil)
	r.Add("x", a)
	r.Add("x", b)

	snapshot := r.Listeners("x")
	r.Remove("x", a)
	assert.Equal(t, []*Listener{a, b}, snapshot)
	assert.Equal(t, []*Listener{b}, r.Listeners("x"))
}
