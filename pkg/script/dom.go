package script

import (
	"strings"

	"github.com/dop251/goja"

	"boxkit/pkg/css"
	"boxkit/pkg/dom"
	"boxkit/pkg/event"
)

// registerDocument sets up the global document object. Lookups search the
// whole window; body and documentElement follow LoadHTML replacing the
// document.
func (e *Engine) registerDocument() {
	e.vm.Set("document", e.vm.NewDynamicObject(&documentAccessor{eng: e}))
}

type documentAccessor struct {
	eng *Engine
}

var documentKeys = []string{
	"body", "documentElement", "getElementById", "createElement",
	"createTextNode", "querySelector", "querySelectorAll",
	"addEventListener", "removeEventListener",
}

func (d *documentAccessor) Get(key string) goja.Value {
	eng := d.eng
	w := eng.window
	switch key {
	case "body":
		return eng.proxy(w.Body())
	case "documentElement":
		return eng.proxy(w.Document())
	case "getElementById":
		return eng.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return eng.proxy(w.GetElementByID(call.Argument(0).String()))
		})
	case "createElement":
		return eng.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if isNullish(call.Argument(0)) {
				panic(eng.vm.NewTypeError("createElement: tag name required"))
			}
			return eng.proxy(w.CreateElement(strings.ToLower(call.Argument(0).String())))
		})
	case "createTextNode":
		return eng.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return eng.proxy(w.Tree().CreateText(call.Argument(0).String()))
		})
	case "querySelector", "querySelectorAll":
		return eng.querySelectorFn(w.Element(), key == "querySelectorAll")
	case "addEventListener", "removeEventListener":
		return eng.accessor(w.Document()).Get(key)
	}
	return goja.Undefined()
}

func (d *documentAccessor) Set(string, goja.Value) bool { return false }
func (d *documentAccessor) Has(key string) bool {
	for _, k := range documentKeys {
		if k == key {
			return true
		}
	}
	return false
}
func (d *documentAccessor) Delete(string) bool { return false }
func (d *documentAccessor) Keys() []string     { return documentKeys }

// proxy returns the script object for el, creating it on first use. A nil
// element maps to null.
func (e *Engine) proxy(el *dom.Element) goja.Value {
	if el == nil {
		return goja.Null()
	}
	return e.accessor(el).obj
}

func (e *Engine) accessor(el *dom.Element) *elementAccessor {
	if a, ok := e.proxies[el]; ok {
		return a
	}
	a := &elementAccessor{eng: e, el: el, hooks: make(map[string]goja.Value)}
	a.obj = e.vm.NewDynamicObject(a)
	e.proxies[el] = a
	e.elements[a.obj] = el
	return a
}

// unwrap returns the element behind a script object, or nil when v is not
// an element proxy.
func (e *Engine) unwrap(v goja.Value) *dom.Element {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	return e.elements[obj]
}

func (e *Engine) mustUnwrap(v goja.Value, op string) *dom.Element {
	el := e.unwrap(v)
	if el == nil {
		panic(e.vm.NewTypeError("%s: argument is not an element", op))
	}
	return el
}

func (e *Engine) array(els []*dom.Element) goja.Value {
	vals := make([]interface{}, len(els))
	for i, el := range els {
		vals[i] = e.proxy(el)
	}
	return e.vm.NewArray(vals...)
}

func (e *Engine) querySelectorFn(root *dom.Element, all bool) goja.Value {
	return e.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		sel, err := css.ParseSelector(call.Argument(0).String())
		if err != nil {
			e.throw(err)
		}
		found := root.QuerySelectorAll(sel)
		if all {
			return e.array(found)
		}
		if len(found) == 0 {
			return goja.Null()
		}
		return e.proxy(found[0])
	})
}

// elementAccessor intercepts property access on element proxies.
type elementAccessor struct {
	eng   *Engine
	el    *dom.Element
	obj   *goja.Object
	hooks map[string]goja.Value
}

var elementKeys = []string{
	"id", "tagName", "className", "classList", "textContent", "style",
	"parentElement", "children", "hovered", "geometry",
	"getAttribute", "setAttribute", "setStyle",
	"appendChild", "insertBefore", "removeChild", "remove",
	"querySelector", "querySelectorAll", "matches",
	"addEventListener", "removeEventListener",
	"onupdate", "onprerender", "onrender",
}

func (a *elementAccessor) Get(key string) goja.Value {
	eng, el, vm := a.eng, a.el, a.eng.vm
	switch key {
	case "id":
		return vm.ToValue(el.ID())
	case "tagName":
		if el.Kind() == dom.KindRawText {
			return goja.Undefined()
		}
		return vm.ToValue(strings.ToUpper(el.Tag()))
	case "className":
		return vm.ToValue(strings.Join(el.Classes(), " "))
	case "classList":
		return eng.classList(el)
	case "textContent":
		return vm.ToValue(textContent(el))
	case "style":
		return vm.ToValue(el.InlineStyle())
	case "parentElement":
		return eng.proxy(el.Parent())
	case "children":
		return eng.array(el.Children())
	case "hovered":
		return vm.ToValue(el.Hovered())
	case "geometry":
		return eng.geometry(el)
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			v, ok := el.Attr(call.Argument(0).String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(v)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			el.SetAttr(call.Argument(0).String(), call.Argument(1).String())
			return goja.Undefined()
		})
	case "setStyle":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			el.SetStyle(call.Argument(0).String())
			return goja.Undefined()
		})
	case "appendChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := eng.mustUnwrap(call.Argument(0), "appendChild")
			if err := el.AppendChild(child); err != nil {
				eng.throw(err)
			}
			return call.Argument(0)
		})
	case "insertBefore":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := eng.mustUnwrap(call.Argument(0), "insertBefore")
			if err := el.InsertBefore(child, eng.unwrap(call.Argument(1))); err != nil {
				eng.throw(err)
			}
			return call.Argument(0)
		})
	case "removeChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := eng.mustUnwrap(call.Argument(0), "removeChild")
			if err := el.RemoveChild(child); err != nil {
				eng.throw(err)
			}
			return call.Argument(0)
		})
	case "remove":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			el.Remove()
			return goja.Undefined()
		})
	case "querySelector", "querySelectorAll":
		return eng.querySelectorFn(el, key == "querySelectorAll")
	case "matches":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			sel, err := css.ParseSelector(call.Argument(0).String())
			if err != nil {
				eng.throw(err)
			}
			return vm.ToValue(el.Matches(sel))
		})
	case "addEventListener":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			eng.addListener(el, call.Argument(0).String(), call.Argument(1))
			return goja.Undefined()
		})
	case "removeEventListener":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			eng.removeListener(el, call.Argument(0).String(), call.Argument(1))
			return goja.Undefined()
		})
	case "onupdate", "onprerender", "onrender":
		if fn, ok := a.hooks[key]; ok {
			return fn
		}
		return goja.Null()
	}
	return goja.Undefined()
}

func (a *elementAccessor) Set(key string, val goja.Value) bool {
	el := a.el
	switch key {
	case "id":
		el.SetID(val.String())
	case "className":
		el.SetClass(val.String())
	case "textContent":
		a.eng.setTextContent(el, val.String())
	case "style":
		el.SetStyle(val.String())
	case "onupdate", "onprerender", "onrender":
		a.eng.setHook(a, key, val)
	default:
		return false
	}
	return true
}

func (a *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (a *elementAccessor) Delete(key string) bool {
	switch key {
	case "onupdate", "onprerender", "onrender":
		a.eng.setHook(a, key, goja.Null())
		return true
	}
	return false
}

func (a *elementAccessor) Keys() []string { return elementKeys }

// textContent concatenates the raw text in the subtree of el.
func textContent(el *dom.Element) string {
	var b strings.Builder
	el.Walk(func(n *dom.Element) bool {
		if n.Kind() == dom.KindRawText {
			b.WriteString(n.Text())
		}
		return true
	})
	return b.String()
}

// setTextContent replaces the children of el with a single text node, or
// sets the text of a raw text element directly.
func (e *Engine) setTextContent(el *dom.Element, text string) {
	if el.Kind() == dom.KindRawText {
		el.SetText(text)
		return
	}
	for _, c := range el.Children() {
		if err := el.RemoveChild(c); err != nil {
			e.throw(err)
		}
	}
	if text == "" {
		return
	}
	if err := el.AppendChild(el.Tree().CreateText(text)); err != nil {
		e.throw(err)
	}
}

// geometry reports the outer box computed by the last frame.
func (e *Engine) geometry(el *dom.Element) goja.Value {
	r := el.Cache().Outer
	obj := e.vm.NewObject()
	_ = obj.Set("x", r.X1)
	_ = obj.Set("y", r.Y1)
	_ = obj.Set("width", r.Width())
	_ = obj.Set("height", r.Height())
	return obj
}

// setHook installs or clears a lifecycle hook backed by a script function.
func (e *Engine) setHook(a *elementAccessor, key string, val goja.Value) {
	var hook dom.Hook
	if isNullish(val) {
		delete(a.hooks, key)
	} else {
		fn := e.callable(val, key)
		a.hooks[key] = val
		hook = func(el *dom.Element) { e.call(key, fn, e.proxy(el)) }
	}
	switch key {
	case "onupdate":
		a.el.OnUpdate = hook
	case "onprerender":
		a.el.OnPrerender = hook
	case "onrender":
		a.el.OnRender = hook
	}
}

// binding ties a script function to the listener registered for it.
type binding struct {
	typ      string
	fn       goja.Value
	listener *event.Listener
}

// addListener registers fn for typ on el. Registering the same function
// again for one type moves its single registration to the end.
func (e *Engine) addListener(el *dom.Element, typ string, fn goja.Value) {
	call := e.callable(fn, "addEventListener")
	list := e.listeners[el]
	for i, b := range list {
		if b.typ == typ && b.fn.SameAs(fn) {
			el.AddEventListener(typ, b.listener)
			e.listeners[el] = append(append(list[:i:i], list[i+1:]...), b)
			return
		}
	}
	l := event.NewListener(func(ev *event.Event) {
		e.call(typ, call, e.eventObject(ev))
	})
	el.AddEventListener(typ, l)
	e.listeners[el] = append(e.listeners[el], binding{typ: typ, fn: fn, listener: l})
}

func (e *Engine) removeListener(el *dom.Element, typ string, fn goja.Value) {
	list := e.listeners[el]
	for i, b := range list {
		if b.typ == typ && b.fn.SameAs(fn) {
			el.RemoveEventListener(typ, b.listener)
			e.listeners[el] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// eventObject snapshots an event for a script listener.
func (e *Engine) eventObject(ev *event.Event) goja.Value {
	obj := e.vm.NewObject()
	_ = obj.Set("type", ev.Type())
	_ = obj.Set("phase", int(ev.Phase()))
	_ = obj.Set("bubbles", ev.Bubbles())
	_ = obj.Set("timeStamp", ev.TimeStamp().UnixMilli())
	_ = obj.Set("target", e.dispatchable(ev.Target()))
	_ = obj.Set("currentTarget", e.dispatchable(ev.CurrentTarget()))
	if m, ok := ev.Mouse(); ok {
		_ = obj.Set("x", m.X)
		_ = obj.Set("y", m.Y)
		_ = obj.Set("dx", m.DX)
		_ = obj.Set("dy", m.DY)
		_ = obj.Set("button", m.Button)
		_ = obj.Set("buttons", m.Buttons)
	}
	return obj
}

func (e *Engine) dispatchable(d event.Dispatchable) goja.Value {
	if el, ok := d.(*dom.Element); ok {
		return e.proxy(el)
	}
	return goja.Null()
}
