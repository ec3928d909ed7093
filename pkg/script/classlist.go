package script

import (
	"github.com/dop251/goja"

	"boxkit/pkg/dom"
)

// classList returns a DOMTokenList-like object over the element's classes.
func (e *Engine) classList(el *dom.Element) goja.Value {
	vm := e.vm
	obj := vm.NewObject()
	_ = obj.Set("length", len(el.Classes()))
	_ = obj.Set("add", func(call goja.FunctionCall) goja.Value {
		for _, a := range call.Arguments {
			el.AddClass(a.String())
		}
		return goja.Undefined()
	})
	_ = obj.Set("remove", func(call goja.FunctionCall) goja.Value {
		for _, a := range call.Arguments {
			el.RemoveClass(a.String())
		}
		return goja.Undefined()
	})
	_ = obj.Set("contains", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.HasClass(call.Argument(0).String()))
	})
	_ = obj.Set("toggle", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		on := !el.HasClass(name)
		if force := call.Argument(1); !goja.IsUndefined(force) {
			on = force.ToBoolean()
		}
		if on {
			el.AddClass(name)
		} else {
			el.RemoveClass(name)
		}
		return vm.ToValue(on)
	})
	return obj
}
