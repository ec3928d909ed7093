// Package script binds a window's element tree to a goja JavaScript runtime.
// Scripts can look up and create elements, restyle them, restructure the
// tree, register event listeners and lifecycle hooks, and log through the
// console object.
package script

import (
	"fmt"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"boxkit/pkg/dom"
	"boxkit/pkg/markup"
	"boxkit/pkg/window"
)

// Engine is one JavaScript runtime bound to one window. It is not safe for
// concurrent use; scripts and the callbacks they register run on the frame
// goroutine.
type Engine struct {
	vm     *goja.Runtime
	window *window.Window
	logger *zap.Logger

	// proxies keeps element identity stable across lookups so that
	// === works in scripts.
	proxies  map[*dom.Element]*elementAccessor
	elements map[*goja.Object]*dom.Element

	listeners map[*dom.Element][]binding
}

func New(w *window.Window, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		vm:        goja.New(),
		window:    w,
		logger:    logger.Named("script"),
		proxies:   make(map[*dom.Element]*elementAccessor),
		elements:  make(map[*goja.Object]*dom.Element),
		listeners: make(map[*dom.Element][]binding),
	}
	e.registerConsole()
	e.registerDocument()
	return e
}

// Runtime exposes the underlying goja runtime.
func (e *Engine) Runtime() *goja.Runtime { return e.vm }

// Run executes the document's scripts in order, stopping at the first that
// fails.
func (e *Engine) Run(doc *markup.Document) error {
	for i, src := range doc.Scripts {
		if _, err := e.vm.RunScript(fmt.Sprintf("script-%d.js", i), src); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	e.logger.Debug("Scripts executed", zap.Int("count", len(doc.Scripts)))
	return nil
}

// RunString executes a single script.
func (e *Engine) RunString(src string) (goja.Value, error) {
	return e.vm.RunString(src)
}

// call invokes a script callback, logging rather than propagating a thrown
// exception since callbacks run outside any script's control flow.
func (e *Engine) call(what string, fn goja.Callable, args ...goja.Value) {
	if _, err := fn(goja.Undefined(), args...); err != nil {
		e.logger.Warn("Script callback failed", zap.String("callback", what), zap.Error(err))
	}
}

// throw raises err as a JavaScript exception from inside a binding.
func (e *Engine) throw(err error) {
	panic(e.vm.NewGoError(err))
}

func (e *Engine) callable(v goja.Value, what string) goja.Callable {
	fn, ok := goja.AssertFunction(v)
	if !ok {
		panic(e.vm.NewTypeError("%s: argument is not a function", what))
	}
	return fn
}

func isNullish(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}
