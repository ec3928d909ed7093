package script

import (
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// registerConsole installs console.log, info, debug, warn and error, all
// writing to the engine's logger.
func (e *Engine) registerConsole() {
	console := e.vm.NewObject()
	levels := map[string]zapcore.Level{
		"log":   zapcore.InfoLevel,
		"info":  zapcore.InfoLevel,
		"debug": zapcore.DebugLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}
	for name, level := range levels {
		_ = console.Set(name, e.consoleFunc(level))
	}
	e.vm.Set("console", console)
}

func (e *Engine) consoleFunc(level zapcore.Level) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if ce := e.logger.Check(level, formatArgs(call.Arguments)); ce != nil {
			ce.Write(zap.String("source", "console"))
		}
		return goja.Undefined()
	}
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}
