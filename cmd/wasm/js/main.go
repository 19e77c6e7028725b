//go:build js && wasm

// Command layoutexpr-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `layoutexpr` object with the following API:
//
//	layoutexpr.version()                  → string
//	layoutexpr.eval(expr, constantsJSON)  → resultJSON  (throws on error)
//	layoutexpr.format(expr)               → string      (throws on error)
//	layoutexpr.compile(expr)              → { symbols, eval(constantsJSON), release() }
//	                                        or { error, code } when expr does not parse
//
// Expressions are evaluated with the boxed-value engine, so constants may be
// numbers, strings or booleans.
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o layoutexpr.wasm ./cmd/wasm/js/
//
// Usage in Node.js:
//
//	const v = layoutexpr.eval('width / 2', JSON.stringify({width: 320}))
//	console.log(JSON.parse(v)) // 160
package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/sandrolain/layoutexpr"
	"github.com/sandrolain/layoutexpr/pkg/evaluator"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

// jsThrow panics with a JS Error so the caller receives a thrown exception.
func jsThrow(msg string) {
	panic(js.Global().Get("Error").New(msg))
}

// constants decodes the optional constants argument.
func constants(fn string, args []js.Value, i int) map[string]any {
	if len(args) <= i || args[i].IsUndefined() || args[i].IsNull() {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(args[i].String()), &out); err != nil {
		jsThrow(fmt.Sprintf("layoutexpr.%s: invalid constants JSON: %v", fn, err))
	}
	return out
}

func marshal(fn string, v any) string {
	out, err := json.Marshal(v)
	if err != nil {
		jsThrow(fmt.Sprintf("layoutexpr.%s: marshal result: %v", fn, err))
	}
	return string(out)
}

// jsEval implements layoutexpr.eval(expr, constantsJSON) → resultJSON.
func jsEval(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		jsThrow("layoutexpr.eval requires 1 or 2 arguments: expr (string) and constants (JSON string)")
	}
	v, err := layoutexpr.EvalAny(args[0].String(),
		evaluator.WithAnyConstants(constants("eval", args, 1)),
		evaluator.WithBooleanSymbols(true),
	)
	if err != nil {
		jsThrow(fmt.Sprintf("layoutexpr.eval: %v", err))
	}
	return marshal("eval", v)
}

// jsFormat implements layoutexpr.format(expr) → string.
func jsFormat(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		jsThrow("layoutexpr.format requires 1 argument: expr (string)")
	}
	out, err := layoutexpr.Format(args[0].String())
	if err != nil {
		jsThrow(fmt.Sprintf("layoutexpr.format: %v", err))
	}
	return out
}

// jsCompile implements layoutexpr.compile(expr). The returned eval and
// release functions stay registered until release() is called.
func jsCompile(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		jsThrow("layoutexpr.compile requires 1 argument: expr (string)")
	}
	source := args[0].String()
	expr, err := layoutexpr.CompileAny(source)
	if err != nil {
		return js.ValueOf(map[string]any{
			"error": err.Error(),
			"code":  string(types.CodeOf(err)),
		})
	}

	syms := expr.Symbols().Sorted()
	names := make([]any, len(syms))
	for i, sym := range syms {
		names[i] = sym.String()
	}

	// Constants are folded at compile time, so each call recompiles from the
	// parse cache.
	evalFn := js.FuncOf(func(_ js.Value, innerArgs []js.Value) any {
		v, err := layoutexpr.EvalAny(source,
			evaluator.WithAnyConstants(constants("compiled.eval", innerArgs, 0)),
			evaluator.WithBooleanSymbols(true),
		)
		if err != nil {
			jsThrow(fmt.Sprintf("compiled.eval: %v", err))
		}
		return marshal("compiled.eval", v)
	})
	var releaseFn js.Func
	releaseFn = js.FuncOf(func(_ js.Value, _ []js.Value) any {
		evalFn.Release()
		releaseFn.Release()
		return nil
	})

	return js.ValueOf(map[string]any{
		"symbols": names,
		"eval":    evalFn,
		"release": releaseFn,
	})
}

func main() {
	api := map[string]any{
		"eval":    js.FuncOf(jsEval),
		"format":  js.FuncOf(jsFormat),
		"compile": js.FuncOf(jsCompile),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) any {
			return layoutexpr.Version()
		}),
	}
	js.Global().Set("layoutexpr", js.ValueOf(api))

	// Block forever: the JS event loop owns execution from here.
	select {}
}
