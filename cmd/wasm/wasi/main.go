//go:build wasip1

// Command layoutexpr-wasm-wasi is the WASI (wasip1) entrypoint for use from
// any language that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "expression": "<expr>", "constants": { "<name>": <value> }, "format": false }
//	stdout: { "result": <any JSON value> }    on success
//	        { "error":  "<message>", "code": "<code>" }    on failure (exit code 1)
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o layoutexpr.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"expression":"width / 2","constants":{"width":320}}' | wasmtime layoutexpr.wasm
package main

import (
	"encoding/json"
	"os"

	"github.com/sandrolain/layoutexpr"
	"github.com/sandrolain/layoutexpr/pkg/evaluator"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

type request struct {
	Expression string         `json:"expression"`
	Constants  map[string]any `json:"constants"`
	Format     bool           `json:"format"`
}

type response struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}

func writeResponse(r response, exitCode int) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	os.Exit(exitCode)
}

func fail(err error) {
	writeResponse(response{Error: err.Error(), Code: string(types.CodeOf(err))}, 1)
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(response{Error: "invalid request JSON: " + err.Error()}, 1)
	}

	if req.Format {
		out, err := layoutexpr.Format(req.Expression)
		if err != nil {
			fail(err)
		}
		writeResponse(response{Result: out}, 0)
	}

	result, err := layoutexpr.EvalAny(req.Expression,
		evaluator.WithAnyConstants(req.Constants),
		evaluator.WithBooleanSymbols(true),
	)
	if err != nil {
		fail(err)
	}
	writeResponse(response{Result: result}, 0)
}
