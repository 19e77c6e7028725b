//go:build js && wasm

package main

import (
	"syscall/js"
	"testing"
)

func TestCompile(t *testing.T) {
	res := jsCompile(js.Undefined(), []js.Value{js.ValueOf("width / 2")}).(js.Value)

	syms := res.Get("symbols")
	if syms.Length() != 2 || syms.Index(0).String() != "variable width" {
		t.Errorf("unexpected symbols %v", syms)
	}
	if got := res.Get("eval").Invoke(`{"width": 320}`).String(); got != "160" {
		t.Errorf("eval = %s, want 160", got)
	}
	res.Get("release").Invoke()
}

func TestCompileError(t *testing.T) {
	res := jsCompile(js.Undefined(), []js.Value{js.ValueOf("(1 + 2")}).(js.Value)
	if got := res.Get("code").String(); got != "S0202" {
		t.Errorf("code = %q, want S0202", got)
	}
	if res.Get("error").String() == "" {
		t.Error("expected an error message")
	}
	if !res.Get("eval").IsUndefined() {
		t.Error("expected no eval function on error")
	}
}
