//go:build (js && wasm) || wasip1

package evaluator

// init shrinks the process-wide caches on WebAssembly, where linear memory
// only grows and a long-lived page keeps every cached tree alive.
func init() {
	defaultCacheCapacity = 512
	segmentCacheCapacity = 128
}
