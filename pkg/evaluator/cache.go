package evaluator

import (
	"sync"

	"github.com/sandrolain/layoutexpr/pkg/cache"
	"github.com/sandrolain/layoutexpr/pkg/parser"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

// Capacities of the process-wide caches.
var (
	defaultCacheCapacity = 4096
	segmentCacheCapacity = 1024
)

var (
	defaultCacheOnce sync.Once
	defaultCache     *cache.LRU[*types.Subexpression]
	segmentCache     *cache.LRU[ParsedSegments]
)

// ParsedSegments is the cached split of an interpolated string.
type ParsedSegments struct {
	Segments []parser.Segment
	Err      error
}

func initDefaultCaches() {
	defaultCacheOnce.Do(func() {
		defaultCache = cache.New[*types.Subexpression](defaultCacheCapacity)
		segmentCache = cache.New[ParsedSegments](segmentCacheCapacity)
	})
}

// DefaultCache returns the process-wide parse cache used when no cache is
// configured and caching is enabled.
func DefaultCache() *cache.LRU[*types.Subexpression] {
	initDefaultCaches()
	return defaultCache
}

// DefaultSegmentCache returns the process-wide cache of parsed interpolated
// strings.
func DefaultSegmentCache() *cache.LRU[ParsedSegments] {
	initDefaultCaches()
	return segmentCache
}

// ClearCache empties the process-wide caches.
func ClearCache() {
	initDefaultCaches()
	defaultCache.Clear()
	segmentCache.Clear()
}
