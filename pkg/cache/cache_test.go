package cache_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sandrolain/layoutexpr/pkg/cache"
	"github.com/sandrolain/layoutexpr/pkg/parser"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

func TestCacheNew(t *testing.T) {
	c := cache.New[string](10)
	if got := c.Len(); got != 0 {
		t.Fatalf("expected empty cache, got %d", got)
	}
	if got := c.Capacity(); got != 10 {
		t.Fatalf("expected capacity 10, got %d", got)
	}
}

func TestCacheDefaultCapacity(t *testing.T) {
	c := cache.New[string](0)
	if got := c.Capacity(); got != cache.DefaultCapacity {
		t.Fatalf("expected default capacity %d, got %d", cache.DefaultCapacity, got)
	}
}

func TestCacheSetGet(t *testing.T) {
	c := cache.New[*types.Subexpression](4)
	ast := parser.ParseExpression("width / 2")
	c.Set("width / 2", ast)
	if got := c.Len(); got != 1 {
		t.Fatalf("expected 1 entry, got %d", got)
	}
	got, ok := c.Get("width / 2")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != ast {
		t.Fatal("expected same tree pointer")
	}
}

func TestCacheKeysAreLiteral(t *testing.T) {
	c := cache.New[*types.Subexpression](4)
	c.Set("a+b", parser.ParseExpression("a+b"))
	if _, ok := c.Get("a + b"); ok {
		t.Fatal("expected textually different source to miss")
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c := cache.New[int](3)
	for i, k := range []string{"a", "b", "c", "d"} {
		c.Set(k, i)
	}
	if got := c.Len(); got != 3 {
		t.Fatalf("expected 3 entries after eviction, got %d", got)
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal(`expected "a" to be evicted (LRU)`)
	}
	if _, ok := c.Get("d"); !ok {
		t.Fatal(`expected most-recently-inserted "d" to survive`)
	}
}

func TestCacheGetPromotes(t *testing.T) {
	c := cache.New[int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)
	if _, ok := c.Get("a"); !ok {
		t.Fatal(`expected recently read "a" to survive`)
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal(`expected "b" to be evicted`)
	}
}

func TestCacheInvalidateAndClear(t *testing.T) {
	c := cache.New[int](4)
	c.Set("k", 1)
	c.Invalidate("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after Invalidate")
	}

	c.Set("x", 1)
	c.Set("y", 2)
	c.Clear()
	if got := c.Len(); got != 0 {
		t.Fatalf("expected empty cache after Clear, got %d", got)
	}
}

func TestCacheGetOrParse(t *testing.T) {
	c := cache.New[*types.Subexpression](4)
	calls := 0
	parse := func() *types.Subexpression {
		calls++
		return parser.ParseExpression("1 + 2")
	}

	first := c.GetOrParse("1 + 2", parse)
	second := c.GetOrParse("1 + 2", parse)
	if first != second {
		t.Fatal("expected the cached tree on the second call")
	}
	if calls != 1 {
		t.Fatalf("expected parse to run once, ran %d times", calls)
	}
	if stats := c.Stats(); stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %+v", stats)
	}
}

func TestCacheGetOrParseConcurrent(t *testing.T) {
	c := cache.New[int](4)
	var calls atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := c.GetOrParse("key", func() int {
				calls.Add(1)
				return 42
			})
			if v != 42 {
				t.Errorf("expected 42, got %d", v)
			}
		}()
	}
	wg.Wait()
	if n := calls.Load(); n != 1 {
		t.Fatalf("expected parse to run once, ran %d times", n)
	}
}

// Run with -race: replacing a key while it is being read must not race.
func TestCacheConcurrentReplace(t *testing.T) {
	c := cache.New[int](4)
	c.Set("key", 0)
	c.Set("other", 0) // keeps "key" away from the front so Get promotes it

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set("key", n*100+j)
				c.Set("other", j)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if v, ok := c.Get("key"); !ok || v < 0 {
					t.Errorf("unexpected Get result %d, %v", v, ok)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestNoop(t *testing.T) {
	var c cache.Store[int] = cache.Noop[int]{}
	calls := 0
	for i := 0; i < 3; i++ {
		c.GetOrParse("k", func() int {
			calls++
			return 1
		})
	}
	if calls != 3 {
		t.Fatalf("expected parse on every call, got %d", calls)
	}
	c.Set("k", 1)
	if _, ok := c.Get("k"); ok || c.Len() != 0 {
		t.Fatal("expected Noop to retain nothing")
	}
}
