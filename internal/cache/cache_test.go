package cache

import (
	"errors"
	"strconv"
	"sync"
	"testing"
)

func TestGetOrCreate(t *testing.T) {
	c := New[string, int](0, nil)
	calls := 0
	create := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrCreate("a", create)
		if err != nil || v != 42 {
			t.Fatalf("GetOrCreate() = %d, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
	if v, ok := c.Get("a"); !ok || v != 42 {
		t.Errorf("Get(a) = %d, %t", v, ok)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("Get(b) found a missing key")
	}
}

func TestGetOrCreateError(t *testing.T) {
	c := New[string, int](0, nil)
	boom := errors.New("boom")
	if _, err := c.GetOrCreate("a", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("GetOrCreate() = %v, want boom", err)
	}
	if c.Len() != 0 {
		t.Errorf("failed create was cached, Len() = %d", c.Len())
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := New[string, int](2, func(k string, _ int) {
		evicted = append(evicted, k)
	})
	put := func(k string) {
		t.Helper()
		if _, err := c.GetOrCreate(k, func() (int, error) { return len(k), nil }); err != nil {
			t.Fatal(err)
		}
	}

	put("a")
	put("b")
	c.Get("a") // b becomes the oldest
	put("c")

	if len(evicted) != 1 || evicted[0] != "b" {
		t.Fatalf("evicted = %v, want [b]", evicted)
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry a was evicted")
	}
	if c.Len() != 2 || c.Evictions() != 1 {
		t.Errorf("Len() = %d, Evictions() = %d", c.Len(), c.Evictions())
	}
}

func TestClear(t *testing.T) {
	closed := map[int]bool{}
	c := New[int, int](0, func(k, _ int) { closed[k] = true })
	for i := 0; i < 5; i++ {
		if _, err := c.GetOrCreate(i, func() (int, error) { return i, nil }); err != nil {
			t.Fatal(err)
		}
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
	if len(closed) != 5 {
		t.Errorf("Clear passed %d entries to the callback, want 5", len(closed))
	}
	if c.Evictions() != 0 {
		t.Errorf("Clear counted as %d capacity evictions", c.Evictions())
	}
}

func TestConcurrentGetOrCreate(t *testing.T) {
	c := New[string, int](8, nil)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				k := strconv.Itoa((g + i) % 16)
				v, err := c.GetOrCreate(k, func() (int, error) { return len(k), nil })
				if err != nil || v != len(k) {
					t.Errorf("GetOrCreate(%s) = %d, %v", k, v, err)
					return
				}
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > 8 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}

func BenchmarkGetOrCreateHit(b *testing.B) {
	c := New[string, int](1000, nil)
	for i := 0; i < 100; i++ {
		_, _ = c.GetOrCreate(strconv.Itoa(i), func() (int, error) { return i, nil })
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.GetOrCreate("50", func() (int, error) { return 0, nil })
	}
}
