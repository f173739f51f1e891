package cache

import (
	"testing"
	"time"
)

func TestLRUSetGet(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v", v, ok)
	}

	// "a" was just touched, so adding "c" evicts "b".
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if c.Size() != 2 {
		t.Fatalf("Size = %d, want 2", c.Size())
	}
}

func TestLRUExpiryAndStaleRead(t *testing.T) {
	c := NewLRUCache[string](10, time.Millisecond)
	c.Set("k", "v")
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expired entry should miss on Get")
	}

	v, present, fresh := c.GetStale("k")
	if !present || fresh || v != "v" {
		t.Fatalf("GetStale = %q, present=%v, fresh=%v", v, present, fresh)
	}
}

func TestLRUCleanExpiredHonorsGrace(t *testing.T) {
	c := NewLRUCache[string](10, time.Millisecond)
	c.Set("k", "v")
	time.Sleep(5 * time.Millisecond)

	// Within the grace period the stale entry survives cleanup.
	if n := c.CleanExpired(time.Hour); n != 0 {
		t.Fatalf("CleanExpired removed %d entries within grace", n)
	}
	if _, present, _ := c.GetStale("k"); !present {
		t.Fatal("stale entry should survive cleanup within grace")
	}

	if n := c.CleanExpired(0); n != 1 {
		t.Fatalf("CleanExpired removed %d entries, want 1", n)
	}
	if _, present, _ := c.GetStale("k"); present {
		t.Fatal("entry should be gone after zero-grace cleanup")
	}
}

func TestLRUDeleteAndClear(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("deleted entry should miss")
	}

	c.Clear()
	if c.Size() != 0 {
		t.Fatalf("Size after Clear = %d", c.Size())
	}
}
