package truthdare

import (
	"fmt"
	"testing"
)

func TestLRUCache_EvictsOldest(t *testing.T) {
	c := newLRUCache(3)
	c.Put("a")
	c.Put("b")
	c.Put("c")
	c.Put("d")

	if c.Contains("a") {
		t.Fatal("oldest entry must be evicted")
	}
	for _, k := range []string{"b", "c", "d"} {
		if !c.Contains(k) {
			t.Fatalf("expected %s to remain", k)
		}
	}
	if c.Len() != 3 {
		t.Fatalf("expected len 3, got %d", c.Len())
	}
}

func TestLRUCache_ContainsRefreshesRecency(t *testing.T) {
	c := newLRUCache(3)
	c.Put("a")
	c.Put("b")
	c.Put("c")

	// touching "a" makes "b" the eviction candidate
	c.Contains("a")
	c.Put("d")

	if c.Contains("b") {
		t.Fatal("expected b to be evicted")
	}
	if !c.Contains("a") {
		t.Fatal("touched entry must survive")
	}
}

func TestLRUCache_PutRefreshesWithoutGrowing(t *testing.T) {
	c := newLRUCache(3)
	c.Put("a")
	c.Put("a")
	c.Put("a")
	if c.Len() != 1 {
		t.Fatalf("expected len 1, got %d", c.Len())
	}
}

func TestLRUCache_Clear(t *testing.T) {
	c := newLRUCache(20)
	for i := 0; i < 20; i++ {
		c.Put(fmt.Sprintf("q%d", i))
	}
	c.Clear()
	if c.Len() != 0 || c.Contains("q0") {
		t.Fatal("clear must drop all entries")
	}
}
