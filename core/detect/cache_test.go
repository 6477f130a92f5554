package detect

import (
	"testing"

	"github.com/leakguard/leakguard/core/findings"
)

func TestFIFOCacheEvictsOldest(t *testing.T) {
	c := newFIFOCache(2)
	c.put("a", []findings.Finding{{ID: "a"}})
	c.put("b", []findings.Finding{{ID: "b"}})
	c.put("c", []findings.Finding{{ID: "c"}})

	if _, ok := c.get("a"); ok {
		t.Error("expected oldest entry 'a' to be evicted")
	}
	if _, ok := c.get("b"); !ok {
		t.Error("expected 'b' to still be cached")
	}
	if _, ok := c.get("c"); !ok {
		t.Error("expected 'c' to still be cached")
	}
}

func TestFIFOCacheOverwriteDoesNotEvict(t *testing.T) {
	c := newFIFOCache(2)
	c.put("a", []findings.Finding{{ID: "a-v1"}})
	c.put("a", []findings.Finding{{ID: "a-v2"}})
	c.put("b", []findings.Finding{{ID: "b"}})

	v, ok := c.get("a")
	if !ok || v[0].ID != "a-v2" {
		t.Errorf("expected overwritten value a-v2, got %v (ok=%v)", v, ok)
	}
	if _, ok := c.get("b"); !ok {
		t.Error("expected 'b' to still be cached after overwriting 'a'")
	}
}

func TestCacheKeyStableForSameInput(t *testing.T) {
	k1 := cacheKey("/a.go", []byte("hello"))
	k2 := cacheKey("/a.go", []byte("hello"))
	if k1 != k2 {
		t.Error("expected cacheKey to be deterministic for the same input")
	}
}

func TestCacheKeyDiffersByContent(t *testing.T) {
	k1 := cacheKey("/a.go", []byte("hello"))
	k2 := cacheKey("/a.go", []byte("world"))
	if k1 == k2 {
		t.Error("expected cacheKey to differ for different content")
	}
}
