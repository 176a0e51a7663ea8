package cache

import "testing"

func TestCacheSetGet(t *testing.T) {
	c := New()

	c.Set("k1", "v1", "tag-a")
	got, ok := c.Get("k1")
	if !ok || got != "v1" {
		t.Errorf("Get(k1) = %v, %v; want v1, true", got, ok)
	}

	if _, ok := c.Get("ghost"); ok {
		t.Error("Get(ghost) = found, want miss")
	}
}

func TestCacheSetReplacesTags(t *testing.T) {
	c := New()

	c.Set("k1", "v1", "tag-a")
	c.Set("k1", "v2", "tag-b")

	if removed := c.Clean("tag-a"); removed != 0 {
		t.Errorf("Clean(tag-a) removed %d entries, want 0 after retag", removed)
	}
	if got, _ := c.Get("k1"); got != "v2" {
		t.Errorf("Get(k1) = %v, want v2", got)
	}
	if removed := c.Clean("tag-b"); removed != 1 {
		t.Errorf("Clean(tag-b) removed %d entries, want 1", removed)
	}
}

func TestCacheCleanRemovesAllTagged(t *testing.T) {
	c := New()

	c.Set("k1", 1, "tag-a")
	c.Set("k2", 2, "tag-a", "tag-b")
	c.Set("k3", 3, "tag-b")
	c.Set("k4", 4, "tag-c")

	removed := c.Clean("tag-a", "tag-b")
	if removed != 3 {
		t.Errorf("Clean removed %d entries, want 3", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	if _, ok := c.Get("k4"); !ok {
		t.Error("untagged entry must survive")
	}
}

func TestCacheCleanUnknownTag(t *testing.T) {
	c := New()
	c.Set("k1", 1, "tag-a")

	if removed := c.Clean("ghost"); removed != 0 {
		t.Errorf("Clean(ghost) removed %d entries, want 0", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCacheDelete(t *testing.T) {
	c := New()
	c.Set("k1", 1, "tag-a")

	c.Delete("k1")
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
	// Tag index must not leak deleted keys.
	if removed := c.Clean("tag-a"); removed != 0 {
		t.Errorf("Clean after delete removed %d entries, want 0", removed)
	}
}

func TestCachePurge(t *testing.T) {
	c := New()
	c.Set("k1", 1, "tag-a")
	c.Set("k2", 2, "tag-b")

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}
