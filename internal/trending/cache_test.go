package trending

import (
	"testing"
	"time"

	"github.com/solindex/trending-data/internal/model"
)

// TestCache tests single-slot freshness behavior with a fake clock.
func TestCache(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	newClockedCache := func(threshold time.Duration) (*Cache, *time.Time) {
		c := NewCache(threshold)
		now := base
		c.now = func() time.Time { return now }
		return c, &now
	}

	t.Run("empty cache", func(t *testing.T) {
		c, _ := newClockedCache(30 * time.Second)
		if _, ok := c.Get(); ok {
			t.Error("Get on empty cache should report ok=false")
		}
		if !c.ShouldRefresh() {
			t.Error("empty cache should need refresh")
		}
	})

	t.Run("fresh entry", func(t *testing.T) {
		c, now := newClockedCache(30 * time.Second)
		c.Set(model.TrendingSet{{Address: "abc"}})

		*now = base.Add(29 * time.Second)
		if c.ShouldRefresh() {
			t.Error("entry under threshold should not need refresh")
		}

		entry, ok := c.Get()
		if !ok {
			t.Fatal("Get should report ok=true")
		}
		if len(entry.Data) != 1 || entry.Data[0].Address != "abc" {
			t.Errorf("entry.Data = %v", entry.Data)
		}
		if !entry.Timestamp.Equal(base) {
			t.Errorf("Timestamp = %v, want %v", entry.Timestamp, base)
		}
	})

	t.Run("stale at exactly threshold", func(t *testing.T) {
		c, now := newClockedCache(30 * time.Second)
		c.Set(model.TrendingSet{})

		*now = base.Add(30 * time.Second)
		if !c.ShouldRefresh() {
			t.Error("entry at threshold age should need refresh")
		}
	})

	t.Run("set overwrites slot", func(t *testing.T) {
		c, now := newClockedCache(30 * time.Second)
		c.Set(model.TrendingSet{{Address: "old"}})

		*now = base.Add(10 * time.Second)
		c.Set(model.TrendingSet{{Address: "new"}})

		entry, _ := c.Get()
		if entry.Data[0].Address != "new" {
			t.Errorf("Address = %q, want %q", entry.Data[0].Address, "new")
		}
		if !entry.Timestamp.Equal(base.Add(10 * time.Second)) {
			t.Errorf("Timestamp = %v, want %v", entry.Timestamp, base.Add(10*time.Second))
		}
	})

	t.Run("zero threshold uses default", func(t *testing.T) {
		c := NewCache(0)
		if c.threshold != DefaultRefreshThreshold {
			t.Errorf("threshold = %v, want %v", c.threshold, DefaultRefreshThreshold)
		}
	})

	t.Run("empty set is still a valid entry", func(t *testing.T) {
		c, _ := newClockedCache(30 * time.Second)
		c.Set(model.TrendingSet{})

		if c.ShouldRefresh() {
			t.Error("empty but fresh set should not need refresh")
		}
		entry, ok := c.Get()
		if !ok {
			t.Fatal("Get should report ok=true")
		}
		if len(entry.Data) != 0 {
			t.Errorf("len(Data) = %d, want 0", len(entry.Data))
		}
	})
}
