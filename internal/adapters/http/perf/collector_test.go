package perf

import (
	"sync"
	"testing"
	"time"
)

var t0 = time.Date(2024, 9, 3, 15, 0, 0, 0, time.UTC)

// TestCollector_Snapshot aggregates per route and ignores old entries.
func TestCollector_Snapshot(t *testing.T) {
	c := NewCollector(10)
	c.Record(Entry{Route: "GET /api/me", Status: 200, Duration: 10 * time.Millisecond, At: t0})
	c.Record(Entry{Route: "GET /api/me", Status: 200, Duration: 30 * time.Millisecond, At: t0})
	c.Record(Entry{Route: "POST /register", Status: 500, Duration: 100 * time.Millisecond, At: t0})
	c.Record(Entry{Route: "GET /", Status: 200, Duration: time.Second, At: t0.Add(-time.Hour)})

	snap := c.Snapshot(t0.Add(-time.Minute), 5)
	if snap.Total != 4 || snap.Requests != 3 || snap.Errors != 1 {
		t.Fatalf("counts = %+v", snap)
	}
	if len(snap.SlowRoutes) != 2 || snap.SlowRoutes[0].Route != "POST /register" {
		t.Fatalf("SlowRoutes = %+v", snap.SlowRoutes)
	}
	me := snap.SlowRoutes[1]
	if me.Count != 2 || me.AvgMs != 20 || me.MaxMs != 30 {
		t.Errorf("GET /api/me = %+v", me)
	}
	if snap.P50Ms != 30 || snap.P99Ms < 90 {
		t.Errorf("percentiles = %v / %v", snap.P50Ms, snap.P99Ms)
	}

	if top := c.Snapshot(t0.Add(-time.Minute), 1); len(top.SlowRoutes) != 1 {
		t.Errorf("topN = %d", len(top.SlowRoutes))
	}
}

// TestCollector_Overwrites keeps only the newest entries.
func TestCollector_Overwrites(t *testing.T) {
	c := NewCollector(2)
	for i := 0; i < 5; i++ {
		c.Record(Entry{Route: "GET /", Status: 200, Duration: time.Millisecond, At: t0})
	}
	snap := c.Snapshot(time.Time{}, 10)
	if snap.Total != 5 || snap.Requests != 2 {
		t.Errorf("snapshot = %+v", snap)
	}
	if empty := NewCollector(0).Snapshot(time.Time{}, 3); empty.Requests != 0 || empty.SlowRoutes == nil {
		t.Errorf("empty snapshot = %+v", empty)
	}
}

// TestCollector_Concurrent records from many goroutines.
func TestCollector_Concurrent(t *testing.T) {
	c := NewCollector(100)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Record(Entry{Route: "GET /healthz", Status: 200, Duration: time.Millisecond, At: t0})
			}
		}()
	}
	wg.Wait()
	if c.TotalRecorded() != 400 {
		t.Errorf("TotalRecorded = %d, want 400", c.TotalRecorded())
	}
}
