// Package perf keeps recent request timings in memory for the operator view.
package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// Entry is one timed request.
type Entry struct {
	Route    string // "METHOD /path"
	Status   int
	Duration time.Duration
	At       time.Time
}

// Collector is a fixed-size ring buffer of entries.
// When full, the oldest entries are overwritten; aggregation happens only in Snapshot.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	pos     int
	count   atomic.Int64
}

// NewCollector creates a collector holding the last size entries.
// PRE: none; size <= 0 selects DefaultRingSize
// POST: Returns a ready-to-use collector
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record appends an entry, overwriting the oldest when full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % len(c.entries)
	c.mu.Unlock()
	c.count.Add(1)
}

// TotalRecorded returns the number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.count.Load()
}

// Snapshot is the aggregate view of entries since a point in time.
type Snapshot struct {
	Total      int64       `json:"total"`
	Requests   int         `json:"requests"`
	Errors     int         `json:"errors"`
	P50Ms      float64     `json:"p50_ms"`
	P95Ms      float64     `json:"p95_ms"`
	P99Ms      float64     `json:"p99_ms"`
	SlowRoutes []RouteStat `json:"slow_routes"`
}

// RouteStat aggregates the timings of one route.
type RouteStat struct {
	Route string  `json:"route"`
	Count int     `json:"count"`
	AvgMs float64 `json:"avg_ms"`
	MaxMs float64 `json:"max_ms"`
}

// Snapshot aggregates entries recorded at or after since.
// PRE: topN >= 0
// POST: SlowRoutes holds at most topN routes ordered by average duration, slowest first
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, len(c.entries))
	copy(buf, c.entries)
	c.mu.Unlock()

	snap := Snapshot{Total: c.TotalRecorded(), SlowRoutes: []RouteStat{}}
	var durations []float64
	totals := make(map[string]float64)
	stats := make(map[string]*RouteStat)
	for _, e := range buf {
		if e.At.IsZero() || e.At.Before(since) {
			continue
		}
		ms := float64(e.Duration.Microseconds()) / 1000.0
		durations = append(durations, ms)
		snap.Requests++
		if e.Status >= 500 {
			snap.Errors++
		}
		s, ok := stats[e.Route]
		if !ok {
			s = &RouteStat{Route: e.Route}
			stats[e.Route] = s
		}
		s.Count++
		totals[e.Route] += ms
		s.MaxMs = math.Max(s.MaxMs, ms)
	}

	for route, s := range stats {
		s.AvgMs = totals[route] / float64(s.Count)
		snap.SlowRoutes = append(snap.SlowRoutes, *s)
	}
	sort.Slice(snap.SlowRoutes, func(i, j int) bool {
		if snap.SlowRoutes[i].AvgMs == snap.SlowRoutes[j].AvgMs {
			return snap.SlowRoutes[i].Route < snap.SlowRoutes[j].Route
		}
		return snap.SlowRoutes[i].AvgMs > snap.SlowRoutes[j].AvgMs
	})
	if len(snap.SlowRoutes) > topN {
		snap.SlowRoutes = snap.SlowRoutes[:topN]
	}

	if len(durations) > 0 {
		sort.Float64s(durations)
		snap.P50Ms = percentile(durations, 50)
		snap.P95Ms = percentile(durations, 95)
		snap.P99Ms = percentile(durations, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
