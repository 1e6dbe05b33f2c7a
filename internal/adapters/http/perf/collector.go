// Package perf keeps a bounded in-memory history of request, query and
// outbound-call timings for the admin performance endpoint.
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

// EntryKind distinguishes what was timed.
type EntryKind uint8

const (
	KindRequest  EntryKind = iota // inbound HTTP request
	KindQuery                     // database statement
	KindOutbound                  // mail provider or drafting model call
)

// Entry is one timing record.
type Entry struct {
	Kind       EntryKind
	Path       string // "GET /api/members", "SELECT members" or "email.Send"
	StatusCode int    // HTTP status; 0 for queries and outbound calls
	DurationMs float64
	Failed     bool
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer. When full the oldest entry is overwritten.
// Aggregation happens only on read.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	total   atomic.Int64
}

// NewCollector creates a collector holding at most size entries.
// POST: size <= 0 falls back to DefaultRingSize
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores e, overwriting the oldest entry when full. Safe on a nil Collector.
func (c *Collector) Record(e Entry) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries[c.next] = e
	c.next = (c.next + 1) % len(c.entries)
	c.mu.Unlock()
	c.total.Add(1)
}

// Time records the duration of fn under path and returns fn's error.
func (c *Collector) Time(kind EntryKind, path string, fn func() error) error {
	start := time.Now()
	err := fn()
	c.Record(Entry{
		Kind:       kind,
		Path:       path,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Failed:     err != nil,
		Timestamp:  start,
	})
	return err
}

// TotalRecorded returns how many entries were ever recorded.
func (c *Collector) TotalRecorded() int64 {
	if c == nil {
		return 0
	}
	return c.total.Load()
}

// PathStat aggregates timings for one path.
type PathStat struct {
	Path     string  `json:"path"`
	Count    int     `json:"count"`
	Failures int     `json:"failures"`
	AvgMs    float64 `json:"avgMs"`
	MaxMs    float64 `json:"maxMs"`
	TotalMs  float64 `json:"totalMs"`
}

// Snapshot is the aggregated view served to administrators.
type Snapshot struct {
	Since           time.Time  `json:"since"`
	TotalRecorded   int64      `json:"totalRecorded"`
	RequestP50Ms    float64    `json:"requestP50Ms"`
	RequestP95Ms    float64    `json:"requestP95Ms"`
	RequestP99Ms    float64    `json:"requestP99Ms"`
	SlowestRequests []PathStat `json:"slowestRequests"`
	SlowestQueries  []PathStat `json:"slowestQueries"`
	SlowestOutbound []PathStat `json:"slowestOutbound"`
}

// Snapshot aggregates entries newer than since, keeping the topN slowest paths per kind.
// It sorts, so call it on demand rather than per request.
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := append([]Entry(nil), c.entries...)
	c.mu.Unlock()

	byKind := map[EntryKind]map[string]*PathStat{
		KindRequest:  {},
		KindQuery:    {},
		KindOutbound: {},
	}
	var requestMs []float64
	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		stats, ok := byKind[e.Kind]
		if !ok {
			continue
		}
		s := stats[e.Path]
		if s == nil {
			s = &PathStat{Path: e.Path}
			stats[e.Path] = s
		}
		s.Count++
		s.TotalMs += e.DurationMs
		s.MaxMs = math.Max(s.MaxMs, e.DurationMs)
		if e.Failed || e.StatusCode >= 500 {
			s.Failures++
		}
		if e.Kind == KindRequest {
			requestMs = append(requestMs, e.DurationMs)
		}
	}

	snap := Snapshot{
		Since:           since,
		TotalRecorded:   c.TotalRecorded(),
		SlowestRequests: slowest(byKind[KindRequest], topN),
		SlowestQueries:  slowest(byKind[KindQuery], topN),
		SlowestOutbound: slowest(byKind[KindOutbound], topN),
	}
	if len(requestMs) > 0 {
		sort.Float64s(requestMs)
		snap.RequestP50Ms = percentile(requestMs, 50)
		snap.RequestP95Ms = percentile(requestMs, 95)
		snap.RequestP99Ms = percentile(requestMs, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of an ascending slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo, hi := int(math.Floor(rank)), int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	w := rank - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// slowest returns up to n stats ordered by average duration, slowest first.
func slowest(stats map[string]*PathStat, n int) []PathStat {
	out := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgMs == out[j].AvgMs {
			return out[i].Path < out[j].Path
		}
		return out[i].AvgMs > out[j].AvgMs
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
