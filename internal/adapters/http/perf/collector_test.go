package perf

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// morning records a typical opening hour at the front desk.
func morning(c *Collector, at time.Time) {
	for _, ms := range []float64{8, 12, 10} {
		c.Record(Entry{Kind: KindRequest, Path: "POST /api/checkins", StatusCode: 201, DurationMs: ms, Timestamp: at})
	}
	c.Record(Entry{Kind: KindRequest, Path: "GET /api/dashboard", StatusCode: 200, DurationMs: 40, Timestamp: at})
	c.Record(Entry{Kind: KindRequest, Path: "POST /api/payments/confirm", StatusCode: 500, DurationMs: 90, Timestamp: at})
	c.Record(Entry{Kind: KindQuery, Path: "INSERT client_checkins", DurationMs: 2, Timestamp: at})
	c.Record(Entry{Kind: KindQuery, Path: "SELECT members", DurationMs: 6, Timestamp: at})
}

func TestSnapshot_GroupsByKindAndPath(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()
	morning(c, now)

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRecorded != 7 {
		t.Errorf("TotalRecorded = %d, want 7", snap.TotalRecorded)
	}
	if len(snap.SlowestRequests) != 3 || len(snap.SlowestQueries) != 2 || len(snap.SlowestOutbound) != 0 {
		t.Fatalf("groups = %d requests, %d queries, %d outbound; want 3, 2, 0",
			len(snap.SlowestRequests), len(snap.SlowestQueries), len(snap.SlowestOutbound))
	}

	order := []string{"POST /api/payments/confirm", "GET /api/dashboard", "POST /api/checkins"}
	for i, want := range order {
		if got := snap.SlowestRequests[i].Path; got != want {
			t.Errorf("SlowestRequests[%d] = %q, want %q", i, got, want)
		}
	}
	checkins := snap.SlowestRequests[2]
	if checkins.Count != 3 || checkins.AvgMs != 10 || checkins.MaxMs != 12 || checkins.TotalMs != 30 {
		t.Errorf("check-in stat = %+v", checkins)
	}
	if snap.SlowestRequests[0].Failures != 1 {
		t.Errorf("a 500 should count as a failure: %+v", snap.SlowestRequests[0])
	}
	if snap.SlowestQueries[0].Path != "SELECT members" {
		t.Errorf("slowest query = %q", snap.SlowestQueries[0].Path)
	}
}

func TestSnapshot_TopN(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()
	morning(c, now)
	if got := len(c.Snapshot(now.Add(-time.Minute), 1).SlowestRequests); got != 1 {
		t.Errorf("topN=1 kept %d paths", got)
	}
	if got := len(c.Snapshot(now.Add(-time.Minute), 0).SlowestRequests); got != 3 {
		t.Errorf("topN=0 kept %d paths, want all 3", got)
	}
}

func TestSnapshot_Since(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()
	morning(c, now.Add(-3*time.Hour))
	c.Record(Entry{Kind: KindRequest, Path: "GET /api/session", StatusCode: 200, DurationMs: 3, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Hour), 10)
	if len(snap.SlowestRequests) != 1 || snap.SlowestRequests[0].Path != "GET /api/session" {
		t.Errorf("SlowestRequests = %+v, want only the recent session call", snap.SlowestRequests)
	}
	if len(snap.SlowestQueries) != 0 {
		t.Errorf("stale queries leaked: %+v", snap.SlowestQueries)
	}
	if snap.TotalRecorded != 8 {
		t.Errorf("TotalRecorded counts everything ever recorded: got %d", snap.TotalRecorded)
	}
}

func TestSnapshot_Percentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()
	for i := 1; i <= 101; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /api/members", DurationMs: float64(i - 1), Timestamp: now})
	}
	c.Record(Entry{Kind: KindQuery, Path: "SELECT members", DurationMs: 5000, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	for name, tc := range map[string]struct{ got, want float64 }{
		"p50": {snap.RequestP50Ms, 50},
		"p95": {snap.RequestP95Ms, 95},
		"p99": {snap.RequestP99Ms, 99},
	} {
		if tc.got != tc.want {
			t.Errorf("%s = %v, want %v (queries must not skew request percentiles)", name, tc.got, tc.want)
		}
	}
	if empty := NewCollector(4).Snapshot(now.Add(-time.Minute), 10); empty.RequestP99Ms != 0 {
		t.Errorf("empty collector p99 = %v", empty.RequestP99Ms)
	}
}

func TestRing_KeepsNewest(t *testing.T) {
	c := NewCollector(4)
	now := time.Now()
	for i := 0; i < 10; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /api/checkins", DurationMs: float64(i), Timestamp: now})
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if got := snap.SlowestRequests[0]; got.Count != 4 || got.MaxMs != 9 || got.AvgMs != 7.5 {
		t.Errorf("stat = %+v, want the last four entries (6..9)", got)
	}
	if c.TotalRecorded() != 10 {
		t.Errorf("TotalRecorded = %d, want 10", c.TotalRecorded())
	}
	if d := NewCollector(0); len(d.entries) != DefaultRingSize {
		t.Errorf("size 0 ring = %d entries, want %d", len(d.entries), DefaultRingSize)
	}
}

func TestTime_OutboundFailures(t *testing.T) {
	c := NewCollector(10)
	since := time.Now().Add(-time.Second)

	if err := c.Time(KindOutbound, "email.Send", func() error { return nil }); err != nil {
		t.Fatalf("Time returned %v", err)
	}
	bounce := errors.New("resend: 422 invalid recipient")
	if err := c.Time(KindOutbound, "email.Send", func() error { return bounce }); !errors.Is(err, bounce) {
		t.Fatalf("Time should hand back fn's error, got %v", err)
	}
	_ = c.Time(KindOutbound, "gemini.GenerateContent", func() error { return nil })

	snap := c.Snapshot(since, 10)
	stats := map[string]PathStat{}
	for _, s := range snap.SlowestOutbound {
		stats[s.Path] = s
	}
	if s := stats["email.Send"]; s.Count != 2 || s.Failures != 1 {
		t.Errorf("email.Send = %+v, want 2 calls with 1 failure", s)
	}
	if s := stats["gemini.GenerateContent"]; s.Count != 1 || s.Failures != 0 {
		t.Errorf("gemini = %+v", s)
	}
	if len(snap.SlowestRequests) != 0 {
		t.Errorf("outbound calls leaked into requests: %+v", snap.SlowestRequests)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.Record(Entry{Kind: KindRequest, Path: "GET /"})
	if err := c.Time(KindOutbound, "email.Send", func() error { return nil }); err != nil {
		t.Errorf("Time on nil collector = %v", err)
	}
	if c.TotalRecorded() != 0 {
		t.Error("nil collector should report zero")
	}
}

func TestRecord_Concurrent(t *testing.T) {
	c := NewCollector(500)
	now := time.Now()
	var wg sync.WaitGroup
	for desk := 0; desk < 50; desk++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.Record(Entry{Kind: KindRequest, Path: "POST /api/checkins", DurationMs: 1, Timestamp: now})
			}
		}()
	}
	wg.Wait()
	if c.TotalRecorded() != 1000 {
		t.Errorf("TotalRecorded = %d, want 1000", c.TotalRecorded())
	}
	if got := c.Snapshot(now.Add(-time.Minute), 1).SlowestRequests[0].Count; got != 500 {
		t.Errorf("ring kept %d entries, want its capacity 500", got)
	}
}

func BenchmarkRecord(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	e := Entry{Kind: KindRequest, Path: "GET /api/dashboard", StatusCode: 200, DurationMs: 1.5, Timestamp: time.Now()}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Record(e)
	}
}

func BenchmarkSnapshot(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	now := time.Now()
	for i := 0; i < DefaultRingSize; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /api/dashboard", StatusCode: 200, DurationMs: float64(i % 100), Timestamp: now})
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Snapshot(now.Add(-time.Hour), 10)
	}
}
