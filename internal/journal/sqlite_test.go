package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchmitchell/tracker-edge-trailer-monitor/internal/env"
)

func newTestJournal(t *testing.T) *SQLite {
	t.Helper()
	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestStoreAndRecent(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	reading := env.Environment{Temperature: 46.5, Humidity: 50}

	first := NewEvent("envtemp_h", reading, true, base)
	second := NewEvent("pwr_l", reading, false, base.Add(time.Minute))

	if err := j.Store(ctx, first); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := j.Store(ctx, second); err != nil {
		t.Fatalf("Store: %v", err)
	}

	events, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	// Newest first.
	if events[0].Trigger != "pwr_l" || events[1].Trigger != "envtemp_h" {
		t.Errorf("order: got %q, %q", events[0].Trigger, events[1].Trigger)
	}
	if events[1].Temperature != 46.5 {
		t.Errorf("temperature: got %v, want 46.5", events[1].Temperature)
	}
	if !events[1].Powered {
		t.Error("powered flag lost")
	}
	if events[0].Powered {
		t.Error("unpowered flag lost")
	}
	if !events[0].Timestamp.Equal(base.Add(time.Minute)) {
		t.Errorf("timestamp: got %v", events[0].Timestamp)
	}
	if events[0].ID == "" || events[0].ID == events[1].ID {
		t.Error("events must carry distinct non-empty ids")
	}
}

func TestRecentLimit(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		e := NewEvent("envhum_l", env.Environment{}, true, base.Add(time.Duration(i)*time.Second))
		if err := j.Store(ctx, e); err != nil {
			t.Fatalf("Store %d: %v", i, err)
		}
	}

	events, err := j.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("got %d events, want 3", len(events))
	}
}

func TestCount(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	count, err := j.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("empty journal count: got %d", count)
	}

	if err := j.Store(ctx, NewEvent("user", env.Environment{}, true, time.Now())); err != nil {
		t.Fatalf("Store: %v", err)
	}

	count, err = j.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("count: got %d, want 1", count)
	}
}

func TestCleanup(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	if err := j.Store(ctx, NewEvent("envtemp_l", env.Environment{}, true, time.Now())); err != nil {
		t.Fatalf("Store: %v", err)
	}

	// Everything was created just now, so a generous max age keeps it.
	if err := j.Cleanup(ctx, 24*time.Hour); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	count, _ := j.Count(ctx)
	if count != 1 {
		t.Errorf("count after no-op cleanup: got %d, want 1", count)
	}

	// A zero max age removes everything created before "now".
	time.Sleep(1100 * time.Millisecond)
	if err := j.Cleanup(ctx, 0); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	count, _ = j.Count(ctx)
	if count != 0 {
		t.Errorf("count after cleanup: got %d, want 0", count)
	}
}

func TestNewEventPopulatesFields(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	e := NewEvent("envtemp_h", env.Environment{Temperature: 50, Humidity: 40}, true, at)

	if e.ID == "" {
		t.Error("expected generated id")
	}
	if e.Trigger != "envtemp_h" || e.Temperature != 50 || e.Humidity != 40 || !e.Powered {
		t.Errorf("fields: %+v", e)
	}
	if !e.Timestamp.Equal(at) {
		t.Errorf("timestamp: got %v", e.Timestamp)
	}
}
