package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	runs := []*Run{
		{Filename: "a.txt", Format: "txt", Operation: "ingest", Chunks: 2, Status: "success", Timestamp: time.UnixMilli(1000)},
		{Filename: "b.pdf", Format: "pdf", Operation: "extract", Chunks: 3, Questions: 3, Valid: true, Status: "success", Timestamp: time.UnixMilli(2000)},
		{Filename: "c.doc", Operation: "ingest", Status: "error", Error: "unsupported file type", Timestamp: time.UnixMilli(3000)},
	}
	for _, r := range runs {
		if err := s.Record(ctx, r); err != nil {
			t.Fatal(err)
		}
		if r.ID == "" {
			t.Error("Record should fill ID")
		}
	}

	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d runs, want 3", len(got))
	}
	// Newest first.
	if got[0].Filename != "c.doc" {
		t.Errorf("recent[0] = %q, want c.doc", got[0].Filename)
	}
	if got[0].Status != "error" || got[0].Error != "unsupported file type" {
		t.Errorf("recent[0] error fields = %q/%q", got[0].Status, got[0].Error)
	}
	if !got[1].Valid {
		t.Error("extract run should have valid=true")
	}
}

func TestRecentLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.Record(ctx, &Run{Operation: "ingest", Status: "success"}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("got %d runs, want 2", len(got))
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("count = %d, want 5", n)
	}
}

func TestOpenAppliesPragmas(t *testing.T) {
	s := openTestStore(t)

	var mode string
	if err := s.db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatal(err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var timeout int
	if err := s.db.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout); err != nil {
		t.Fatal(err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}

func TestInitIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := s.Init(); err != nil {
		t.Errorf("second Init failed: %v", err)
	}
}
