package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"livestock-records/internal/domain/records"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "herd.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStorage_RoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	if _, err := s.Load(ctx, "livestock_animals"); !errors.Is(err, records.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := s.Save(ctx, "livestock_animals", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "livestock_animals", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := s.Load(ctx, "livestock_animals")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != "[]" {
		t.Fatalf("payload = %s", got)
	}
}

func TestStorage_SaveBatch(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	entries := []records.Entry{
		{Key: "livestock_animals", Payload: []byte(`[]`)},
		{Key: "livestock_breeding", Payload: []byte(`[{"id":"b1"}]`)},
	}
	if err := s.SaveBatch(ctx, entries); err != nil {
		t.Fatalf("batch: %v", err)
	}
	for _, e := range entries {
		got, err := s.Load(ctx, e.Key)
		if err != nil {
			t.Fatalf("load %s: %v", e.Key, err)
		}
		if string(got) != string(e.Payload) {
			t.Fatalf("%s = %s", e.Key, got)
		}
	}
}

func TestStorage_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "herd.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Save(ctx, "livestock_feeding", []byte(`[{"id":"f1"}]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = s.Close()

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.Load(ctx, "livestock_feeding")
	if err != nil || string(got) != `[{"id":"f1"}]` {
		t.Fatalf("after reopen: %s %v", got, err)
	}
}
