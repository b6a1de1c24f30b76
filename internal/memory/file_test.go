package memory

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestFileRecorderAppendAndLoad(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewFileRecorder(filepath.Join(dir, "memory.jsonl"))
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	ctx := context.Background()
	e1 := Entry{
		ID:        "1",
		Text:      "Email sent to Alice Smith (alice@example.com) about mango AI Agent Workshop.",
		Type:      "email",
		Source:    "gmail",
		Metadata:  map[string]string{"recipient": "alice@example.com"},
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	e2 := Entry{ID: "2", Text: "second", Type: "email", Source: "gmail", Timestamp: e1.Timestamp.Add(time.Minute)}

	if err := rec.Record(ctx, e1); err != nil {
		t.Fatalf("record 1: %v", err)
	}
	if err := rec.Record(ctx, e2); err != nil {
		t.Fatalf("record 2: %v", err)
	}

	entries, err := rec.LoadAll()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("want 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "1" || entries[1].ID != "2" {
		t.Fatalf("append order not preserved: %+v", entries)
	}
	if entries[0].Metadata["recipient"] != "alice@example.com" {
		t.Fatalf("metadata lost: %+v", entries[0])
	}
	if !entries[0].Timestamp.Equal(e1.Timestamp) {
		t.Fatalf("timestamp mangled: %v", entries[0].Timestamp)
	}
}

func TestFileRecorderSearchUnsupported(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewFileRecorder(filepath.Join(dir, "memory.jsonl"))
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := rec.Search(context.Background(), "anything"); !errors.Is(err, ErrSearchUnsupported) {
		t.Fatalf("want ErrSearchUnsupported, got %v", err)
	}
}
