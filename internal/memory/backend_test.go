package memory

import (
	"context"
	"path/filepath"
	"testing"

	"ai-email-agent/internal/config"
)

func TestNewRecorderFileBackend(t *testing.T) {
	cfg := &config.Config{
		MemoryBackend:  config.MemoryFile,
		MemoryFilePath: filepath.Join(t.TempDir(), "memory.jsonl"),
	}
	rec, err := NewRecorder(context.Background(), cfg)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, ok := rec.(*FileRecorder); !ok {
		t.Fatalf("want *FileRecorder, got %T", rec)
	}
}

func TestNewRecorderChromaRequiresAPIKey(t *testing.T) {
	cfg := &config.Config{
		MemoryBackend:    config.MemoryChroma,
		ChromaCollection: "agent-memory",
	}
	// A chroma deployment without credentials must fail loudly, not fall
	// back to the file backend.
	if _, err := NewRecorder(context.Background(), cfg); err == nil {
		t.Fatal("want error for chroma backend without CHROMA_API_KEY")
	}
}

func TestNewRecorderUnknownBackend(t *testing.T) {
	cfg := &config.Config{MemoryBackend: "pinecone"}
	if _, err := NewRecorder(context.Background(), cfg); err == nil {
		t.Fatal("want error for unknown backend")
	}
}
