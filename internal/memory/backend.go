package memory

import (
	"context"
	"fmt"

	"ai-email-agent/internal/config"
	"ai-email-agent/internal/llm"
)

// NewRecorder builds the memory backend selected by MEMORY_BACKEND. A
// misconfigured backend is an error, never a silent fallback to another
// backend.
func NewRecorder(ctx context.Context, cfg *config.Config) (Recorder, error) {
	switch cfg.MemoryBackend {
	case config.MemoryChroma:
		embedder := llm.NewOpenAIEmbedder(cfg.EmbeddingAPIKey, cfg.EmbeddingBaseURL, cfg.EmbeddingModel)
		return NewChromaRecorder(ctx, ChromaConfig{
			APIKey:     cfg.ChromaAPIKey,
			Tenant:     cfg.ChromaTenant,
			Database:   cfg.ChromaDatabase,
			Collection: cfg.ChromaCollection,
		}, embedder)
	case config.MemoryFile, "":
		return NewFileRecorder(cfg.MemoryFilePath)
	default:
		return nil, fmt.Errorf("unknown memory backend: %s", cfg.MemoryBackend)
	}
}
