package memory

import (
	"context"
	"fmt"
	"log"
	"time"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"ai-email-agent/internal/llm"
)

// vectorIndex is the slice of the hosted index the recorder needs: upsert
// one vector with its payload, and a nearest-neighbor lookup.
type vectorIndex interface {
	Upsert(ctx context.Context, id string, vector []float32, metadata map[string]interface{}, text string) error
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
}

// ChromaRecorder stores entries in a hosted Chroma collection. Embeddings
// are derived client-side from entry text so the upsert carries
// (id, vector, metadata), and queries run a nearest-neighbor lookup over
// the same space.
type ChromaRecorder struct {
	index    vectorIndex
	embedder llm.Embedder
}

// ChromaConfig carries the hosted-index coordinates.
type ChromaConfig struct {
	APIKey     string
	Tenant     string
	Database   string
	Collection string
}

func NewChromaRecorder(ctx context.Context, cfg ChromaConfig, embedder llm.Embedder) (*ChromaRecorder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("CHROMA_API_KEY is required for the chroma memory backend")
	}

	var client chroma.Client
	var err error
	if cfg.Database != "" && cfg.Tenant != "" {
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.APIKey),
			chroma.WithDatabaseAndTenant(cfg.Database, cfg.Tenant),
		)
	} else if cfg.Tenant != "" {
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.APIKey),
			chroma.WithTenant(cfg.Tenant),
		)
	} else {
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(cfg.APIKey),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma client: %w", err)
	}

	collection, err := client.GetOrCreateCollection(ctx, cfg.Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %q: %w", cfg.Collection, err)
	}

	log.Printf("🧠 Initialized chroma memory backend with collection %q", cfg.Collection)
	return &ChromaRecorder{index: &chromaIndex{collection: collection}, embedder: embedder}, nil
}

func (r *ChromaRecorder) Record(ctx context.Context, entry Entry) error {
	vector, err := r.embedder.Embed(ctx, entry.Text)
	if err != nil {
		return fmt.Errorf("embed entry %s: %w", entry.ID, err)
	}
	return r.index.Upsert(ctx, entry.ID, vector, entryMetadata(entry), entry.Text)
}

func (r *ChromaRecorder) Search(ctx context.Context, query string) ([]Match, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return r.index.Query(ctx, vector, SearchTopK)
}

// entryMetadata flattens an entry into the metadata payload stored next to
// its vector. Custom metadata keys ride along with the fixed ones.
func entryMetadata(entry Entry) map[string]interface{} {
	md := map[string]interface{}{
		"text":      entry.Text,
		"type":      entry.Type,
		"source":    entry.Source,
		"timestamp": entry.Timestamp.Format(time.RFC3339),
	}
	for k, v := range entry.Metadata {
		md[k] = v
	}
	return md
}

// chromaIndex adapts a chroma collection to the vectorIndex the recorder
// talks to.
type chromaIndex struct {
	collection chroma.Collection
}

func (x *chromaIndex) Upsert(ctx context.Context, id string, vector []float32, md map[string]interface{}, text string) error {
	metadata, err := chroma.NewDocumentMetadataFromMap(md)
	if err != nil {
		return fmt.Errorf("build metadata for %s: %w", id, err)
	}

	err = x.collection.Upsert(
		ctx,
		chroma.WithIDs(chroma.DocumentID(id)),
		chroma.WithEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)),
		chroma.WithMetadatas(metadata),
		chroma.WithTexts(text),
	)
	if err != nil {
		return fmt.Errorf("upsert entry %s: %w", id, err)
	}
	return nil
}

func (x *chromaIndex) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	results, err := x.collection.Query(
		ctx,
		chroma.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)),
		chroma.WithNResults(topK),
	)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}
	if results == nil || results.CountGroups() == 0 {
		return []Match{}, nil
	}

	idGroups := results.GetIDGroups()
	metadataGroups := results.GetMetadatasGroups()
	documentGroups := results.GetDocumentsGroups()
	distanceGroups := results.GetDistancesGroups()
	if len(idGroups) == 0 {
		return []Match{}, nil
	}

	matches := make([]Match, 0, len(idGroups[0]))
	for i, id := range idGroups[0] {
		m := Match{ID: string(id), Metadata: map[string]string{}}
		if len(documentGroups) > 0 && i < len(documentGroups[0]) {
			m.Text = documentGroups[0][i].ContentString()
		}
		if len(metadataGroups) > 0 && i < len(metadataGroups[0]) {
			for _, key := range []string{"text", "type", "source", "timestamp", "recipient", "subject"} {
				if v, ok := metadataGroups[0][i].GetString(key); ok {
					m.Metadata[key] = v
				}
			}
		}
		if len(distanceGroups) > 0 && i < len(distanceGroups[0]) {
			m.Distance = float64(distanceGroups[0][i])
		}
		matches = append(matches, m)
	}
	return matches, nil
}
