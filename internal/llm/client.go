package llm

import "context"

type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}

// Embedder turns free text into a fixed-length vector for similarity lookup.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
