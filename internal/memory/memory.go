package memory

import (
	"context"
	"errors"
	"time"
)

// ErrSearchUnsupported is returned by backends without a similarity index.
// It is explicit so a misconfigured deployment is not masked by silently
// empty results.
var ErrSearchUnsupported = errors.New("memory backend does not support search")

// SearchTopK bounds similarity lookups.
const SearchTopK = 10

// Entry is an immutable log record of an action taken. ID uniqueness is the
// caller's responsibility; the file backend does not enforce it.
type Entry struct {
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	Type      string            `json:"type"`   // e.g. "email"
	Source    string            `json:"source"` // e.g. "gmail"
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Match is one similarity-search result, most similar first.
type Match struct {
	ID       string
	Text     string
	Metadata map[string]string
	Distance float64
}

// Recorder is a best-effort, append-only action log. Record errors are
// expected to be logged and swallowed by callers: memory is telemetry, not
// part of the critical path, and is only written after a row's terminal
// status is durable.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	Search(ctx context.Context, query string) ([]Match, error)
}
