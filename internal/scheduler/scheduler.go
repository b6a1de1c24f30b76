package scheduler

import (
	"context"

	"ai-email-agent/internal/processor"
)

// PassFunc runs one processing pass. skip is an optional process-local
// dedup predicate (nil for none).
type PassFunc func(ctx context.Context, skip func(email string) bool) (processor.Summary, error)

// Scheduler drives passes until stopped. The two implementations are
// mutually exclusive per deployment and both guarantee that passes never
// overlap. No pass error is ever fatal to the scheduler itself.
type Scheduler interface {
	Start() error
	Stop()
}
