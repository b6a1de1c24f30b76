package sheet

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrSourceUnavailable signals that the backing spreadsheet service is
// unreachable or misconfigured. It aborts the current processing pass;
// the scheduler retries on the next tick.
var ErrSourceUnavailable = errors.New("row source unavailable")

// Row is one recipient entry. Index is the 1-based sheet position
// (data starts at row 2, row 1 is the header).
type Row struct {
	Index     int
	FirstName string
	LastName  string
	Fruit     string
	Email     string
}

// Status is the persisted completion state of a row, kept in a dedicated
// column next to the data. The markers are the human-readable strings the
// sheet owner sees.
type Status string

const (
	StatusEmpty      Status = ""
	StatusInProgress Status = "🕓 Sending..."
	StatusSent       Status = "✅ Sent"
	StatusFailed     Status = "❌ Failed"
)

// ParseStatus maps a raw status cell value onto the Status domain.
// An absent or unrecognized value is StatusEmpty.
func ParseStatus(cell string) Status {
	switch {
	case strings.Contains(cell, "✅"):
		return StatusSent
	case strings.Contains(cell, "🕓"):
		return StatusInProgress
	case strings.Contains(cell, "❌"):
		return StatusFailed
	default:
		return StatusEmpty
	}
}

// Source mediates all access to the tabular recipient data and its status
// column. There are no transactions: the in-progress marker written through
// WriteStatus is an advisory lock only, and two concurrent writers can race
// on the same row.
type Source interface {
	// FetchRows returns all data rows in sheet order.
	FetchRows(ctx context.Context) ([]Row, error)
	// ReadStatus reads the status cell for a 1-based row index.
	ReadStatus(ctx context.Context, rowIndex int) (Status, error)
	// WriteStatus overwrites the status cell.
	WriteStatus(ctx context.Context, rowIndex int, status Status) error
	// WriteStatusWithTime overwrites the status cell and the adjacent
	// timestamp cell.
	WriteStatusWithTime(ctx context.Context, rowIndex int, status Status, t time.Time) error
}
