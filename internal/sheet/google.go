package sheet

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	headerRows = 1
	dataRange  = "A2:E"
	statusCol  = "F"
	stampCol   = "G"
	// Matches the sheet owner's locale-neutral format
	stampLayout = "2006-01-02 15:04:05"
)

// GoogleSource reads and writes a Google Sheet through the Sheets v4 API
// using a service-account key.
type GoogleSource struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

func NewGoogleSource(ctx context.Context, serviceKeyJSON, spreadsheetID, sheetName string) (*GoogleSource, error) {
	creds, err := google.CredentialsFromJSON(ctx, []byte(serviceKeyJSON), sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service-account key: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &GoogleSource{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func (s *GoogleSource) FetchRows(ctx context.Context) ([]Row, error) {
	rng := fmt.Sprintf("%s!%s", s.sheetName, dataRange)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrSourceUnavailable, rng, err)
	}
	return rowsFromValues(resp.Values), nil
}

func (s *GoogleSource) ReadStatus(ctx context.Context, rowIndex int) (Status, error) {
	rng := fmt.Sprintf("%s!%s%d", s.sheetName, statusCol, rowIndex)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return StatusEmpty, fmt.Errorf("%w: read status %s: %v", ErrSourceUnavailable, rng, err)
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return StatusEmpty, nil
	}
	return ParseStatus(cellString(resp.Values[0][0])), nil
}

func (s *GoogleSource) WriteStatus(ctx context.Context, rowIndex int, status Status) error {
	rng := fmt.Sprintf("%s!%s%d", s.sheetName, statusCol, rowIndex)
	return s.update(ctx, rng, [][]interface{}{{string(status)}})
}

func (s *GoogleSource) WriteStatusWithTime(ctx context.Context, rowIndex int, status Status, t time.Time) error {
	rng := fmt.Sprintf("%s!%s%d:%s%d", s.sheetName, statusCol, rowIndex, stampCol, rowIndex)
	return s.update(ctx, rng, [][]interface{}{{string(status), t.Format(stampLayout)}})
}

func (s *GoogleSource) update(ctx context.Context, rng string, values [][]interface{}) error {
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", ErrSourceUnavailable, rng, err)
	}
	return nil
}

// rowsFromValues maps the raw A2:E value grid onto Rows. Column A is the
// sheet owner's own numbering and is ignored; the authoritative index is
// the position in the grid offset by the header row.
func rowsFromValues(values [][]interface{}) []Row {
	rows := make([]Row, 0, len(values))
	for i, v := range values {
		row := Row{Index: i + headerRows + 1}
		if len(v) > 1 {
			row.FirstName = cellString(v[1])
		}
		if len(v) > 2 {
			row.LastName = cellString(v[2])
		}
		if len(v) > 3 {
			row.Fruit = cellString(v[3])
		}
		if len(v) > 4 {
			row.Email = cellString(v[4])
		}
		rows = append(rows, row)
	}
	return rows
}

func cellString(v interface{}) string {
	s, _ := v.(string)
	return s
}
