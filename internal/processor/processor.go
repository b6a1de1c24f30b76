package processor

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"ai-email-agent/internal/mailer"
	"ai-email-agent/internal/memory"
	"ai-email-agent/internal/sheet"
)

// Processor walks the sheet and drives each row through the status state
// machine: empty -> in-progress -> sent, or empty -> in-progress -> failed.
type Processor struct {
	source   sheet.Source
	composer mailer.Composer
	sender   mailer.Sender
	recorder memory.Recorder // optional; best-effort
}

// Summary reports what one pass did.
type Summary struct {
	Fetched int
	Sent    int
	Failed  int
	Skipped int
	SentTo  []string
}

func New(source sheet.Source, composer mailer.Composer, sender mailer.Sender, recorder memory.Recorder) *Processor {
	return &Processor{
		source:   source,
		composer: composer,
		sender:   sender,
		recorder: recorder,
	}
}

// Run executes one full pass over the sheet. Rows without an email address
// are skipped without a status write. Rows observed as sent or in-progress
// are skipped unconditionally. This anti-duplicate guard is advisory and
// non-atomic: a second process reading status between our read and our
// in-progress write can still double-process a row. The status column is
// the only coordination mechanism there is; a row stuck at in-progress
// after a crash needs a manual reset.
//
// A row-scoped compose/deliver failure marks the row failed and the pass
// continues. Only a row-source failure aborts the pass.
//
// skip is an optional extra predicate (the polling scheduler's
// process-local dedup set); nil means no extra filtering.
func (p *Processor) Run(ctx context.Context, skip func(email string) bool) (Summary, error) {
	log.Printf("🚀 Processing sheet once...")

	var sum Summary
	rows, err := p.source.FetchRows(ctx)
	if err != nil {
		return sum, err
	}
	sum.Fetched = len(rows)
	if len(rows) == 0 {
		log.Printf("⚠️ No data found in sheet.")
		return sum, nil
	}

	for _, row := range rows {
		if row.Email == "" {
			sum.Skipped++
			continue
		}
		if skip != nil && skip(row.Email) {
			log.Printf("⚠️ Skipping %s (already handled this run)", row.Email)
			sum.Skipped++
			continue
		}

		status, err := p.source.ReadStatus(ctx, row.Index)
		if err != nil {
			return sum, err
		}
		if status == sheet.StatusSent || status == sheet.StatusInProgress {
			log.Printf("⚠️ Skipping %s (status: %s)", row.Email, status)
			sum.Skipped++
			continue
		}

		// Mark as in progress to prevent double-send
		if err := p.source.WriteStatus(ctx, row.Index, sheet.StatusInProgress); err != nil {
			return sum, err
		}
		log.Printf("🕓 Marked %s as Sending...", row.Email)

		if err := p.sendRow(ctx, row); err != nil {
			log.Printf("❌ Failed to send to %s: %v", row.Email, err)
			p.markFailed(ctx, row)
			sum.Failed++
			continue
		}

		sentAt := time.Now()
		if err := p.source.WriteStatusWithTime(ctx, row.Index, sheet.StatusSent, sentAt); err != nil {
			log.Printf("❌ Failed to update status for %s: %v", row.Email, err)
			p.markFailed(ctx, row)
			sum.Failed++
			continue
		}
		log.Printf("✅ Updated status for %s", row.Email)

		p.remember(ctx, row.FirstName, row.LastName, row.Fruit, row.Email, sentAt)
		sum.Sent++
		sum.SentTo = append(sum.SentTo, row.Email)
	}
	return sum, nil
}

// SendDirect composes and delivers a single email outside of any sheet
// pass. Used by the control surface's sendEmail task.
func (p *Processor) SendDirect(ctx context.Context, to, firstName, lastName, fruit string) error {
	if err := p.sendRow(ctx, sheet.Row{FirstName: firstName, LastName: lastName, Fruit: fruit, Email: to}); err != nil {
		return err
	}
	p.remember(ctx, firstName, lastName, fruit, to, time.Now())
	return nil
}

func (p *Processor) sendRow(ctx context.Context, row sheet.Row) error {
	body, err := p.composer.Compose(ctx, row.FirstName, row.LastName, row.Fruit)
	if err != nil {
		return err
	}
	return p.sender.Deliver(ctx, row.Email, mailer.DefaultSubject, body)
}

func (p *Processor) markFailed(ctx context.Context, row sheet.Row) {
	if err := p.source.WriteStatus(ctx, row.Index, sheet.StatusFailed); err != nil {
		log.Printf("❌ Failed to mark %s as failed: %v", row.Email, err)
	}
}

// remember writes a best-effort memory entry. It runs only after the row's
// terminal status is already durable, and its errors are never surfaced.
func (p *Processor) remember(ctx context.Context, firstName, lastName, fruit, email string, sentAt time.Time) {
	if p.recorder == nil {
		return
	}
	entry := memory.Entry{
		ID:     strconv.FormatInt(sentAt.UnixMilli(), 10),
		Text:   fmt.Sprintf("Email sent to %s %s (%s) about %s AI Agent Workshop.", firstName, lastName, email, fruit),
		Type:   "email",
		Source: "gmail",
		Metadata: map[string]string{
			"recipient": email,
			"subject":   mailer.DefaultSubject,
			"sentAt":    sentAt.Format(time.RFC3339),
		},
		Timestamp: sentAt,
	}
	if err := p.recorder.Record(ctx, entry); err != nil {
		log.Printf("❌ Error storing memory: %v", err)
	}
}
