package scheduler

import (
	"context"
	"log"
	"time"
)

// Polling loops indefinitely with a fixed delay between iterations. It
// keeps an in-memory set of addresses already handled during this
// process's lifetime as a secondary dedup layer on top of the sheet's
// status column. The set is not persisted and resets on restart.
type Polling struct {
	delay  time.Duration
	run    PassFunc
	seen   map[string]struct{}
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPolling(delay time.Duration, run PassFunc) *Polling {
	ctx, cancel := context.WithCancel(context.Background())
	return &Polling{
		delay:  delay,
		run:    run,
		seen:   make(map[string]struct{}),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

func (s *Polling) Start() error {
	log.Printf("📅 Polling scheduler started - pass every %s", s.delay)
	go s.loop()
	return nil
}

func (s *Polling) Stop() {
	s.cancel()
	<-s.done
	log.Printf("📅 Polling scheduler stopped")
}

func (s *Polling) loop() {
	defer close(s.done)
	for {
		s.runOnce()
		select {
		case <-s.ctx.Done():
			return
		case <-time.After(s.delay):
		}
	}
}

// runOnce executes one pass and folds the successfully handled addresses
// into the seen set. Only the loop goroutine touches the set.
func (s *Polling) runOnce() {
	sum, err := s.run(s.ctx, s.alreadySeen)
	if err != nil {
		log.Printf("❌ Polling pass failed: %v", err)
		return
	}
	for _, email := range sum.SentTo {
		s.seen[email] = struct{}{}
	}
	if sum.Sent > 0 || sum.Failed > 0 {
		log.Printf("✅ Polling pass finished (sent=%d failed=%d skipped=%d)", sum.Sent, sum.Failed, sum.Skipped)
	}
}

func (s *Polling) alreadySeen(email string) bool {
	_, ok := s.seen[email]
	return ok
}
