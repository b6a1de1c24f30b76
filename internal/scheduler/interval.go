package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Interval runs one pass immediately, then attempts another every fixed
// period. A tick arriving while the previous pass is still running is
// skipped entirely (single-flight), never queued.
type Interval struct {
	cron    *cron.Cron
	minutes int
	run     PassFunc
	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewInterval(minutes int, run PassFunc) *Interval {
	ctx, cancel := context.WithCancel(context.Background())
	return &Interval{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		minutes: minutes,
		run:     run,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (s *Interval) Start() error {
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %dm", s.minutes), s.tick); err != nil {
		return err
	}

	// Run once immediately, then on the interval
	s.tick()
	s.cron.Start()
	log.Printf("📅 Interval scheduler started - pass every %d minute(s)", s.minutes)
	return nil
}

func (s *Interval) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Printf("📅 Interval scheduler stopped")
}

func (s *Interval) tick() {
	if !s.running.CompareAndSwap(false, true) {
		log.Printf("⏳ Previous run still in progress. Skipping this tick.")
		return
	}
	defer s.running.Store(false)

	log.Printf("⏱️ Tick started @ %s", time.Now().UTC().Format(time.RFC3339))
	sum, err := s.run(s.ctx, nil)
	if err != nil {
		log.Printf("❌ Tick failed: %v", err)
	} else {
		log.Printf("✅ Tick finished @ %s (sent=%d failed=%d skipped=%d)",
			time.Now().UTC().Format(time.RFC3339), sum.Sent, sum.Failed, sum.Skipped)
	}
}
