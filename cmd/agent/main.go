package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ai-email-agent/internal/config"
	"ai-email-agent/internal/llm"
	"ai-email-agent/internal/mailer"
	"ai-email-agent/internal/memory"
	"ai-email-agent/internal/processor"
	"ai-email-agent/internal/scheduler"
	"ai-email-agent/internal/sheet"
	"ai-email-agent/internal/web"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	ctx := context.Background()

	source, err := sheet.NewGoogleSource(ctx, cfg.GoogleServiceKey, cfg.SpreadsheetID, cfg.SheetName)
	if err != nil {
		log.Fatalf("failed to init sheet source: %v", err)
	}

	factory := llm.NewFactory(cfg)
	llmClient, err := factory.CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	sender, err := mailer.NewGmailSender(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleTokenJSON)
	if err != nil {
		log.Fatalf("failed to init gmail sender: %v", err)
	}

	// Memory is best-effort: a backend that fails to initialize downgrades
	// to no recording rather than keeping the agent from starting.
	recorder, err := memory.NewRecorder(ctx, cfg)
	if err != nil {
		log.Printf("⚠️ Failed to init memory backend: %v", err)
	}

	proc := processor.New(source, mailer.NewLLMComposer(llmClient), sender, recorder)

	var sched scheduler.Scheduler
	switch cfg.SchedulerMode {
	case config.ModePolling:
		sched = scheduler.NewPolling(cfg.PollInterval, proc.Run)
	default:
		sched = scheduler.NewInterval(cfg.RunEveryMinutes, proc.Run)
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	var memories web.MemoryReader
	if fr, ok := recorder.(*memory.FileRecorder); ok {
		memories = fr
	}
	srv := web.NewServer(proc, memories, cfg.Port)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("control server failed: %v", err)
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	log.Printf("👋 Shutting down...")
	sched.Stop()
	if err := srv.Stop(); err != nil {
		log.Printf("control server shutdown: %v", err)
	}
}
