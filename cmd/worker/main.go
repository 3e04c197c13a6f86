package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"docqa-backend/internal/bootstrap"
	"docqa-backend/internal/queue"
	"docqa-backend/internal/shared/config"
	"docqa-backend/internal/shared/metrics"
	"docqa-backend/internal/shared/telemetry"
	"docqa-backend/internal/workerproc"
)

const (
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

func main() {
	cfg := config.Load()

	if strings.TrimSpace(cfg.NATSURL) == "" {
		log.Fatal("NATS_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	concurrency := envInt("WORKER_CONCURRENCY", defaultWorkerConcurrency)
	if concurrency < 1 {
		concurrency = 1
	}
	shutdownTimeout := time.Duration(envInt("SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	sub, ok := app.Queue.(queue.Subscriber)
	if !ok {
		log.Fatal("queue client does not support subscribing")
	}
	if closer, ok := app.Queue.(interface{ Close() }); ok {
		defer closer.Close()
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	log.Printf("worker started subject=%s concurrency=%d", cfg.NATSSubject, concurrency)

	err = sub.Subscribe(ctx, func(ctx context.Context, msg queue.Message) {
		select {
		case <-ctx.Done():
			return
		case sem <- struct{}{}:
		}
		metrics.IncWorkerJobReceived()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			processMessage(ctx, app, msg)
		}()
	})
	if err != nil && ctx.Err() == nil {
		log.Printf("subscribe: %v", err)
	}

	log.Printf("shutdown requested, waiting up to %s for in-flight jobs", shutdownTimeout)
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		log.Printf("shutdown timeout reached; exiting with in-flight jobs")
	}
}

func processMessage(ctx context.Context, app *bootstrap.App, msg queue.Message) {
	if strings.TrimSpace(msg.QuestionID) == "" {
		telemetry.Error("worker.question.missing_id", baseFields(msg))
		metrics.IncWorkerJobDropped()
		return
	}

	telemetry.Info("worker.question.received", baseFields(msg))

	body, err := queue.EncodeMessage(msg)
	if err != nil {
		fields := baseFields(msg)
		fields["error"] = err.Error()
		telemetry.Error("worker.question.encode_failed", fields)
		metrics.IncWorkerJobDropped()
		return
	}

	ctxWithParsed := workerproc.WithParsedMessage(ctx, msg)
	if err := workerproc.HandleMessage(ctxWithParsed, app, string(body)); err != nil {
		fields := baseFields(msg)
		fields["error"] = err.Error()
		telemetry.Error("worker.question.failed", fields)
		metrics.IncWorkerJobFailed()
		return
	}

	telemetry.Info("worker.question.completed", baseFields(msg))
	metrics.IncWorkerJobCompleted()
}

func baseFields(msg queue.Message) map[string]any {
	fields := map[string]any{
		"questionId": msg.QuestionID,
	}
	if strings.TrimSpace(msg.RequestID) != "" {
		fields["requestId"] = msg.RequestID
	}
	if msg.EnqueuedAt != "" {
		fields["enqueuedAt"] = msg.EnqueuedAt
	}
	return fields
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
