package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	"docqa-backend/internal/bootstrap"
	"docqa-backend/internal/queue"
)

type fakeProcessor struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (f *fakeProcessor) ProcessQuestion(ctx context.Context, questionID string) error {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, questionID)
	return f.err
}

func TestProcessMessageInvokesProcessor(t *testing.T) {
	proc := &fakeProcessor{}
	app := &bootstrap.App{QuestionProcessor: proc}

	processMessage(context.Background(), app, queue.Message{QuestionID: "question-1", RequestID: "req-1", Version: 1})

	if len(proc.ids) != 1 || proc.ids[0] != "question-1" {
		t.Fatalf("expected one processed question, got %v", proc.ids)
	}
}

func TestProcessMessageSkipsMissingQuestionID(t *testing.T) {
	proc := &fakeProcessor{}
	app := &bootstrap.App{QuestionProcessor: proc}

	processMessage(context.Background(), app, queue.Message{RequestID: "req-2", Version: 1})

	if len(proc.ids) != 0 {
		t.Fatalf("expected no processed questions, got %v", proc.ids)
	}
}

func TestProcessMessageSurvivesProcessorError(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("boom")}
	app := &bootstrap.App{QuestionProcessor: proc}

	processMessage(context.Background(), app, queue.Message{QuestionID: "question-3"})

	if len(proc.ids) != 1 {
		t.Fatalf("expected the question to be attempted, got %v", proc.ids)
	}
}

func TestEnvIntFallsBackOnInvalid(t *testing.T) {
	t.Setenv("WORKER_CONCURRENCY", "not-a-number")
	if got := envInt("WORKER_CONCURRENCY", 4); got != 4 {
		t.Fatalf("expected default 4, got %d", got)
	}
	t.Setenv("WORKER_CONCURRENCY", "8")
	if got := envInt("WORKER_CONCURRENCY", 4); got != 8 {
		t.Fatalf("expected 8, got %d", got)
	}
}
