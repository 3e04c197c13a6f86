package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestStubClientAnswer(t *testing.T) {
	got, err := StubClient{}.Answer(context.Background(), AnswerInput{
		DocumentText: "ignored",
		Question:     "What is this?",
	})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !strings.Contains(got, "What is this?") {
		t.Fatalf("expected answer to echo the question, got %q", got)
	}
}

func TestStubClientConfiguredError(t *testing.T) {
	wantErr := errors.New("boom")
	if _, err := (StubClient{Err: wantErr}).Answer(context.Background(), AnswerInput{Question: "q"}); !errors.Is(err, wantErr) {
		t.Fatalf("expected configured error, got %v", err)
	}
}

func TestStubClientHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (StubClient{}).Answer(ctx, AnswerInput{Question: "q"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
