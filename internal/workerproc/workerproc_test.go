package workerproc

import (
	"context"
	"errors"
	"testing"

	"docqa-backend/internal/bootstrap"
	"docqa-backend/internal/queue"
)

type recordingProcessor struct {
	ids []string
	err error
}

func (p *recordingProcessor) ProcessQuestion(ctx context.Context, questionID string) error {
	_ = ctx
	p.ids = append(p.ids, questionID)
	return p.err
}

func TestParseMessageRejectsEmptyBody(t *testing.T) {
	_, meta, err := ParseMessage("   ")
	var emptyErr ErrEmptyBody
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
	if meta.BodyLen != 3 {
		t.Fatalf("expected body length 3, got %d", meta.BodyLen)
	}
}

func TestParseMessageRejectsInvalidJSON(t *testing.T) {
	_, _, err := ParseMessage("{broken")
	var decodeErr ErrDecode
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestParseMessageRequiresQuestionID(t *testing.T) {
	_, _, err := ParseMessage(`{"requestId":"req-1","version":1}`)
	var missingErr ErrMissingQuestionID
	if !errors.As(err, &missingErr) {
		t.Fatalf("expected ErrMissingQuestionID, got %v", err)
	}
	if missingErr.RequestID != "req-1" {
		t.Fatalf("expected request id req-1, got %s", missingErr.RequestID)
	}
}

func TestParseMessageAcceptsValidPayload(t *testing.T) {
	body, err := queue.EncodeMessage(queue.Message{QuestionID: "question-1", RequestID: "req-1", Version: 1})
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	msg, meta, err := ParseMessage(string(body))
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if msg.QuestionID != "question-1" {
		t.Fatalf("unexpected question id: %s", msg.QuestionID)
	}
	if meta.BodySHA == "" {
		t.Fatal("expected body hash")
	}
}

func TestHandleMessageProcessesQuestion(t *testing.T) {
	proc := &recordingProcessor{}
	app := &bootstrap.App{QuestionProcessor: proc}
	body, _ := queue.EncodeMessage(queue.Message{QuestionID: "question-1", RequestID: "req-1", Version: 1})

	if err := HandleMessage(context.Background(), app, string(body)); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(proc.ids) != 1 || proc.ids[0] != "question-1" {
		t.Fatalf("expected question-1 processed, got %v", proc.ids)
	}
}

func TestHandleMessageWrapsProcessorError(t *testing.T) {
	proc := &recordingProcessor{err: errors.New("boom")}
	app := &bootstrap.App{QuestionProcessor: proc}
	body, _ := queue.EncodeMessage(queue.Message{QuestionID: "question-2", RequestID: "req-2", Version: 1})

	err := HandleMessage(context.Background(), app, string(body))
	var procErr ErrProcess
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ErrProcess, got %v", err)
	}
	if procErr.QuestionID != "question-2" {
		t.Fatalf("unexpected question id: %s", procErr.QuestionID)
	}
}

func TestHandleMessageUsesParsedMessageFromContext(t *testing.T) {
	proc := &recordingProcessor{}
	app := &bootstrap.App{QuestionProcessor: proc}

	ctx := WithParsedMessage(context.Background(), queue.Message{QuestionID: "question-3"})
	if err := HandleMessage(ctx, app, "ignored"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(proc.ids) != 1 || proc.ids[0] != "question-3" {
		t.Fatalf("expected question-3 processed, got %v", proc.ids)
	}
}
