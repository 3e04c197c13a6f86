package questions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"docqa-backend/internal/documents"
	"docqa-backend/internal/extract"
	"docqa-backend/internal/llm"
	"docqa-backend/internal/queue"
	"docqa-backend/internal/shared/metrics"
	"docqa-backend/internal/shared/storage/object"
	"docqa-backend/internal/shared/telemetry"
)

const defaultAnswerTimeout = 60 * time.Second

// Service contains business logic for questions.
type Service struct {
	Repo    Repo
	DocRepo documents.Repo
	Store   object.ObjectStore
	LLM     llm.Client

	// Queue, when set, defers answering to a worker process. Without it
	// questions are answered synchronously within AnswerTimeout.
	Queue queue.Client

	AnswerTimeout time.Duration
}

// Ask records a question about a document and produces its answer. The
// returned bool reports whether answering was deferred to the queue; a
// deferred question comes back in the pending state.
func (s *Service) Ask(ctx context.Context, documentID, text string) (Question, bool, error) {
	text = strings.TrimSpace(text)
	if documentID == "" || text == "" {
		return Question{}, false, ErrInvalidInput
	}

	doc, err := s.DocRepo.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return Question{}, false, ErrDocumentNotFound
		}
		return Question{}, false, err
	}

	q := Question{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		Question:   text,
		Status:     StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, q); err != nil {
		return Question{}, false, err
	}
	metrics.IncQuestionStarted()

	if s.Queue != nil {
		msg := queue.Message{
			QuestionID: q.ID,
			RequestID:  requestIDFromContext(ctx),
			EnqueuedAt: q.CreatedAt.Format(time.RFC3339),
			Version:    1,
		}
		if err := s.Queue.Send(ctx, msg); err != nil {
			failed := s.fail(ctx, q, fmt.Errorf("enqueue: %w", err), nil)
			return failed, false, ErrAnswerFailed
		}
		telemetry.Info("question.enqueued", map[string]any{
			"requestId":  msg.RequestID,
			"questionId": q.ID,
			"documentId": doc.ID,
		})
		return q, true, nil
	}

	timeout := s.AnswerTimeout
	if timeout <= 0 {
		timeout = defaultAnswerTimeout
	}
	answerCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	answered, err := s.complete(answerCtx, q, doc)
	if err != nil {
		return answered, false, err
	}
	return answered, false, nil
}

// ProcessQuestion answers a previously enqueued question. Questions that
// are already settled are skipped.
func (s *Service) ProcessQuestion(ctx context.Context, questionID string) error {
	q, err := s.Repo.GetByID(ctx, questionID)
	if err != nil {
		// Deleted since enqueueing; nothing left to answer.
		if errors.Is(err, ErrNotFound) {
			telemetry.Info("question.skipped", map[string]any{
				"requestId":  requestIDFromContext(ctx),
				"questionId": questionID,
			})
			return nil
		}
		return err
	}
	if q.Status != StatusPending {
		return nil
	}

	doc, err := s.DocRepo.GetByID(ctx, q.DocumentID)
	if err != nil {
		s.fail(ctx, q, fmt.Errorf("document lookup id=%s: %w", q.DocumentID, err), nil)
		return err
	}

	timeout := s.AnswerTimeout
	if timeout <= 0 {
		timeout = defaultAnswerTimeout
	}
	answerCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := s.complete(answerCtx, q, doc); err != nil {
		return err
	}
	return nil
}

// Get returns a question by ID.
func (s *Service) Get(ctx context.Context, id string) (Question, error) {
	if id == "" {
		return Question{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns questions oldest-first. A non-empty documentID scopes the
// listing to that document and requires the document to exist.
func (s *Service) List(ctx context.Context, documentID string, limit, offset int) ([]Question, error) {
	if documentID != "" {
		if _, err := s.DocRepo.GetByID(ctx, documentID); err != nil {
			if errors.Is(err, documents.ErrNotFound) {
				return nil, ErrDocumentNotFound
			}
			return nil, err
		}
	}
	return s.Repo.List(ctx, documentID, limit, offset)
}

// Delete removes a question.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return s.Repo.Delete(ctx, id)
}

// complete produces and persists the answer for a pending question. On
// failure the question is settled in the error state and ErrAnswerFailed
// is returned alongside the settled question.
func (s *Service) complete(ctx context.Context, q Question, doc documents.Document) (Question, error) {
	startedAt := time.Now().UTC()

	if s.Store == nil || s.LLM == nil {
		return s.fail(ctx, q, errors.New("missing answering dependencies"), &startedAt), ErrAnswerFailed
	}

	text, err := s.documentText(ctx, doc)
	if err != nil {
		return s.fail(ctx, q, err, &startedAt), ErrAnswerFailed
	}

	answerer := newRetryingAnswerer(s.LLM, q.ID, requestIDFromContext(ctx))
	answer, err := answerer.Answer(ctx, llm.AnswerInput{
		DocumentText: text,
		Question:     q.Question,
	})
	if err != nil {
		return s.fail(ctx, q, fmt.Errorf("llm answer: %w", err), &startedAt), ErrAnswerFailed
	}

	answeredAt := time.Now().UTC()
	if err := s.Repo.SetAnswer(ctx, q.ID, answer, answeredAt); err != nil {
		if errors.Is(err, ErrAlreadySettled) {
			return s.Repo.GetByID(ctx, q.ID)
		}
		return s.fail(ctx, q, fmt.Errorf("store answer: %w", err), &startedAt), ErrAnswerFailed
	}

	metrics.IncQuestionAnswered()
	metrics.ObserveAnswerDuration(answeredAt.Sub(startedAt).Seconds())
	telemetry.Info("question.status", map[string]any{
		"requestId":  requestIDFromContext(ctx),
		"questionId": q.ID,
		"documentId": q.DocumentID,
		"status":     StatusAnswered,
		"durationMs": float64(answeredAt.Sub(startedAt).Microseconds()) / 1000.0,
	})

	q.Answer = &answer
	q.Status = StatusAnswered
	q.AnsweredAt = &answeredAt
	return q, nil
}

// documentText returns the extracted text of a document, extracting
// lazily when the upload-time extraction has not finished yet.
func (s *Service) documentText(ctx context.Context, doc documents.Document) (string, error) {
	if doc.Status == documents.StatusFailed {
		return "", fmt.Errorf("extract text: document %s processing failed", doc.ID)
	}

	extractedKey := doc.ExtractedTextKey
	if extractedKey == "" {
		if _, err := extract.ExtractText(ctx, s.Store, doc.StorageKey, doc.ContentType, doc.FileName); err != nil {
			return "", fmt.Errorf("extract text: document %s mime %s: %w", doc.ID, doc.ContentType, err)
		}
		extractedKey = extract.ExtractedKey(doc.StorageKey)
		if err := s.DocRepo.UpdateExtraction(ctx, doc.ID, extractedKey, time.Now().UTC()); err != nil {
			return "", fmt.Errorf("document %s: update extraction: %w", doc.ID, err)
		}
		if err := s.DocRepo.UpdateStatus(ctx, doc.ID, documents.StatusProcessed); err != nil && !errors.Is(err, documents.ErrInvalidTransition) {
			return "", fmt.Errorf("document %s: update status: %w", doc.ID, err)
		}
	}

	body, err := s.Store.Open(ctx, extractedKey)
	if err != nil {
		return "", fmt.Errorf("load extracted text: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("load extracted text: %w", err)
	}
	return string(data), nil
}

func (s *Service) fail(ctx context.Context, q Question, cause error, startedAt *time.Time) Question {
	code := classifyFailure(cause)
	failedAt := time.Now().UTC()

	if err := s.Repo.MarkFailed(context.WithoutCancel(ctx), q.ID, code, failedAt); err != nil && !errors.Is(err, ErrAlreadySettled) {
		telemetry.Error("question.fail_update", map[string]any{
			"questionId": q.ID,
			"error":      err.Error(),
		})
	}

	metrics.IncQuestionFailed(code)
	if startedAt != nil {
		metrics.ObserveAnswerDuration(failedAt.Sub(*startedAt).Seconds())
	}
	telemetry.Error("question.status", map[string]any{
		"requestId":  requestIDFromContext(ctx),
		"questionId": q.ID,
		"documentId": q.DocumentID,
		"status":     StatusError,
		"errorCode":  code,
		"error":      sanitizeError(cause),
	})

	q.Answer = nil
	q.Status = StatusError
	q.ErrorCode = code
	q.AnsweredAt = &failedAt
	return q
}

func classifyFailure(err error) string {
	if err == nil {
		return ErrorCodeInternal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorCodeLLMTimeout
	}
	if errors.Is(err, extract.ErrUnsupportedType) || errors.Is(err, extract.ErrNoText) {
		return ErrorCodeExtraction
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "openai request timeout"):
		return ErrorCodeLLMTimeout
	case strings.Contains(msg, "timeout") && strings.Contains(msg, "llm"):
		return ErrorCodeLLMTimeout
	case strings.Contains(msg, "extract text"):
		return ErrorCodeExtraction
	case strings.Contains(msg, "llm answer"):
		return ErrorCodeLLMError
	case strings.Contains(msg, "document"), strings.Contains(msg, "storage"), strings.Contains(msg, "store answer"), strings.Contains(msg, "enqueue"):
		return ErrorCodeStorage
	default:
		return ErrorCodeInternal
	}
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
