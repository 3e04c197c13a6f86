package questions

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"docqa-backend/internal/llm"
	"docqa-backend/internal/shared/telemetry"
)

const answerRetryBaseDelay = 300 * time.Millisecond

// retryingAnswerer retries a transient answering failure once before
// giving up.
type retryingAnswerer struct {
	base       llm.Client
	requestID  string
	questionID string
}

func newRetryingAnswerer(base llm.Client, questionID, requestID string) llm.Client {
	if base == nil {
		return nil
	}
	return retryingAnswerer{
		base:       base,
		requestID:  requestID,
		questionID: questionID,
	}
}

func (r retryingAnswerer) Answer(ctx context.Context, input llm.AnswerInput) (string, error) {
	answer, err := r.base.Answer(ctx, input)
	if err == nil || !shouldRetryAnswer(err) {
		return answer, err
	}

	telemetry.Info("answer.retry", map[string]any{
		"requestId":  r.requestID,
		"questionId": r.questionID,
		"error":      sanitizeError(err),
	})
	select {
	case <-time.After(answerRetryBaseDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	return r.base.Answer(ctx, input)
}

func shouldRetryAnswer(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "server_error") {
		return true
	}
	if strings.Contains(msg, "timeout") && (strings.Contains(msg, "openai") || strings.Contains(msg, "llm") || strings.Contains(msg, "client.timeout")) {
		return true
	}
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "eof") {
		return true
	}

	return false
}
