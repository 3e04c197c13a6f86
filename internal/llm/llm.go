// Package llm abstracts the question-answering capability. The service treats
// it as opaque: document text and a question go in, an answer string comes out.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client abstracts answering providers.
type Client interface {
	Answer(ctx context.Context, input AnswerInput) (string, error)
}

// AnswerInput captures the inputs needed to answer one question.
type AnswerInput struct {
	DocumentText string
	Question     string
}

// ErrNotConfigured is returned when no provider has been wired.
var ErrNotConfigured = errors.New("llm provider not configured")

// StubClient returns a deterministic canned answer. Used in dev and tests.
type StubClient struct {
	// Err, when set, is returned instead of an answer.
	Err error
}

// Answer produces the canned answer or the configured error.
func (s StubClient) Answer(ctx context.Context, input AnswerInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Err != nil {
		return "", s.Err
	}
	return fmt.Sprintf("This is a generated answer to your question: %s", input.Question), nil
}

var _ Client = StubClient{}
