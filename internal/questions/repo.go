package questions

import (
	"context"
	"time"
)

// Repo persists questions and their answers.
//
// List orders oldest-first by (CreatedAt, ID); documentID narrows the
// listing to one document when non-empty. SetAnswer and MarkFailed settle
// a pending question exactly once.
type Repo interface {
	Create(ctx context.Context, q Question) error
	GetByID(ctx context.Context, id string) (Question, error)
	List(ctx context.Context, documentID string, limit, offset int) ([]Question, error)
	SetAnswer(ctx context.Context, id, answer string, answeredAt time.Time) error
	MarkFailed(ctx context.Context, id, errorCode string, failedAt time.Time) error
	Delete(ctx context.Context, id string) error
}
