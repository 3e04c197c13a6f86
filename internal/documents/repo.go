package documents

import (
	"context"
	"time"
)

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	// List returns documents ordered by creation time ascending.
	// limit <= 0 means no limit.
	List(ctx context.Context, limit, offset int) ([]Document, error)
	// UpdateStatus moves a document out of the uploaded state. It returns
	// ErrNotFound for unknown ids and ErrInvalidTransition when the
	// document already reached a final status.
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateExtraction(ctx context.Context, id, extractedKey string, extractedAt time.Time) error
}
