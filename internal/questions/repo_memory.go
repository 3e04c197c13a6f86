package questions

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Question
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Question),
	}
}

// Create stores a new question.
func (r *MemoryRepo) Create(ctx context.Context, q Question) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if q.Status == "" {
		q.Status = StatusPending
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[q.ID] = q
	return nil
}

// GetByID returns a question by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Question, error) {
	if err := ctx.Err(); err != nil {
		return Question{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.data[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	return q, nil
}

// List returns questions oldest-first, optionally scoped to one document.
func (r *MemoryRepo) List(ctx context.Context, documentID string, limit, offset int) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	out := make([]Question, 0, len(r.data))
	for _, q := range r.data {
		if documentID != "" && q.DocumentID != documentID {
			continue
		}
		out = append(out, q)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []Question{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

// SetAnswer settles a pending question with its answer.
func (r *MemoryRepo) SetAnswer(ctx context.Context, id, answer string, answeredAt time.Time) error {
	return r.settle(ctx, id, func(q *Question) {
		q.Answer = &answer
		q.Status = StatusAnswered
		q.ErrorCode = ""
		q.AnsweredAt = &answeredAt
	})
}

// MarkFailed settles a pending question with an error code.
func (r *MemoryRepo) MarkFailed(ctx context.Context, id, errorCode string, failedAt time.Time) error {
	return r.settle(ctx, id, func(q *Question) {
		q.Answer = nil
		q.Status = StatusError
		q.ErrorCode = errorCode
		q.AnsweredAt = &failedAt
	})
}

func (r *MemoryRepo) settle(ctx context.Context, id string, apply func(*Question)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	if q.Status != StatusPending {
		return ErrAlreadySettled
	}
	apply(&q)
	r.data[id] = q
	return nil
}

// Delete removes a question.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
