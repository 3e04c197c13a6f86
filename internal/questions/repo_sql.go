package questions

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLRepo implements Repo on database/sql.
type SQLRepo struct {
	DB *sql.DB
}

const questionColumns = `id, document_id, question, answer, status, error_code, created_at, answered_at`

// Create inserts a new pending question.
func (r *SQLRepo) Create(ctx context.Context, q Question) error {
	const query = `
INSERT INTO questions (
    id,
    document_id,
    question,
    answer,
    status,
    error_code,
    created_at,
    answered_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	status := q.Status
	if status == "" {
		status = StatusPending
	}

	var answer sql.NullString
	if q.Answer != nil {
		answer = sql.NullString{String: *q.Answer, Valid: true}
	}
	var errorCode sql.NullString
	if q.ErrorCode != "" {
		errorCode = sql.NullString{String: q.ErrorCode, Valid: true}
	}
	var answeredAt sql.NullTime
	if q.AnsweredAt != nil {
		answeredAt = sql.NullTime{Time: *q.AnsweredAt, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		q.ID,
		q.DocumentID,
		q.Question,
		answer,
		status,
		errorCode,
		q.CreatedAt,
		answeredAt,
	)
	return err
}

// GetByID fetches a question by ID.
func (r *SQLRepo) GetByID(ctx context.Context, id string) (Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	q, err := scanQuestion(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, err
	}
	return q, nil
}

// List returns questions oldest-first, optionally scoped to one document.
func (r *SQLRepo) List(ctx context.Context, documentID string, limit, offset int) ([]Question, error) {
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + questionColumns + ` FROM questions`
	args := []any{}
	if documentID != "" {
		query += ` WHERE document_id = $1`
		args = append(args, documentID)
	}
	query += ` ORDER BY created_at ASC, id ASC`
	if limit > 0 {
		if documentID != "" {
			query += ` LIMIT $2 OFFSET $3`
		} else {
			query += ` LIMIT $1 OFFSET $2`
		}
		args = append(args, limit, offset)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// SetAnswer settles a pending question with its answer.
func (r *SQLRepo) SetAnswer(ctx context.Context, id, answer string, answeredAt time.Time) error {
	const query = `
UPDATE questions
SET answer = $1, status = $2, error_code = NULL, answered_at = $3
WHERE id = $4 AND status = $5`
	return r.settle(ctx, query, id, answer, StatusAnswered, answeredAt)
}

// MarkFailed settles a pending question with an error code and no answer.
func (r *SQLRepo) MarkFailed(ctx context.Context, id, errorCode string, failedAt time.Time) error {
	const query = `
UPDATE questions
SET answer = NULL, status = $2, error_code = $1, answered_at = $3
WHERE id = $4 AND status = $5`
	return r.settle(ctx, query, id, errorCode, StatusError, failedAt)
}

func (r *SQLRepo) settle(ctx context.Context, query, id, payload, status string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx, query, payload, status, at, id, StatusPending)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrAlreadySettled
}

// Delete removes a question.
func (r *SQLRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (Question, error) {
	var q Question
	var answer sql.NullString
	var errorCode sql.NullString
	var answeredAt sql.NullTime
	err := row.Scan(
		&q.ID,
		&q.DocumentID,
		&q.Question,
		&answer,
		&q.Status,
		&errorCode,
		&q.CreatedAt,
		&answeredAt,
	)
	if err != nil {
		return Question{}, err
	}
	if answer.Valid {
		q.Answer = &answer.String
	}
	if errorCode.Valid {
		q.ErrorCode = errorCode.String
	}
	if answeredAt.Valid {
		q.AnsweredAt = &answeredAt.Time
	}
	return q, nil
}

var _ Repo = (*SQLRepo)(nil)
