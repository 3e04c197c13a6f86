package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLRepo implements Repo on database/sql. The SQL is portable across the
// supported Postgres and SQLite backends.
type SQLRepo struct {
	DB *sql.DB
}

const documentColumns = `id, file_name, content_type, size_bytes, checksum, storage_key, extracted_text_key, status, created_at, updated_at`

// Create inserts a new document.
func (r *SQLRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    file_name,
    content_type,
    size_bytes,
    checksum,
    storage_key,
    extracted_text_key,
    status,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	status := doc.Status
	if status == "" {
		status = StatusUploaded
	}
	if !ValidStatus(status) {
		return fmt.Errorf("%w: %s", ErrUnknownStatus, status)
	}

	var checksum sql.NullString
	if doc.Checksum != "" {
		checksum = sql.NullString{String: doc.Checksum, Valid: true}
	}
	var extractedKey sql.NullString
	if doc.ExtractedTextKey != "" {
		extractedKey = sql.NullString{String: doc.ExtractedTextKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.FileName,
		doc.ContentType,
		doc.SizeBytes,
		checksum,
		doc.StorageKey,
		extractedKey,
		status,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *SQLRepo) GetByID(ctx context.Context, id string) (Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// List returns documents ordered oldest-first.
func (r *SQLRepo) List(ctx context.Context, limit, offset int) ([]Document, error) {
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY created_at ASC, id ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateStatus moves a document out of the uploaded state.
func (r *SQLRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("%w: %s", ErrUnknownStatus, status)
	}
	const query = `
UPDATE documents
SET status = $1, updated_at = $2
WHERE id = $3 AND status = $4`
	res, err := r.DB.ExecContext(ctx, query, status, time.Now().UTC(), id, StatusUploaded)
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
	if status == StatusUploaded {
		return nil
	}
	return ErrInvalidTransition
}

// UpdateExtraction stores the extracted text key for a document, once.
func (r *SQLRepo) UpdateExtraction(ctx context.Context, id, extractedKey string, extractedAt time.Time) error {
	const query = `
UPDATE documents
SET extracted_text_key = $1, updated_at = $2
WHERE id = $3 AND extracted_text_key IS NULL`
	_, err := r.DB.ExecContext(ctx, query, extractedKey, extractedAt, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var checksum sql.NullString
	var extractedKey sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&doc.ID,
		&doc.FileName,
		&doc.ContentType,
		&doc.SizeBytes,
		&checksum,
		&doc.StorageKey,
		&extractedKey,
		&doc.Status,
		&doc.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	if checksum.Valid {
		doc.Checksum = checksum.String
	}
	if extractedKey.Valid {
		doc.ExtractedTextKey = extractedKey.String
	}
	if updatedAt.Valid {
		doc.UpdatedAt = &updatedAt.Time
	}
	return doc, nil
}

var _ Repo = (*SQLRepo)(nil)
