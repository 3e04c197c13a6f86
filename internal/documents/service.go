package documents

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"docqa-backend/internal/extract"
	"docqa-backend/internal/shared/metrics"
	"docqa-backend/internal/shared/storage/object"
	"docqa-backend/internal/shared/telemetry"
	"docqa-backend/internal/shared/util"
)

// Service contains business logic for documents.
type Service struct {
	Store object.ObjectStore
	Repo  Repo

	// ExtractTimeout bounds the background extraction of a single upload.
	ExtractTimeout time.Duration
}

const defaultExtractTimeout = 2 * time.Minute

// Upload saves the file to object storage, records the document and kicks
// off text extraction in the background. The returned document is in the
// uploaded state.
func (s *Service) Upload(ctx context.Context, fileName string, r io.Reader) (Document, error) {
	fileName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return Document{}, ErrInvalidInput
	}

	saved, err := s.Store.Save(ctx, fileName, r)
	if err != nil {
		return Document{}, err
	}
	if saved.SizeBytes == 0 {
		return Document{}, ErrEmptyContent
	}

	doc := Document{
		ID:          uuid.NewString(),
		FileName:    fileName,
		ContentType: saved.MimeType,
		SizeBytes:   saved.SizeBytes,
		Checksum:    saved.Checksum,
		StorageKey:  saved.StorageKey,
		Status:      StatusUploaded,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	metrics.IncDocumentUploaded()
	go s.processAsync(doc)

	return doc, nil
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	if id == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns documents oldest-first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Document, error) {
	return s.Repo.List(ctx, limit, offset)
}

// processAsync extracts text from an uploaded document and settles its
// status. Runs in its own goroutine with its own timeout; the upload
// request does not wait on it.
func (s *Service) processAsync(doc Document) {
	timeout := s.ExtractTimeout
	if timeout <= 0 {
		timeout = defaultExtractTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, err := extract.ExtractText(ctx, s.Store, doc.StorageKey, doc.ContentType, doc.FileName)
	if err != nil {
		s.settle(ctx, doc, StatusFailed, err)
		return
	}

	if err := s.Repo.UpdateExtraction(ctx, doc.ID, extract.ExtractedKey(doc.StorageKey), time.Now().UTC()); err != nil {
		s.settle(ctx, doc, StatusFailed, err)
		return
	}

	s.settle(ctx, doc, StatusProcessed, nil)
}

func (s *Service) settle(ctx context.Context, doc Document, status string, cause error) {
	if err := s.Repo.UpdateStatus(ctx, doc.ID, status); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return
		}
		telemetry.Error("document.settle_failed", map[string]any{
			"documentId": doc.ID,
			"status":     status,
			"error":      err.Error(),
		})
		return
	}

	metrics.IncDocumentProcessed(status)
	fields := map[string]any{
		"documentId": doc.ID,
		"status":     status,
	}
	if cause != nil {
		fields["error"] = cause.Error()
		telemetry.Error("document.process_failed", fields)
		return
	}
	telemetry.Info("document.processed", fields)
}
