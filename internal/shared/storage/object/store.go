package object

import (
	"context"
	"io"
)

// SavedObject describes a stored binary object.
type SavedObject struct {
	StorageKey string
	SizeBytes  int64
	MimeType   string
	Checksum   string
}

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Save(ctx context.Context, fileName string, r io.Reader) (SavedObject, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
