package documents

import "time"

// Document represents one uploaded file and its metadata.
type Document struct {
	ID               string
	FileName         string
	ContentType      string
	SizeBytes        int64
	Checksum         string
	StorageKey       string
	ExtractedTextKey string
	Status           string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// Document processing states. Transitions are monotonic:
// uploaded -> processed or uploaded -> failed, never back.
const (
	StatusUploaded  = "uploaded"
	StatusProcessed = "processed"
	StatusFailed    = "failed"
)

// ValidStatus reports whether s is a recognized document status.
func ValidStatus(s string) bool {
	switch s {
	case StatusUploaded, StatusProcessed, StatusFailed:
		return true
	default:
		return false
	}
}
