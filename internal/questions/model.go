package questions

import "time"

const (
	StatusPending  = "pending"
	StatusAnswered = "answered"
	StatusError    = "error"
)

// Question is a question asked about a document, together with its answer
// once one has been produced.
type Question struct {
	ID         string
	DocumentID string
	Question   string
	Answer     *string
	Status     string
	ErrorCode  string
	CreatedAt  time.Time
	AnsweredAt *time.Time
}

// ValidStatus reports whether s is a known question status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAnswered, StatusError:
		return true
	}
	return false
}
