package documents

import "errors"

var (
	ErrNotFound          = errors.New("document not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyContent      = errors.New("uploaded content is empty")
	ErrUnknownStatus     = errors.New("unknown document status")
	ErrInvalidTransition = errors.New("invalid status transition")
)
