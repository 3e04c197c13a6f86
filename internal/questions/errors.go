package questions

import "errors"

var (
	ErrNotFound         = errors.New("question not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrAnswerFailed     = errors.New("answer generation failed")
	ErrAlreadySettled   = errors.New("question already settled")
)

const (
	ErrorCodeLLMTimeout = "LLM_TIMEOUT"
	ErrorCodeLLMError   = "LLM_ERROR"
	ErrorCodeExtraction = "EXTRACTION_ERROR"
	ErrorCodeStorage    = "STORAGE_ERROR"
	ErrorCodeInternal   = "INTERNAL_ERROR"
)
