package util

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// ChecksumWriter accumulates a SHA-256 checksum of everything written to it.
type ChecksumWriter struct {
	h hash.Hash
}

// NewChecksumWriter constructs an empty ChecksumWriter.
func NewChecksumWriter() *ChecksumWriter {
	return &ChecksumWriter{h: sha256.New()}
}

func (w *ChecksumWriter) Write(p []byte) (int, error) {
	return w.h.Write(p)
}

// Sum returns the hex-encoded checksum of the bytes written so far.
func (w *ChecksumWriter) Sum() string {
	return hex.EncodeToString(w.h.Sum(nil))
}

// ChecksumBytes returns the hex-encoded SHA-256 of data.
func ChecksumBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
