package util

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeFileName(t *testing.T) {
	got, err := SanitizeFileName(" report 2024.pdf ")
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if got != "report 2024.pdf" {
		t.Fatalf("unexpected name: %q", got)
	}
}

func TestSanitizeFileNameRejectsTraversal(t *testing.T) {
	if _, err := SanitizeFileName("../../etc/passwd"); err == nil {
		t.Fatal("expected traversal to be rejected")
	}
}

func TestSanitizeFileNameTrimsOnRuneBoundary(t *testing.T) {
	name := strings.Repeat("é", 200) + ".pdf"

	got, err := SanitizeFileName(name)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if len(got) > 255 {
		t.Fatalf("name too long: %d bytes", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("trimmed name is not valid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, ".pdf") {
		t.Fatalf("extension lost: %q", got)
	}
}

func TestSanitizeFileNameReplacesSeparators(t *testing.T) {
	got, err := SanitizeFileName(`dir/sub\name.txt`)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if strings.ContainsAny(got, `/\`) {
		t.Fatalf("separators should be replaced: %q", got)
	}
}
