package local

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type failingReader struct {
	data []byte
	pos  int
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, errors.New("connection reset")
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
	return count
}

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())

	saved, err := store.Save(context.Background(), "notes.txt", strings.NewReader("hello world"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.SizeBytes != int64(len("hello world")) {
		t.Fatalf("unexpected size: %d", saved.SizeBytes)
	}

	body, err := store.Open(context.Background(), saved.StorageKey)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello world" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestSaveRemovesPartialFileOnReadError(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	r := &failingReader{data: []byte(strings.Repeat("a", 1024))}
	_, err := store.Save(context.Background(), "broken.txt", r)
	if err == nil {
		t.Fatal("expected save to fail")
	}

	if n := countFiles(t, dir); n != 0 {
		t.Fatalf("expected no leftover files, found %d", n)
	}
}

func TestOpenRejectsTraversalKey(t *testing.T) {
	store := New(t.TempDir())

	if _, err := store.Open(context.Background(), "../secret"); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
}
