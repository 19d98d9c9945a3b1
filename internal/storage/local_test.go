package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := s.Save(ctx, "documents/u1/a.txt", strings.NewReader("hello")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "documents/u1/a.txt", strings.NewReader("again")); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	rc, err := s.Open(ctx, "documents/u1/a.txt")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "hello" {
		t.Fatalf("expected original content to survive, got %q", data)
	}

	if err := s.Delete(ctx, "documents/u1/a.txt"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Open(ctx, "documents/u1/a.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, "documents/u1/a.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	for _, p := range []string{"../outside.txt", "/etc/passwd", "documents/../../x"} {
		if err := s.Save(ctx, p, strings.NewReader("x")); err == nil {
			t.Fatalf("expected %q to be rejected", p)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocalStorageRemovesPartialWrites(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := s.Save(ctx, "documents/u1/broken.bin", failingReader{}); err == nil {
		t.Fatal("expected write failure")
	}
	if _, err := s.Open(ctx, "documents/u1/broken.bin"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected partial blob to be removed, got %v", err)
	}
}
