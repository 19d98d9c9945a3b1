package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	// MaxCollisionSuffix is the highest "_N" tried before giving up on a name.
	MaxCollisionSuffix = 100
	maxNameBytes       = 255
	documentsPrefix    = "documents"
)

var ErrStorageExhausted = errors.New("no free file name left for this upload")

// DocumentStore places uploaded documents under a per-owner prefix and
// resolves name collisions with a bounded numeric suffix.
type DocumentStore struct {
	storage Storage
}

func NewDocumentStore(storage Storage) *DocumentStore {
	return &DocumentStore{storage: storage}
}

// Store writes content under documents/<ownerID>/ and returns the storage key.
// Uploading "a.txt" twice yields "a.txt" then "a_1.txt".
func (d *DocumentStore) Store(ctx context.Context, ownerID, filename string, content io.ReadSeeker) (string, error) {
	name := SanitizeFilename(filename)

	for n := 0; n <= MaxCollisionSuffix; n++ {
		candidate := name
		if n > 0 {
			candidate = withSuffix(name, n)
		}
		key := path.Join(documentsPrefix, ownerID, candidate)

		_, err := content.Seek(0, io.SeekStart)
		if err != nil {
			return "", fmt.Errorf("failed to rewind upload: %w", err)
		}

		err = d.storage.Save(ctx, key, content)
		if errors.Is(err, ErrExists) {
			continue
		}
		if err != nil {
			return "", err
		}
		return key, nil
	}

	slog.Error("document name collisions exhausted", "owner_id", ownerID, "filename", name)
	return "", ErrStorageExhausted
}

func (d *DocumentStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return d.storage.Open(ctx, key)
}

// Delete removes a blob. Failures are logged, never returned.
func (d *DocumentStore) Delete(ctx context.Context, key string) {
	err := d.storage.Delete(ctx, key)
	if err != nil {
		slog.Error("failed to delete document blob", "error", err, "path", key)
	}
}

// SanitizeFilename turns a client supplied name into a single safe path element.
func SanitizeFilename(name string) string {
	name = norm.NFC.String(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/', r == '\\', r == utf8.RuneError:
			b.WriteByte('_')
		case unicode.IsSpace(r), unicode.IsControl(r):
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}

	clean := b.String()
	if clean == "" || clean == "." || clean == ".." {
		return "_"
	}

	if len(clean) > maxNameBytes {
		stem, ext := splitExt(clean)
		clean = truncateUTF8(stem, maxNameBytes-len(ext)) + ext
	}
	return clean
}

// withSuffix returns stem_n.ext, trimming the stem so the result stays within maxNameBytes.
func withSuffix(name string, n int) string {
	stem, ext := splitExt(name)
	suffix := "_" + strconv.Itoa(n)
	stem = truncateUTF8(stem, maxNameBytes-len(ext)-len(suffix))
	return stem + suffix + ext
}

// splitExt splits off the last extension. Dotfiles like ".env" have no extension.
func splitExt(name string) (string, string) {
	ext := path.Ext(name)
	if ext == name || len(ext) > 32 {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

func truncateUTF8(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	s = s[:max]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
