package validation

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

var ErrFileTooLarge = errors.New("file too large")

// FileConstraints defines validation rules for file uploads.
// Nil allow-lists accept any type or extension.
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
	AllowEmpty        bool
}

// DocumentConstraints covers application documents. Transcripts and statements
// arrive in every office format, so only the size is limited.
var DocumentConstraints = FileConstraints{
	MaxSize:    10 << 20, // 10MB
	AllowEmpty: true,
}

// WithMaxSize returns a copy of c with a different size limit.
func (c FileConstraints) WithMaxSize(max int64) FileConstraints {
	c.MaxSize = max
	return c
}

// ValidateContent checks size, sniffed type and extension of an upload.
// head holds the first bytes of the file (up to 512 are used for sniffing).
// It returns the detected content type.
func ValidateContent(filename string, size int64, head []byte, constraints FileConstraints) (string, error) {
	if size > constraints.MaxSize {
		return "", fmt.Errorf("%w: maximum size is %d bytes", ErrFileTooLarge, constraints.MaxSize)
	}

	if size == 0 && !constraints.AllowEmpty {
		return "", errors.New("file is empty")
	}

	// Magic numbers cannot be faked by just changing the Content-Type header
	detected := http.DetectContentType(head)
	if constraints.AllowedMimeTypes != nil && !constraints.AllowedMimeTypes[detected] {
		return "", fmt.Errorf("invalid file type (detected: %s)", detected)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if constraints.AllowedExtensions != nil && !constraints.AllowedExtensions[ext] {
		return "", fmt.Errorf("invalid file extension: %s", ext)
	}

	return detected, nil
}
