package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/programpal/pathfinder/internal/model"
	"github.com/programpal/pathfinder/internal/repository"
	"github.com/programpal/pathfinder/internal/storage"
	"github.com/programpal/pathfinder/internal/validation"
)

// UploadInput describes one uploaded file. Content must be rewindable so the
// store can retry under a different name.
type UploadInput struct {
	Filename    string
	Description *string
	Size        int64
	Content     io.ReadSeeker
}

type DocumentService struct {
	documentRepository repository.DocumentRepository
	store              *storage.DocumentStore
	constraints        validation.FileConstraints
}

func NewDocumentService(documentRepository repository.DocumentRepository, store *storage.DocumentStore, maxUploadBytes int64) *DocumentService {
	return &DocumentService{
		documentRepository: documentRepository,
		store:              store,
		constraints:        validation.DocumentConstraints.WithMaxSize(maxUploadBytes),
	}
}

// Upload validates the file, stores the blob and records it. If the record
// cannot be written the blob is removed again.
func (s *DocumentService) Upload(ctx context.Context, ownerID string, in UploadInput) (*model.Document, error) {
	filename := strings.TrimSpace(in.Filename)
	if filename == "" {
		return nil, invalidf("filename is required")
	}

	description, err := validation.ValidateOptional("description", in.Description, 1000)
	if err != nil {
		return nil, invalid(err)
	}

	// Read first 512 bytes for magic number detection
	head := make([]byte, 512)
	n, err := io.ReadFull(in.Content, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	contentType, err := validation.ValidateContent(filename, in.Size, head[:n], s.constraints)
	if err != nil {
		if errors.Is(err, validation.ErrFileTooLarge) {
			return nil, err
		}
		return nil, invalid(err)
	}

	path, err := s.store.Store(ctx, ownerID, filename, in.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &model.Document{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Filename:    filename,
		FilePath:    path,
		Description: description,
		ContentType: contentType,
		Size:        in.Size,
		CreatedAt:   time.Now().UTC(),
	}

	err = s.documentRepository.Create(ctx, doc)
	if err != nil {
		s.store.Delete(context.WithoutCancel(ctx), path)
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	return doc, nil
}

func (s *DocumentService) ByID(ctx context.Context, ownerID, id string) (*model.Document, error) {
	return s.documentRepository.ByID(ctx, ownerID, id)
}

func (s *DocumentService) List(ctx context.Context, ownerID string, page repository.Page) ([]*model.Document, error) {
	if err := page.Validate(); err != nil {
		return nil, invalid(err)
	}
	return s.documentRepository.Documents(ctx, ownerID, page)
}

// Content opens the blob of an owned document. The caller closes the reader.
func (s *DocumentService) Content(ctx context.Context, ownerID, id string) (*model.Document, io.ReadCloser, error) {
	doc, err := s.documentRepository.ByID(ctx, ownerID, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Open(ctx, doc.FilePath)
	if err != nil {
		return doc, nil, fmt.Errorf("failed to open document content: %w", err)
	}

	return doc, rc, nil
}

// Delete removes the record first, then the blob (best effort).
// A blob is therefore removed at most once, and a storage failure never
// leaves the record behind.
func (s *DocumentService) Delete(ctx context.Context, ownerID, id string) error {
	doc, err := s.documentRepository.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}

	s.store.Delete(context.WithoutCancel(ctx), doc.FilePath)
	return nil
}
