package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/programpal/pathfinder/internal/model"
)

var ErrDocumentNotFound = errors.New("document not found")

type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	ByID(ctx context.Context, ownerID, id string) (*model.Document, error)
	Documents(ctx context.Context, ownerID string, page Page) ([]*model.Document, error)
	// Delete removes the record and returns it, so the caller learns the blob path.
	Delete(ctx context.Context, ownerID, id string) (*model.Document, error)
}

type documentRepository struct {
	db     *sqlx.DB
	scoped scoped[model.Document]
}

func NewDocumentRepository(db *sqlx.DB) DocumentRepository {
	return &documentRepository{
		db: db,
		scoped: scoped[model.Document]{
			db:       db,
			table:    "documents",
			orderBy:  "created_at ASC, id ASC",
			notFound: ErrDocumentNotFound,
		},
	}
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) error {
	query := `INSERT INTO documents (id, owner_id, filename, file_path, description, content_type, size, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID,
		doc.OwnerID,
		doc.Filename,
		doc.FilePath,
		doc.Description,
		doc.ContentType,
		doc.Size,
		doc.CreatedAt,
	)

	return err
}

func (r *documentRepository) ByID(ctx context.Context, ownerID, id string) (*model.Document, error) {
	return r.scoped.byID(ctx, ownerID, id)
}

func (r *documentRepository) Documents(ctx context.Context, ownerID string, page Page) ([]*model.Document, error) {
	return r.scoped.list(ctx, ownerID, nil, page)
}

func (r *documentRepository) Delete(ctx context.Context, ownerID, id string) (*model.Document, error) {
	return r.scoped.deleteReturning(ctx, ownerID, id)
}
