package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/programpal/pathfinder/internal/model"
)

var ErrProgramNotFound = errors.New("program not found")

type ProgramRepository interface {
	Create(ctx context.Context, program *model.Program) error
	ByID(ctx context.Context, ownerID, id string) (*model.Program, error)
	Programs(ctx context.Context, ownerID string, page Page) ([]*model.Program, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type programRepository struct {
	db     *sqlx.DB
	scoped scoped[model.Program]
}

func NewProgramRepository(db *sqlx.DB) ProgramRepository {
	return &programRepository{
		db: db,
		scoped: scoped[model.Program]{
			db:       db,
			table:    "programs",
			orderBy:  "created_at ASC, id ASC",
			notFound: ErrProgramNotFound,
		},
	}
}

func (r *programRepository) Create(ctx context.Context, program *model.Program) error {
	query := `INSERT INTO programs (id, owner_id, name, university, country, details, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		program.ID,
		program.OwnerID,
		program.Name,
		program.University,
		program.Country,
		program.Details,
		program.CreatedAt,
	)

	return err
}

func (r *programRepository) ByID(ctx context.Context, ownerID, id string) (*model.Program, error) {
	return r.scoped.byID(ctx, ownerID, id)
}

func (r *programRepository) Programs(ctx context.Context, ownerID string, page Page) ([]*model.Program, error) {
	return r.scoped.list(ctx, ownerID, nil, page)
}

func (r *programRepository) Delete(ctx context.Context, ownerID, id string) error {
	return r.scoped.delete(ctx, ownerID, id)
}
