package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

var ErrInvalidPage = errors.New("skip must be >= 0 and limit between 1 and 500")

// Page selects a window of a listing.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) Validate() error {
	if p.Skip < 0 || p.Limit < 1 || p.Limit > MaxLimit {
		return ErrInvalidPage
	}
	return nil
}

// filter accumulates equality predicates with numbered placeholders.
type filter struct {
	clauses []string
	args    []any
}

func (f *filter) eq(column string, value any) {
	f.args = append(f.args, value)
	f.clauses = append(f.clauses, fmt.Sprintf("%s = $%d", column, len(f.args)))
}

func (f *filter) where() string {
	return strings.Join(f.clauses, " AND ")
}

// scoped is the owner-scoped core shared by every per-user table.
// Every query it builds starts with the owner_id predicate.
type scoped[T any] struct {
	db       *sqlx.DB
	table    string
	orderBy  string
	notFound error
}

func (s scoped[T]) byID(ctx context.Context, ownerID, id string) (*T, error) {
	item := new(T)
	query := `SELECT * FROM ` + s.table + ` WHERE id = $1 AND owner_id = $2`

	err := s.db.GetContext(ctx, item, query, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.notFound
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}

// list returns the owner's rows matching extra, in the table's defined order.
// extra may be nil.
func (s scoped[T]) list(ctx context.Context, ownerID string, extra func(*filter), page Page) ([]*T, error) {
	err := page.Validate()
	if err != nil {
		return nil, err
	}

	f := &filter{}
	f.eq("owner_id", ownerID)
	if extra != nil {
		extra(f)
	}

	query := fmt.Sprintf(`SELECT * FROM %s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		s.table, f.where(), s.orderBy, len(f.args)+1, len(f.args)+2)
	args := append(f.args, page.Limit, page.Skip)

	items := []*T{}
	err = s.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (s scoped[T]) delete(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM ` + s.table + ` WHERE id = $1 AND owner_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return s.notFound
	}

	return nil
}

// deleteReturning removes the row and hands back what was deleted in one statement.
func (s scoped[T]) deleteReturning(ctx context.Context, ownerID, id string) (*T, error) {
	item := new(T)
	query := `DELETE FROM ` + s.table + ` WHERE id = $1 AND owner_id = $2 RETURNING *`

	err := s.db.GetContext(ctx, item, query, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.notFound
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}
