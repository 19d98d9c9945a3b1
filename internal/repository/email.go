package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/programpal/pathfinder/internal/model"
)

var ErrEmailNotFound = errors.New("email not found")

type EmailRepository interface {
	Create(ctx context.Context, email *model.Email) error
	ByID(ctx context.Context, ownerID, id string) (*model.Email, error)
	Emails(ctx context.Context, ownerID string, filter model.EmailFilter, page Page) ([]*model.Email, error)
	UpdateStatus(ctx context.Context, ownerID, id string, update model.EmailStatusUpdate) (*model.Email, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type emailRepository struct {
	db     *sqlx.DB
	scoped scoped[model.Email]
}

func NewEmailRepository(db *sqlx.DB) EmailRepository {
	return &emailRepository{
		db: db,
		scoped: scoped[model.Email]{
			db:       db,
			table:    "emails",
			orderBy:  "received_at DESC, id ASC",
			notFound: ErrEmailNotFound,
		},
	}
}

func (r *emailRepository) Create(ctx context.Context, email *model.Email) error {
	query := `INSERT INTO emails (id, owner_id, message_id, thread_id, sender, recipient, subject, body_text, body_html,
	                              received_at, sent_at, is_read, is_draft, is_sent_by_user, folder, revision, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.db.ExecContext(ctx, query,
		email.ID,
		email.OwnerID,
		email.MessageID,
		email.ThreadID,
		email.Sender,
		email.Recipient,
		email.Subject,
		email.BodyText,
		email.BodyHTML,
		email.ReceivedAt,
		email.SentAt,
		email.IsRead,
		email.IsDraft,
		email.IsSentByUser,
		email.Folder,
		email.Revision,
		email.UpdatedAt,
	)

	return err
}

func (r *emailRepository) ByID(ctx context.Context, ownerID, id string) (*model.Email, error) {
	return r.scoped.byID(ctx, ownerID, id)
}

func (r *emailRepository) Emails(ctx context.Context, ownerID string, filter model.EmailFilter, page Page) ([]*model.Email, error) {
	return r.scoped.list(ctx, ownerID, func(f *filter) {
		if filter.Folder != nil {
			f.eq("folder", *filter.Folder)
		}
		if filter.IsRead != nil {
			f.eq("is_read", *filter.IsRead)
		}
	}, page)
}

// UpdateStatus applies the supplied fields in one conditional statement. The row
// is only written when a value actually changes; a no-op update returns the stored
// row untouched.
func (r *emailRepository) UpdateStatus(ctx context.Context, ownerID, id string, update model.EmailStatusUpdate) (*model.Email, error) {
	if update.IsEmpty() {
		return r.scoped.byID(ctx, ownerID, id)
	}

	query := `UPDATE emails
	          SET is_read = COALESCE($1, is_read), folder = COALESCE($2, folder),
	              revision = revision + 1, updated_at = $3
	          WHERE id = $4 AND owner_id = $5
	            AND (is_read <> COALESCE($1, is_read) OR folder <> COALESCE($2, folder))
	          RETURNING *`

	updated := &model.Email{}
	err := r.db.GetContext(ctx, updated, query, update.IsRead, update.Folder, time.Now().UTC(), id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		// Missing, foreign, or already in the requested state.
		return r.scoped.byID(ctx, ownerID, id)
	}
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *emailRepository) Delete(ctx context.Context, ownerID, id string) error {
	return r.scoped.delete(ctx, ownerID, id)
}
