package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/programpal/pathfinder/internal/markdown"
	"github.com/programpal/pathfinder/internal/model"
	"github.com/programpal/pathfinder/internal/repository"
	"github.com/programpal/pathfinder/internal/validation"
)

const DefaultEmailLimit = 50

// EmailInput logs or drafts a message. Owner and bookkeeping fields are server-side.
type EmailInput struct {
	Sender       string     `json:"sender"`
	Recipient    string     `json:"recipient"`
	Subject      *string    `json:"subject"`
	BodyText     *string    `json:"body_text"`
	BodyHTML     *string    `json:"body_html"`
	Folder       string     `json:"folder"`
	IsRead       bool       `json:"is_read"`
	IsDraft      bool       `json:"is_draft"`
	IsSentByUser bool       `json:"is_sent_by_user"`
	MessageID    *string    `json:"message_id"`
	ThreadID     *string    `json:"thread_id"`
	ReceivedAt   *time.Time `json:"received_at"`
}

// SendInput is an outbound message written by the caller.
type SendInput struct {
	Recipient string  `json:"recipient"`
	Subject   string  `json:"subject"`
	BodyText  string  `json:"body_text"`
	BodyHTML  *string `json:"body_html"`
	ThreadID  *string `json:"thread_id"`
}

type EmailService struct {
	emailRepository repository.EmailRepository
	mailer          Mailer
	markdown        *markdown.Parser
	messageDomain   string
}

func NewEmailService(emailRepository repository.EmailRepository, mailer Mailer, parser *markdown.Parser, messageDomain string) *EmailService {
	return &EmailService{
		emailRepository: emailRepository,
		mailer:          mailer,
		markdown:        parser,
		messageDomain:   messageDomain,
	}
}

func (s *EmailService) Create(ctx context.Context, ownerID string, in EmailInput) (*model.Email, error) {
	sender, err := validation.ValidateRequired("sender", in.Sender, 320)
	if err != nil {
		return nil, invalid(err)
	}
	recipient, err := validation.ValidateRequired("recipient", in.Recipient, 320)
	if err != nil {
		return nil, invalid(err)
	}
	subject, err := validation.ValidateOptional("subject", in.Subject, 998)
	if err != nil {
		return nil, invalid(err)
	}

	folder := strings.TrimSpace(in.Folder)
	if folder == "" {
		folder = model.FolderInbox
	}
	if !model.ValidFolder(folder) {
		return nil, invalidf("invalid folder %q", folder)
	}

	receivedAt := time.Now().UTC()
	if in.ReceivedAt != nil {
		receivedAt = in.ReceivedAt.UTC()
	}

	email := &model.Email{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		MessageID:    in.MessageID,
		ThreadID:     in.ThreadID,
		Sender:       sender,
		Recipient:    recipient,
		Subject:      subject,
		BodyText:     in.BodyText,
		BodyHTML:     in.BodyHTML,
		ReceivedAt:   receivedAt,
		IsRead:       in.IsRead,
		IsDraft:      in.IsDraft,
		IsSentByUser: in.IsSentByUser,
		Folder:       folder,
	}

	err = s.insert(ctx, email)
	if err != nil {
		return nil, err
	}

	return email, nil
}

// insert stamps bookkeeping fields and stores the message. sent_at is only
// derived here and never recomputed.
func (s *EmailService) insert(ctx context.Context, email *model.Email) error {
	if email.Folder == model.FolderSent || email.IsSentByUser {
		sentAt := email.ReceivedAt
		email.SentAt = &sentAt
	}
	email.Revision = 1
	email.UpdatedAt = email.ReceivedAt

	err := s.emailRepository.Create(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to create email: %w", err)
	}
	return nil
}

func (s *EmailService) ByID(ctx context.Context, ownerID, id string) (*model.Email, error) {
	return s.emailRepository.ByID(ctx, ownerID, id)
}

func (s *EmailService) List(ctx context.Context, ownerID string, filter model.EmailFilter, page repository.Page) ([]*model.Email, error) {
	if filter.Folder != nil && !model.ValidFolder(*filter.Folder) {
		return nil, invalidf("invalid folder %q", *filter.Folder)
	}
	if err := page.Validate(); err != nil {
		return nil, invalid(err)
	}
	return s.emailRepository.Emails(ctx, ownerID, filter, page)
}

// UpdateStatus changes read state and/or folder. At least one must be supplied.
func (s *EmailService) UpdateStatus(ctx context.Context, ownerID, id string, update model.EmailStatusUpdate) (*model.Email, error) {
	if update.IsEmpty() {
		return nil, invalidf("no fields to update")
	}
	if update.Folder != nil && !model.ValidFolder(*update.Folder) {
		return nil, invalidf("invalid folder %q", *update.Folder)
	}

	return s.emailRepository.UpdateStatus(ctx, ownerID, id, update)
}

func (s *EmailService) Delete(ctx context.Context, ownerID, id string) error {
	return s.emailRepository.Delete(ctx, ownerID, id)
}

// Send delivers a message from the caller and records it in the sent folder.
// Nothing is stored when delivery fails.
func (s *EmailService) Send(ctx context.Context, user *model.User, in SendInput) (*model.Email, error) {
	recipient := strings.TrimSpace(in.Recipient)
	err := validation.ValidateEmail(recipient)
	if err != nil {
		return nil, invalid(err)
	}
	subject, err := validation.ValidateRequired("subject", in.Subject, 998)
	if err != nil {
		return nil, invalid(err)
	}
	if strings.TrimSpace(in.BodyText) == "" {
		return nil, invalidf("body_text is required")
	}

	bodyText := in.BodyText
	var bodyHTML string
	if in.BodyHTML != nil && strings.TrimSpace(*in.BodyHTML) != "" {
		bodyHTML = *in.BodyHTML
	} else {
		bodyHTML, err = s.markdown.RenderString(bodyText)
		if err != nil {
			return nil, fmt.Errorf("failed to render message body: %w", err)
		}
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), s.messageDomain)

	err = s.mailer.Deliver(ctx, &OutgoingMessage{
		ReplyTo:   user.Email,
		To:        recipient,
		Subject:   subject,
		Text:      bodyText,
		HTML:      bodyHTML,
		MessageID: messageID,
	})
	if err != nil {
		slog.Error("failed to deliver email", "error", err, "user_id", user.ID, "to", recipient)
		return nil, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	email := &model.Email{
		ID:           uuid.New().String(),
		OwnerID:      user.ID,
		MessageID:    &messageID,
		ThreadID:     in.ThreadID,
		Sender:       user.Email,
		Recipient:    recipient,
		Subject:      &subject,
		BodyText:     &bodyText,
		BodyHTML:     &bodyHTML,
		ReceivedAt:   time.Now().UTC(),
		IsRead:       true,
		IsSentByUser: true,
		Folder:       model.FolderSent,
	}

	err = s.insert(ctx, email)
	if err != nil {
		slog.Error("email delivered but not recorded", "error", err, "user_id", user.ID, "message_id", messageID)
		return nil, err
	}

	return email, nil
}
