package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// OutgoingMessage is what a Mailer hands to the delivery provider.
type OutgoingMessage struct {
	ReplyTo   string
	To        string
	Subject   string
	Text      string
	HTML      string
	MessageID string
}

type Mailer interface {
	Deliver(ctx context.Context, msg *OutgoingMessage) error
}

// ResendMailer delivers through Resend. In development it only logs.
type ResendMailer struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
}

func NewResendMailer(apiKey, fromEmail string, isDev bool) *ResendMailer {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &ResendMailer{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
	}
}

func (m *ResendMailer) Deliver(ctx context.Context, msg *OutgoingMessage) error {
	if m.isDev {
		slog.Info("email sent (dev mode)", "to", msg.To, "reply_to", msg.ReplyTo, "subject", msg.Subject, "message_id", msg.MessageID)
		return nil
	}

	if m.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    m.fromEmail,
		To:      []string{msg.To},
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
		Headers: map[string]string{"Message-ID": msg.MessageID},
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return err
	}

	slog.Info("email sent", "to", msg.To, "message_id", msg.MessageID, "provider_id", sent.Id)
	return nil
}
