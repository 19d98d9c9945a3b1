package model

import (
	"regexp"
	"time"
)

const (
	FolderInbox   = "inbox"
	FolderSent    = "sent"
	FolderDrafts  = "drafts"
	FolderTrash   = "trash"
	FolderArchive = "archive"
	FolderSpam    = "spam"
)

var folderPattern = regexp.MustCompile(`^[a-z0-9_-]{1,50}$`)

// ValidFolder reports whether name is an acceptable folder label.
// Custom labels are allowed as long as they stay lower-case slugs.
func ValidFolder(name string) bool {
	return folderPattern.MatchString(name)
}

type Email struct {
	ID           string     `db:"id" json:"id"`
	OwnerID      string     `db:"owner_id" json:"owner_id"`
	MessageID    *string    `db:"message_id" json:"message_id"`
	ThreadID     *string    `db:"thread_id" json:"thread_id"`
	Sender       string     `db:"sender" json:"sender"`
	Recipient    string     `db:"recipient" json:"recipient"`
	Subject      *string    `db:"subject" json:"subject"`
	BodyText     *string    `db:"body_text" json:"body_text"`
	BodyHTML     *string    `db:"body_html" json:"body_html"`
	ReceivedAt   time.Time  `db:"received_at" json:"received_at"`
	SentAt       *time.Time `db:"sent_at" json:"sent_at"`
	IsRead       bool       `db:"is_read" json:"is_read"`
	IsDraft      bool       `db:"is_draft" json:"is_draft"`
	IsSentByUser bool       `db:"is_sent_by_user" json:"is_sent_by_user"`
	Folder       string     `db:"folder" json:"folder"`
	Revision     int        `db:"revision" json:"revision"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// EmailStatusUpdate carries the mutable status fields. Nil means "not supplied".
type EmailStatusUpdate struct {
	IsRead *bool   `json:"is_read"`
	Folder *string `json:"folder"`
}

func (u EmailStatusUpdate) IsEmpty() bool {
	return u.IsRead == nil && u.Folder == nil
}

// EmailFilter narrows an email listing. Nil fields are ignored.
type EmailFilter struct {
	Folder *string
	IsRead *bool
}
