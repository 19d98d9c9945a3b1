package model

import (
	"time"
)

// Document is the record of an uploaded file. FilePath is the storage key of its blob.
type Document struct {
	ID          string    `db:"id" json:"id"`
	OwnerID     string    `db:"owner_id" json:"owner_id"`
	Filename    string    `db:"filename" json:"filename"`
	FilePath    string    `db:"file_path" json:"file_path"`
	Description *string   `db:"description" json:"description"`
	ContentType string    `db:"content_type" json:"content_type"`
	Size        int64     `db:"size" json:"size"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
