package model

import (
	"time"
)

type Program struct {
	ID         string    `db:"id" json:"id"`
	OwnerID    string    `db:"owner_id" json:"owner_id"`
	Name       string    `db:"name" json:"name"`
	University *string   `db:"university" json:"university"`
	Country    *string   `db:"country" json:"country"`
	Details    *string   `db:"details" json:"details"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
