package model

import "time"

// School is one durable row in the schools table. It is created only by a
// successful ingestion, never updated in place, and destroyed only by the
// deletion pipeline.
type School struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	City      string    `json:"city" db:"city"`
	State     string    `json:"state" db:"state"`
	Contact   string    `json:"contact" db:"contact"`
	Image     string    `json:"image" db:"image"`
	EmailID   string    `json:"email_id" db:"email_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
