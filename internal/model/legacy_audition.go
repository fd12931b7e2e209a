package model

import (
	"time"

	"github.com/google/uuid"
)

// LegacyAudition is a row of the pre-migration gw_auditions table.
type LegacyAudition struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	AuditionDate time.Time `json:"audition_date"`
	AuditionTime string    `json:"audition_time"` // free text, e.g. "2:30 PM"
	Status       string    `json:"status"`
	VoicePart    string    `json:"voice_part"`
	CreatedAt    time.Time `json:"created_at"`
}
