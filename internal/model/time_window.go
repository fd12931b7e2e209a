package model

import (
	"time"

	"github.com/google/uuid"
)

// TimeWindow is an availability block that slots are carved from.
type TimeWindow struct {
	ID                  uuid.UUID `json:"id"`
	FamilyID            uuid.UUID `json:"family_id"` // windows created together share a family
	StartInstant        time.Time `json:"start_instant"`
	EndInstant          time.Time `json:"end_instant"`
	SlotDurationMinutes int       `json:"slot_duration_minutes"`
	Recurrence          string    `json:"recurrence,omitempty"` // optional RRULE, DTSTART is StartInstant
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// SlotDuration returns the slot length as a time.Duration.
func (w *TimeWindow) SlotDuration() time.Duration {
	return time.Duration(w.SlotDurationMinutes) * time.Minute
}

// Family returns FamilyID, falling back to the window's own id.
func (w *TimeWindow) Family() uuid.UUID {
	if w.FamilyID == uuid.Nil {
		return w.ID
	}
	return w.FamilyID
}
