package model

import (
	"time"

	"github.com/google/uuid"
)

// Slot is derived on demand and never stored.
type Slot struct {
	Date           string       `json:"date"` // 2006-01-02
	Time           string       `json:"time"` // 15:04
	Start          time.Time    `json:"start"`
	End            time.Time    `json:"end"`
	IsScheduled    bool         `json:"is_scheduled"`
	Booking        *AuditionLog `json:"booking"`
	SourceWindowID uuid.UUID    `json:"source_window_id"`
}
