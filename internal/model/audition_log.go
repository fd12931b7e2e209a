package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AuditionStatus string

const (
	AuditionStatusScheduled AuditionStatus = "scheduled"
	AuditionStatusCompleted AuditionStatus = "completed"
	AuditionStatusGraded    AuditionStatus = "graded"
	AuditionStatusNoShow    AuditionStatus = "no_show"
)

var auditionStatuses = map[AuditionStatus]struct{}{
	AuditionStatusScheduled: {},
	AuditionStatusCompleted: {},
	AuditionStatusGraded:    {},
	AuditionStatusNoShow:    {},
}

// ParseAuditionStatus accepts only the canonical audition vocabulary.
func ParseAuditionStatus(s string) (AuditionStatus, error) {
	status := AuditionStatus(s)
	if _, ok := auditionStatuses[status]; !ok {
		return "", fmt.Errorf("unknown audition status %q", s)
	}
	return status, nil
}

// AuditionLog is the canonical booking record for an audition slot.
type AuditionLog struct {
	ID              uuid.UUID      `json:"id"`
	WindowFamilyID  uuid.UUID      `json:"window_family_id"`
	SubjectName     string         `json:"subject_name"`
	ContactEmail    string         `json:"contact_email"`
	ContactPhone    string         `json:"contact_phone"`
	ScheduledDate   string         `json:"scheduled_date"` // 2006-01-02
	ScheduledTime   string         `json:"scheduled_time"` // 15:04, civil time of the portal timezone
	Status          AuditionStatus `json:"status"`
	StatusChangedBy *uuid.UUID     `json:"status_changed_by"`
	StatusChangedAt *time.Time     `json:"status_changed_at"`
	VoicePart       string         `json:"voice_part"`
	Notes           string         `json:"notes"`
	LegacyID        *uuid.UUID     `json:"legacy_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// cancelledStatus releases a slot. It is not part of the audition vocabulary
// but rows written by the appointment flows may carry it.
const cancelledStatus = "cancelled"

// Occupies reports whether the record holds its slot.
func (l *AuditionLog) Occupies() bool {
	return l.Status != cancelledStatus
}

// HoldsSlotOf reports whether l already holds the slot other asks for. A
// record without a window family, such as a migrated legacy row, holds its
// (date, time) in every family.
func (l *AuditionLog) HoldsSlotOf(other *AuditionLog) bool {
	if !l.Occupies() || l.ScheduledDate != other.ScheduledDate || l.ScheduledTime != other.ScheduledTime {
		return false
	}
	return l.WindowFamilyID == other.WindowFamilyID ||
		l.WindowFamilyID == uuid.Nil ||
		other.WindowFamilyID == uuid.Nil
}
