package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// ParseAppointmentStatus accepts only the appointment vocabulary.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch status := AppointmentStatus(s); status {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("unknown appointment status %q", s)
	}
}

type Appointment struct {
	ID              uuid.UUID         `json:"id"`
	ProviderID      uuid.UUID         `json:"provider_id"`
	ClientName      string            `json:"client_name"`
	ClientEmail     string            `json:"client_email"`
	ClientPhone     string            `json:"client_phone"`
	StartsAt        time.Time         `json:"starts_at"`
	DurationMinutes int               `json:"duration_minutes"`
	Status          AppointmentStatus `json:"status"`
	StatusChangedBy *uuid.UUID        `json:"status_changed_by"`
	StatusChangedAt *time.Time        `json:"status_changed_at"`
	CreatedAt       time.Time         `json:"created_at"`
}

// EndsAt returns the end of the appointment interval.
func (a *Appointment) EndsAt() time.Time {
	return a.StartsAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// ProviderAvailability is a weekly availability window of a provider, in civil time.
type ProviderAvailability struct {
	ID         uuid.UUID `json:"id"`
	ProviderID uuid.UUID `json:"provider_id"`
	Weekday    int       `json:"weekday"`    // 0 = Sunday, 6 = Saturday
	StartTime  string    `json:"start_time"` // 15:04
	EndTime    string    `json:"end_time"`   // 15:04
	IsActive   bool      `json:"is_active"`
}
