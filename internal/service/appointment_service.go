package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/glee_portal/internal/model"
	"github.com/Freeeeeet/glee_portal/internal/slots"
)

type AppointmentStore interface {
	GetByProviderBetween(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]*model.Appointment, error)
	GetAvailability(ctx context.Context, providerID uuid.UUID) ([]*model.ProviderAvailability, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, changedBy *uuid.UUID, changedAt time.Time) (bool, error)
}

// AppointmentService serves provider appointment availability.
type AppointmentService struct {
	store  AppointmentStore
	loc    *time.Location
	clock  func() time.Time
	logger *zap.Logger
}

func NewAppointmentService(store AppointmentStore, loc *time.Location, logger *zap.Logger) *AppointmentService {
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentService{
		store:  store,
		loc:    loc,
		clock:  time.Now,
		logger: logger,
	}
}

// Availability lists the free slots of provider on date (YYYY-MM-DD).
func (s *AppointmentService) Availability(ctx context.Context, providerID uuid.UUID, date string, slotMinutes int) ([]slots.AvailableSlot, error) {
	day, err := time.ParseInLocation(slots.DateLayout, date, s.loc)
	if err != nil {
		return nil, validationError("invalid date %q", date)
	}
	if slotMinutes < 0 {
		return nil, validationError("slot length must be positive")
	}

	windows, err := s.store.GetAvailability(ctx, providerID)
	if err != nil {
		return nil, collaboratorError("get provider availability", err)
	}

	// a day of appointments, plus the ones that started the evening before
	from := day.Add(-24 * time.Hour)
	to := day.AddDate(0, 0, 1)
	appointments, err := s.store.GetByProviderBetween(ctx, providerID, from, to)
	if err != nil {
		return nil, collaboratorError("get appointments", err)
	}

	return slots.Availability(day, windows, appointments, s.clock(), slotMinutes, s.loc), nil
}

// SetStatus changes an appointment status. Last write wins.
func (s *AppointmentService) SetStatus(ctx context.Context, actor uuid.UUID, id uuid.UUID, status string) error {
	parsed, err := model.ParseAppointmentStatus(status)
	if err != nil {
		return validationError("%v", err)
	}

	var changedBy *uuid.UUID
	if actor != uuid.Nil {
		changedBy = &actor
	}

	found, err := s.store.UpdateStatus(ctx, id, parsed, changedBy, s.clock().UTC())
	if err != nil {
		return collaboratorError("update appointment status", err)
	}
	if !found {
		return ErrNotFound
	}

	s.logger.Info("Appointment status changed",
		zap.String("appointment_id", id.String()),
		zap.String("status", string(parsed)))
	return nil
}
