package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/glee_portal/internal/model"
	"github.com/Freeeeeet/glee_portal/internal/repository"
)

var errStoreDown = errors.New("store down")

type fakeWindows struct {
	windows []*model.TimeWindow
	err     error
}

func (f *fakeWindows) GetActive(ctx context.Context) ([]*model.TimeWindow, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.TimeWindow
	for _, w := range f.windows {
		if w.IsActive {
			out = append(out, w)
		}
	}
	return out, nil
}

// fakeLogs mirrors the slot guard of AuditionLogRepository.InsertIfSlotFree.
type fakeLogs struct {
	mu   sync.Mutex
	logs []*model.AuditionLog
	err  error
}

func (f *fakeLogs) GetAll(ctx context.Context) ([]*model.AuditionLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*model.AuditionLog, len(f.logs))
	copy(out, f.logs)
	return out, nil
}

func (f *fakeLogs) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.logs)), f.err
}

func (f *fakeLogs) InsertIfSlotFree(ctx context.Context, log *model.AuditionLog) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, l := range f.logs {
		if l.HoldsSlotOf(log) {
			return false, nil
		}
	}
	log.CreatedAt = time.Now()
	f.logs = append(f.logs, log)
	return true, nil
}

func (f *fakeLogs) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AuditionStatus, changedBy *uuid.UUID, changedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, l := range f.logs {
		if l.ID == id {
			l.Status = status
			l.StatusChangedBy = changedBy
			l.StatusChangedAt = &changedAt
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLogs) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for i, l := range f.logs {
		if l.ID == id {
			f.logs = append(f.logs[:i], f.logs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeLegacy struct {
	rows []*model.LegacyAudition
}

func (f *fakeLegacy) GetAll(ctx context.Context) ([]*model.LegacyAudition, error) {
	return f.rows, nil
}

type fakeMarkers struct {
	mu      sync.Mutex
	applied map[string]int
}

func (f *fakeMarkers) IsApplied(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.applied[name]
	return ok, nil
}

func (f *fakeMarkers) MarkApplied(ctx context.Context, name string, rows int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applied == nil {
		f.applied = make(map[string]int)
	}
	f.applied[name] = rows
	return nil
}

// fakeTx restores the logs and markers when fn fails.
type fakeTx struct {
	logs    *fakeLogs
	legacy  *fakeLegacy
	markers *fakeMarkers
}

func (f *fakeTx) WithTx(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepositories) error) error {
	f.logs.mu.Lock()
	logsBefore := append([]*model.AuditionLog(nil), f.logs.logs...)
	f.logs.mu.Unlock()

	f.markers.mu.Lock()
	markersBefore := make(map[string]int, len(f.markers.applied))
	for k, v := range f.markers.applied {
		markersBefore[k] = v
	}
	f.markers.mu.Unlock()

	err := fn(ctx, repository.TxRepositories{
		Legacy:     f.legacy,
		Logs:       f.logs,
		Migrations: f.markers,
	})
	if err != nil {
		f.logs.mu.Lock()
		f.logs.logs = logsBefore
		f.logs.mu.Unlock()
		f.markers.mu.Lock()
		f.markers.applied = markersBefore
		f.markers.mu.Unlock()
	}
	return err
}

type fakeAppointments struct {
	windows      []*model.ProviderAvailability
	appointments []*model.Appointment
	updated      map[uuid.UUID]model.AppointmentStatus
}

func (f *fakeAppointments) GetByProviderBetween(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range f.appointments {
		if a.ProviderID == providerID && !a.StartsAt.Before(from) && a.StartsAt.Before(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) GetAvailability(ctx context.Context, providerID uuid.UUID) ([]*model.ProviderAvailability, error) {
	var out []*model.ProviderAvailability
	for _, w := range f.windows {
		if w.ProviderID == providerID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeAppointments) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, changedBy *uuid.UUID, changedAt time.Time) (bool, error) {
	for _, a := range f.appointments {
		if a.ID == id {
			if f.updated == nil {
				f.updated = make(map[uuid.UUID]model.AppointmentStatus)
			}
			f.updated[id] = status
			a.Status = status
			return true, nil
		}
	}
	return false, nil
}
