package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/glee_portal/internal/model"
	"github.com/Freeeeeet/glee_portal/internal/repository"
	"github.com/Freeeeeet/glee_portal/internal/slots"
)

// LegacyMigrationName is the data_migrations marker of the gw_auditions copy.
const LegacyMigrationName = "audition_logs_from_gw_auditions"

type WindowReader interface {
	GetActive(ctx context.Context) ([]*model.TimeWindow, error)
}

type AuditionLogStore interface {
	GetAll(ctx context.Context) ([]*model.AuditionLog, error)
	InsertIfSlotFree(ctx context.Context, log *model.AuditionLog) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AuditionStatus, changedBy *uuid.UUID, changedAt time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type AuditionService struct {
	windows   WindowReader
	logs      AuditionLogStore
	txManager repository.TxManager
	opts      slots.Options
	clock     func() time.Time
	logger    *zap.Logger
}

func NewAuditionService(
	windows WindowReader,
	logs AuditionLogStore,
	txManager repository.TxManager,
	loc *time.Location,
	horizon time.Duration,
	logger *zap.Logger,
) *AuditionService {
	if loc == nil {
		loc = time.UTC
	}
	s := &AuditionService{
		windows:   windows,
		logs:      logs,
		txManager: txManager,
		clock:     time.Now,
		logger:    logger,
	}
	s.opts = slots.Options{
		Location: loc,
		Horizon:  horizon,
		OnSkip: func(id uuid.UUID, reason string) {
			s.logger.Warn("Time window skipped",
				zap.String("window_id", id.String()),
				zap.String("reason", reason))
		},
	}
	return s
}

// Location is the civil timezone slots are sliced in.
func (s *AuditionService) Location() *time.Location {
	return s.opts.Location
}

// ReconcileReport describes one Reconcile run.
type ReconcileReport struct {
	Migrated int    `json:"migrated"`
	Skipped  int    `json:"skipped"`
	Reason   string `json:"reason,omitempty"`
}

// Reconcile copies gw_auditions into audition_logs once. The copy and its
// marker row commit together, so a second run is a no-op. An empty legacy
// table leaves no marker. An unknown legacy status or time aborts the whole
// copy. Rows that collide on a slot are skipped and logged.
func (s *AuditionService) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		applied, err := repos.Migrations.IsApplied(ctx, LegacyMigrationName)
		if err != nil {
			return collaboratorError("check migration marker", err)
		}
		if applied {
			report.Reason = "already applied"
			return nil
		}

		existing, err := repos.Logs.Count(ctx)
		if err != nil {
			return collaboratorError("count audition logs", err)
		}
		if existing > 0 {
			report.Reason = "audition logs not empty"
			if err := repos.Migrations.MarkApplied(ctx, LegacyMigrationName, 0); err != nil {
				return collaboratorError("mark migration", err)
			}
			return nil
		}

		legacy, err := repos.Legacy.GetAll(ctx)
		if err != nil {
			return collaboratorError("read legacy auditions", err)
		}
		if len(legacy) == 0 {
			// nothing to copy yet, a later run may still migrate
			report.Reason = "no legacy auditions"
			return nil
		}

		logs := make([]*model.AuditionLog, 0, len(legacy))
		for _, a := range legacy {
			l, err := s.fromLegacy(a)
			if err != nil {
				return err
			}
			logs = append(logs, l)
		}

		for _, l := range logs {
			inserted, err := repos.Logs.InsertIfSlotFree(ctx, l)
			if err != nil {
				return collaboratorError("insert audition log", err)
			}
			if inserted {
				report.Migrated++
				continue
			}
			report.Skipped++
			s.logger.Warn("Legacy audition skipped, slot already held",
				zap.String("legacy_id", l.LegacyID.String()),
				zap.String("date", l.ScheduledDate),
				zap.String("time", l.ScheduledTime))
		}

		if err := repos.Migrations.MarkApplied(ctx, LegacyMigrationName, report.Migrated); err != nil {
			return collaboratorError("mark migration", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Legacy audition migration failed", zap.Error(err))
		return ReconcileReport{}, err
	}

	s.logger.Info("Legacy audition migration finished",
		zap.Int("migrated", report.Migrated),
		zap.Int("skipped", report.Skipped),
		zap.String("reason", report.Reason))

	return report, nil
}

func (s *AuditionService) fromLegacy(a *model.LegacyAudition) (*model.AuditionLog, error) {
	status, err := TranslateLegacyStatus(a.Status)
	if err != nil {
		return nil, err
	}

	clock, err := slots.NormalizeClock(a.AuditionTime)
	if err != nil {
		return nil, validationError("legacy audition %s: %v", a.ID, err)
	}

	legacyID := a.ID
	return &model.AuditionLog{
		ID:            uuid.New(),
		SubjectName:   a.FullName,
		ContactEmail:  a.Email,
		ContactPhone:  a.Phone,
		ScheduledDate: a.AuditionDate.In(s.opts.Location).Format(slots.DateLayout),
		ScheduledTime: clock,
		Status:        status,
		VoicePart:     a.VoicePart,
		LegacyID:      &legacyID,
	}, nil
}

// Lattice returns the sorted slot lattice of the active windows.
func (s *AuditionService) Lattice(ctx context.Context) ([]model.Slot, error) {
	windows, err := s.windows.GetActive(ctx)
	if err != nil {
		return nil, collaboratorError("get active windows", err)
	}

	logs, err := s.logs.GetAll(ctx)
	if err != nil {
		return nil, collaboratorError("get audition logs", err)
	}

	return slots.Lattice(windows, logs, s.opts), nil
}

// SetStatus changes the status of one audition log and returns a fresh lattice.
// Concurrent changes are last-write-wins.
func (s *AuditionService) SetStatus(ctx context.Context, actor uuid.UUID, id uuid.UUID, status string) ([]model.Slot, error) {
	parsed, err := model.ParseAuditionStatus(status)
	if err != nil {
		return nil, validationError("%v", err)
	}

	var changedBy *uuid.UUID
	if actor != uuid.Nil {
		changedBy = &actor
	}

	found, err := s.logs.UpdateStatus(ctx, id, parsed, changedBy, s.clock().UTC())
	if err != nil {
		return nil, collaboratorError("update audition status", err)
	}
	if !found {
		return nil, ErrNotFound
	}

	s.logger.Info("Audition status changed",
		zap.String("log_id", id.String()),
		zap.String("status", string(parsed)),
		zap.String("actor", actor.String()))

	return s.Lattice(ctx)
}

// Delete removes an audition log for good and returns a fresh lattice.
func (s *AuditionService) Delete(ctx context.Context, id uuid.UUID) ([]model.Slot, error) {
	found, err := s.logs.Delete(ctx, id)
	if err != nil {
		return nil, collaboratorError("delete audition log", err)
	}
	if !found {
		return nil, ErrNotFound
	}

	s.logger.Info("Audition log deleted", zap.String("log_id", id.String()))

	return s.Lattice(ctx)
}

type BookRequest struct {
	FamilyID     uuid.UUID
	Date         string
	Time         string
	SubjectName  string
	ContactEmail string
	ContactPhone string
	VoicePart    string
	Notes        string
}

// Book claims one slot of an active window family. A taken slot is ErrConflict.
func (s *AuditionService) Book(ctx context.Context, req BookRequest) (*model.AuditionLog, error) {
	if strings.TrimSpace(req.SubjectName) == "" {
		return nil, validationError("subject name is required")
	}
	if _, err := time.Parse(slots.DateLayout, req.Date); err != nil {
		return nil, validationError("invalid date %q", req.Date)
	}
	clock, err := slots.NormalizeClock(req.Time)
	if err != nil {
		return nil, validationError("%v", err)
	}

	windows, err := s.windows.GetActive(ctx)
	if err != nil {
		return nil, collaboratorError("get active windows", err)
	}

	lattice := slots.Generate(windows, nil, s.opts)
	if !slots.Contains(lattice, windows, req.FamilyID, req.Date, clock) {
		return nil, ErrNotFound
	}

	log := &model.AuditionLog{
		ID:             uuid.New(),
		WindowFamilyID: req.FamilyID,
		SubjectName:    strings.TrimSpace(req.SubjectName),
		ContactEmail:   strings.TrimSpace(req.ContactEmail),
		ContactPhone:   strings.TrimSpace(req.ContactPhone),
		ScheduledDate:  req.Date,
		ScheduledTime:  clock,
		Status:         model.AuditionStatusScheduled,
		VoicePart:      req.VoicePart,
		Notes:          req.Notes,
	}

	inserted, err := s.logs.InsertIfSlotFree(ctx, log)
	if err != nil {
		return nil, collaboratorError("insert audition log", err)
	}
	if !inserted {
		return nil, ErrConflict
	}

	s.logger.Info("Audition slot booked",
		zap.String("log_id", log.ID.String()),
		zap.String("date", log.ScheduledDate),
		zap.String("time", log.ScheduledTime))

	return log, nil
}
