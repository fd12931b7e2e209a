package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/glee_portal/internal/model"
	"github.com/Freeeeeet/glee_portal/internal/service"
	"github.com/Freeeeeet/glee_portal/internal/slots"
)

type Auditions interface {
	Lattice(ctx context.Context) ([]model.Slot, error)
	SetStatus(ctx context.Context, actor uuid.UUID, id uuid.UUID, status string) ([]model.Slot, error)
	Delete(ctx context.Context, id uuid.UUID) ([]model.Slot, error)
	Book(ctx context.Context, req service.BookRequest) (*model.AuditionLog, error)
	Reconcile(ctx context.Context) (service.ReconcileReport, error)
}

type AuditionHandler struct {
	auditions Auditions
	auth      Authenticator
	logger    *zap.Logger
}

func NewAuditionHandler(auditions Auditions, auth Authenticator, logger *zap.Logger) *AuditionHandler {
	return &AuditionHandler{auditions: auditions, auth: auth, logger: logger}
}

func (h *AuditionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/audition-slots", h.handleSlots)
	mux.HandleFunc("POST /api/audition-logs", h.handleBook)
	mux.HandleFunc("POST /api/audition-logs/migrate", h.handleMigrate)
	mux.HandleFunc("POST /api/audition-logs/{id}/status", h.handleSetStatus)
	mux.HandleFunc("DELETE /api/audition-logs/{id}", h.handleDelete)
}

type latticeResponse struct {
	Summary slots.Summary `json:"summary"`
	Slots   []model.Slot  `json:"slots"`
}

func newLatticeResponse(lattice []model.Slot) latticeResponse {
	if lattice == nil {
		lattice = []model.Slot{}
	}
	return latticeResponse{Summary: slots.Summarize(lattice), Slots: lattice}
}

func (h *AuditionHandler) handleSlots(w http.ResponseWriter, r *http.Request) {
	lattice, err := h.auditions.Lattice(r.Context())
	if err != nil {
		h.logger.Error("Failed to build slot lattice", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newLatticeResponse(lattice))
}

type bookRequest struct {
	FamilyID     uuid.UUID `json:"window_family_id"`
	Date         string    `json:"scheduled_date"`
	Time         string    `json:"scheduled_time"`
	SubjectName  string    `json:"subject_name"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	VoicePart    string    `json:"voice_part"`
	Notes        string    `json:"notes"`
}

func (h *AuditionHandler) handleBook(w http.ResponseWriter, r *http.Request) {
	var body bookRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	log, err := h.auditions.Book(r.Context(), service.BookRequest{
		FamilyID:     body.FamilyID,
		Date:         body.Date,
		Time:         body.Time,
		SubjectName:  body.SubjectName,
		ContactEmail: body.ContactEmail,
		ContactPhone: body.ContactPhone,
		VoicePart:    body.VoicePart,
		Notes:        body.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, log)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *AuditionHandler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireRole(w, r, h.auth, model.RoleExecutive, model.RoleAdmin)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var body statusRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	lattice, err := h.auditions.SetStatus(r.Context(), caller.UserID, id, body.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newLatticeResponse(lattice))
}

func (h *AuditionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.auth, model.RoleExecutive, model.RoleAdmin); !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	lattice, err := h.auditions.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newLatticeResponse(lattice))
}

func (h *AuditionHandler) handleMigrate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.auth, model.RoleAdmin); !ok {
		return
	}

	report, err := h.auditions.Reconcile(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
