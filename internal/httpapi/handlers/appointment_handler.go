package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/Freeeeeet/glee_portal/internal/model"
	"github.com/Freeeeeet/glee_portal/internal/slots"
)

type Appointments interface {
	Availability(ctx context.Context, providerID uuid.UUID, date string, slotMinutes int) ([]slots.AvailableSlot, error)
	SetStatus(ctx context.Context, actor uuid.UUID, id uuid.UUID, status string) error
}

type AppointmentHandler struct {
	appointments Appointments
	auth         Authenticator
}

func NewAppointmentHandler(appointments Appointments, auth Authenticator) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments, auth: auth}
}

func (h *AppointmentHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/providers/{id}/availability", h.handleAvailability)
	mux.HandleFunc("POST /api/appointments/{id}/status", h.handleSetStatus)
}

func (h *AppointmentHandler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid provider id")
		return
	}

	slotMinutes := 30
	if v := r.URL.Query().Get("slot_minutes"); v != "" {
		slotMinutes, err = strconv.Atoi(v)
		if err != nil || slotMinutes <= 0 {
			writeError(w, http.StatusBadRequest, "invalid slot_minutes")
			return
		}
	}

	available, err := h.appointments.Availability(r.Context(), providerID, r.URL.Query().Get("date"), slotMinutes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if available == nil {
		available = []slots.AvailableSlot{}
	}
	writeJSON(w, http.StatusOK, available)
}

func (h *AppointmentHandler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
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

	if err := h.appointments.SetStatus(r.Context(), caller.UserID, id, body.Status); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
