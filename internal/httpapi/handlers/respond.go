package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Freeeeeet/glee_portal/internal/identity"
	"github.com/Freeeeeet/glee_portal/internal/model"
	"github.com/Freeeeeet/glee_portal/internal/notify"
	"github.com/Freeeeeet/glee_portal/internal/service"
)

const maxBodyBytes = 1 << 20

type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (identity.Identity, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notify.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated")
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, "slot already booked")
	case errors.Is(err, service.ErrCollaborator):
		writeError(w, http.StatusBadGateway, "upstream failure")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeBody(w, r, dst, true)
}

// decodeLooseJSON ignores fields dst does not declare.
func decodeLooseJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeBody(w, r, dst, false)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any, strict bool) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func bearer(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("Authorization"))
}

// requireRole authenticates the request and checks the caller holds one of roles.
func requireRole(w http.ResponseWriter, r *http.Request, auth Authenticator, roles ...model.Role) (identity.Identity, bool) {
	id, err := auth.Authenticate(r.Context(), bearer(r))
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredential) {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
		} else {
			writeError(w, http.StatusBadGateway, "auth server unavailable")
		}
		return identity.Identity{}, false
	}
	for _, role := range roles {
		if id.Role == role {
			return id, true
		}
	}
	writeError(w, http.StatusForbidden, "forbidden")
	return identity.Identity{}, false
}
