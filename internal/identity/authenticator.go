// Package identity resolves bearer credentials to portal users.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Freeeeeet/glee_portal/internal/model"
)

var ErrInvalidCredential = errors.New("invalid credential")

// Identity is an authenticated caller.
type Identity struct {
	UserID uuid.UUID
	Role   model.Role
}

type ProfileReader interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
}

// HTTPAuthenticator checks bearer tokens against the auth server user endpoint.
type HTTPAuthenticator struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	profiles   ProfileReader
}

func NewHTTPAuthenticator(baseURL, apiKey string, httpClient *http.Client, profiles ProfileReader) *HTTPAuthenticator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPAuthenticator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		profiles:   profiles,
	}
}

type userResponse struct {
	ID uuid.UUID `json:"id"`
}

// Authenticate returns ErrInvalidCredential for a missing, malformed or
// rejected token. A user without a profile is a member.
func (a *HTTPAuthenticator) Authenticate(ctx context.Context, credential string) (Identity, error) {
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(credential), "Bearer "))
	if token == "" {
		return Identity{}, ErrInvalidCredential
	}
	if a.baseURL == "" {
		return Identity{}, errors.New("auth server is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if a.apiKey != "" {
		req.Header.Set("apikey", a.apiKey)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("call auth server: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return Identity{}, ErrInvalidCredential
	default:
		return Identity{}, fmt.Errorf("auth server unexpected status: %d", resp.StatusCode)
	}

	var body userResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Identity{}, fmt.Errorf("decode auth user: %w", err)
	}
	if body.ID == uuid.Nil {
		return Identity{}, ErrInvalidCredential
	}

	id := Identity{UserID: body.ID, Role: model.RoleMember}
	if a.profiles != nil {
		profile, err := a.profiles.GetByID(ctx, body.ID)
		if err != nil {
			return Identity{}, fmt.Errorf("get caller profile: %w", err)
		}
		if profile != nil && profile.Role != "" {
			id.Role = profile.Role
		}
	}

	return id, nil
}
