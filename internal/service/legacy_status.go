package service

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/glee_portal/internal/model"
)

var legacyStatuses = map[string]model.AuditionStatus{
	"approved":   model.AuditionStatusGraded,
	"pending":    model.AuditionStatusScheduled,
	"scheduled":  model.AuditionStatusScheduled,
	"completed":  model.AuditionStatusCompleted,
	"rejected":   model.AuditionStatusCompleted,
	"declined":   model.AuditionStatusCompleted,
	"waitlisted": model.AuditionStatusCompleted,
	"no_show":    model.AuditionStatusNoShow,
}

// TranslateLegacyStatus maps the gw_auditions vocabulary onto audition statuses.
// Matching ignores case and surrounding space.
func TranslateLegacyStatus(s string) (model.AuditionStatus, error) {
	status, ok := legacyStatuses[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownLegacyStatus, s)
	}
	return status, nil
}
