package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAuditionLog_HoldsSlotOf(t *testing.T) {
	family := uuid.New()
	other := uuid.New()
	slot := func(f uuid.UUID, status AuditionStatus) *AuditionLog {
		return &AuditionLog{WindowFamilyID: f, ScheduledDate: "2026-03-02", ScheduledTime: "09:00", Status: status}
	}

	tests := []struct {
		name     string
		existing *AuditionLog
		want     *AuditionLog
		holds    bool
	}{
		{name: "same family", existing: slot(family, AuditionStatusScheduled), want: slot(family, AuditionStatusScheduled), holds: true},
		{name: "other family", existing: slot(other, AuditionStatusScheduled), want: slot(family, AuditionStatusScheduled), holds: false},
		{name: "legacy row holds every family", existing: slot(uuid.Nil, AuditionStatusScheduled), want: slot(family, AuditionStatusScheduled), holds: true},
		{name: "legacy insert meets live booking", existing: slot(family, AuditionStatusGraded), want: slot(uuid.Nil, AuditionStatusScheduled), holds: true},
		{name: "cancelled releases", existing: slot(uuid.Nil, cancelledStatus), want: slot(family, AuditionStatusScheduled), holds: false},
		{name: "other time", existing: slot(family, AuditionStatusScheduled), want: &AuditionLog{WindowFamilyID: family, ScheduledDate: "2026-03-02", ScheduledTime: "09:30"}, holds: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.holds, tt.existing.HoldsSlotOf(tt.want))
		})
	}
}
