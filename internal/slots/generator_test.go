package slots

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/glee_portal/internal/model"
)

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := LoadLocation("")
	require.NoError(t, err)
	return loc
}

func window(start, end time.Time, minutes int) *model.TimeWindow {
	return &model.TimeWindow{
		ID:                  uuid.New(),
		StartInstant:        start,
		EndInstant:          end,
		SlotDurationMinutes: minutes,
		IsActive:            true,
	}
}

func clocks(slots []model.Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Time)
	}
	return out
}

func TestGenerate_DropsPartialSlot(t *testing.T) {
	loc := eastern(t)
	start := time.Date(2025, 10, 6, 9, 0, 0, 0, loc)
	w := window(start, start.Add(70*time.Minute), 30)

	slots := Generate([]*model.TimeWindow{w}, nil, Options{Location: loc})

	require.Len(t, slots, 2)
	assert.Equal(t, []string{"09:00", "09:30"}, clocks(slots))
	assert.Equal(t, "2025-10-06", slots[0].Date)
	assert.Equal(t, w.ID, slots[1].SourceWindowID)
	assert.True(t, slots[1].End.Equal(start.Add(time.Hour)))
}

func TestGenerate_CountIsFloorOfLengthOverDuration(t *testing.T) {
	loc := eastern(t)
	start := time.Date(2025, 10, 6, 9, 0, 0, 0, loc)

	cases := []struct {
		length   time.Duration
		duration int
		want     int
	}{
		{length: 3 * time.Hour, duration: 30, want: 6},
		{length: 3*time.Hour + 29*time.Minute, duration: 30, want: 6},
		{length: 45 * time.Minute, duration: 15, want: 3},
		{length: 10 * time.Minute, duration: 15, want: 0},
	}

	for _, tc := range cases {
		w := window(start, start.Add(tc.length), tc.duration)
		slots := Generate([]*model.TimeWindow{w}, nil, Options{Location: loc})
		assert.Len(t, slots, tc.want, "length=%s duration=%d", tc.length, tc.duration)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	loc := eastern(t)
	start := time.Date(2025, 10, 6, 13, 0, 0, 0, loc)
	windows := []*model.TimeWindow{window(start, start.Add(2*time.Hour), 20)}

	first := Generate(windows, nil, Options{Location: loc})
	second := Generate(windows, nil, Options{Location: loc})

	assert.Equal(t, first, second)
}

func TestGenerate_AttachesMatchingBooking(t *testing.T) {
	loc := eastern(t)
	start := time.Date(2025, 10, 6, 9, 0, 0, 0, loc)
	w := window(start, start.Add(90*time.Minute), 30)

	booked := &model.AuditionLog{ID: uuid.New(), ScheduledDate: "2025-10-06", ScheduledTime: "9:30 AM", Status: model.AuditionStatusScheduled}
	stray := &model.AuditionLog{ID: uuid.New(), ScheduledDate: "2025-10-07", ScheduledTime: "09:30", Status: model.AuditionStatusScheduled}

	slots := Generate([]*model.TimeWindow{w}, []*model.AuditionLog{booked, stray}, Options{Location: loc})

	require.Len(t, slots, 3)
	assert.False(t, slots[0].IsScheduled)
	assert.True(t, slots[1].IsScheduled)
	assert.Same(t, booked, slots[1].Booking)
	assert.False(t, slots[2].IsScheduled)
	assert.Nil(t, slots[2].Booking)
}

func TestGenerate_CancelledBookingDoesNotOccupy(t *testing.T) {
	loc := eastern(t)
	start := time.Date(2025, 10, 6, 9, 0, 0, 0, loc)
	w := window(start, start.Add(30*time.Minute), 30)

	cancelled := &model.AuditionLog{ID: uuid.New(), ScheduledDate: "2025-10-06", ScheduledTime: "09:00", Status: "cancelled"}

	slots := Generate([]*model.TimeWindow{w}, []*model.AuditionLog{cancelled}, Options{Location: loc})

	require.Len(t, slots, 1)
	assert.False(t, slots[0].IsScheduled)
}

func TestGenerate_BookingOfOtherFamilyIgnored(t *testing.T) {
	loc := eastern(t)
	start := time.Date(2025, 10, 6, 9, 0, 0, 0, loc)
	w := window(start, start.Add(30*time.Minute), 30)

	other := &model.AuditionLog{ID: uuid.New(), WindowFamilyID: uuid.New(), ScheduledDate: "2025-10-06", ScheduledTime: "09:00", Status: model.AuditionStatusScheduled}
	own := &model.AuditionLog{ID: uuid.New(), WindowFamilyID: w.ID, ScheduledDate: "2025-10-06", ScheduledTime: "09:00", Status: model.AuditionStatusGraded}

	slots := Generate([]*model.TimeWindow{w}, []*model.AuditionLog{other}, Options{Location: loc})
	require.Len(t, slots, 1)
	assert.False(t, slots[0].IsScheduled)

	slots = Generate([]*model.TimeWindow{w}, []*model.AuditionLog{other, own}, Options{Location: loc})
	assert.Same(t, own, slots[0].Booking)
}

func TestGenerate_InvalidWindowSkippedNotFatal(t *testing.T) {
	loc := eastern(t)
	start := time.Date(2025, 10, 6, 9, 0, 0, 0, loc)
	backwards := window(start, start.Add(-time.Hour), 30)
	empty := window(start, start, 30)
	good := window(start, start.Add(time.Hour), 30)

	var skipped []uuid.UUID
	slots := Generate([]*model.TimeWindow{backwards, empty, good}, nil, Options{
		Location: loc,
		OnSkip:   func(id uuid.UUID, _ string) { skipped = append(skipped, id) },
	})

	assert.Len(t, slots, 2)
	assert.Equal(t, []uuid.UUID{backwards.ID, empty.ID}, skipped)
}

func TestGenerate_InactiveWindowContributesNothing(t *testing.T) {
	loc := eastern(t)
	start := time.Date(2025, 10, 6, 9, 0, 0, 0, loc)
	w := window(start, start.Add(time.Hour), 30)
	w.IsActive = false

	assert.Empty(t, Generate([]*model.TimeWindow{w}, nil, Options{Location: loc}))
}

func TestGenerate_OverlappingWindowsKeepDuplicates(t *testing.T) {
	loc := eastern(t)
	start := time.Date(2025, 10, 6, 9, 0, 0, 0, loc)
	a := window(start, start.Add(time.Hour), 30)
	b := window(start.Add(30*time.Minute), start.Add(90*time.Minute), 30)

	slots := Lattice([]*model.TimeWindow{a, b}, nil, Options{Location: loc})

	assert.Equal(t, []string{"09:00", "09:30", "09:30", "10:00"}, clocks(slots))
	assert.Equal(t, a.ID, slots[1].SourceWindowID)
	assert.Equal(t, b.ID, slots[2].SourceWindowID)
}

func TestGenerate_WallClockAcrossFallBack(t *testing.T) {
	loc := eastern(t)
	// 2025-11-02 clocks go back from 02:00 EDT to 01:00 EST.
	start := time.Date(2025, 11, 2, 0, 0, 0, 0, loc)
	end := time.Date(2025, 11, 2, 4, 0, 0, 0, loc)
	require.Equal(t, 5*time.Hour, end.Sub(start))

	slots := Generate([]*model.TimeWindow{window(start, end, 60)}, nil, Options{Location: loc})

	assert.Equal(t, []string{"00:00", "01:00", "02:00", "03:00"}, clocks(slots))
}

func TestGenerate_WallClockAcrossSpringForward(t *testing.T) {
	loc := eastern(t)
	// 2025-03-09 clocks jump from 02:00 EST to 03:00 EDT.
	start := time.Date(2025, 3, 9, 0, 30, 0, 0, loc)
	end := time.Date(2025, 3, 9, 4, 30, 0, 0, loc)

	slots := Generate([]*model.TimeWindow{window(start, end, 30)}, nil, Options{Location: loc})

	for _, s := range slots {
		assert.Contains(t, []string{"00", "30"}, s.Time[3:], "slot %s left the half hour", s.Time)
	}
	assert.Equal(t, "04:00", slots[len(slots)-1].Time)

	// 02:00 and 02:30 never happen that night
	assert.Equal(t, []string{"00:30", "01:00", "01:30", "03:00", "03:30", "04:00"}, clocks(slots))

	starts := make(map[int64]string, len(slots))
	for _, s := range slots {
		prev, dup := starts[s.Start.Unix()]
		assert.False(t, dup, "slots %s and %s share an instant", prev, s.Time)
		starts[s.Start.Unix()] = s.Time
		assert.Equal(t, s.Time, s.Start.In(loc).Format(ClockLayout))
	}
}

func TestGenerate_RecurringWindow(t *testing.T) {
	loc := eastern(t)
	start := time.Date(2025, 10, 6, 18, 0, 0, 0, loc)
	w := window(start, start.Add(time.Hour), 30)
	w.Recurrence = "FREQ=WEEKLY;COUNT=3"

	slots := Lattice([]*model.TimeWindow{w}, nil, Options{Location: loc})

	require.Len(t, slots, 6)
	assert.Equal(t, "2025-10-06", slots[0].Date)
	assert.Equal(t, "2025-10-13", slots[2].Date)
	assert.Equal(t, "2025-10-20", slots[5].Date)
	assert.Equal(t, "18:30", slots[5].Time)
}

func TestGenerate_RecurringWindowKeepsWallClockOverDST(t *testing.T) {
	loc := eastern(t)
	start := time.Date(2025, 10, 27, 18, 0, 0, 0, loc)
	w := window(start, start.Add(time.Hour), 60)
	w.Recurrence = "FREQ=WEEKLY;COUNT=2"

	slots := Lattice([]*model.TimeWindow{w}, nil, Options{Location: loc})

	require.Len(t, slots, 2)
	assert.Equal(t, "2025-11-03", slots[1].Date)
	assert.Equal(t, "18:00", slots[1].Time)
}

func TestGenerate_BadRecurrenceSkipped(t *testing.T) {
	loc := eastern(t)
	start := time.Date(2025, 10, 6, 18, 0, 0, 0, loc)
	w := window(start, start.Add(time.Hour), 30)
	w.Recurrence = "FREQ=SOMETIMES"

	var reasons []string
	slots := Generate([]*model.TimeWindow{w}, nil, Options{
		Location: loc,
		OnSkip:   func(_ uuid.UUID, reason string) { reasons = append(reasons, reason) },
	})

	assert.Empty(t, slots)
	assert.Len(t, reasons, 1)
}

func TestSummarize(t *testing.T) {
	slots := []model.Slot{{IsScheduled: true}, {}, {}, {IsScheduled: true}, {}}

	assert.Equal(t, Summary{Total: 5, Scheduled: 2, Available: 3}, Summarize(slots))
}

func TestContains(t *testing.T) {
	loc := eastern(t)
	start := time.Date(2025, 10, 6, 9, 0, 0, 0, loc)
	w := window(start, start.Add(time.Hour), 30)
	windows := []*model.TimeWindow{w}
	slots := Generate(windows, nil, Options{Location: loc})

	assert.True(t, Contains(slots, windows, w.ID, "2025-10-06", "09:30"))
	assert.False(t, Contains(slots, windows, w.ID, "2025-10-06", "09:15"))
	assert.False(t, Contains(slots, windows, uuid.New(), "2025-10-06", "09:30"))
}

func TestNormalizeClock(t *testing.T) {
	cases := map[string]string{
		"14:30":    "14:30",
		"09:05:00": "09:05",
		"2:30 PM":  "14:30",
		"2:30pm":   "14:30",
		" 9:00 AM": "09:00",
		"12:00 AM": "00:00",
	}
	for in, want := range cases {
		got, err := NormalizeClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := NormalizeClock("noon")
	assert.Error(t, err)
}
