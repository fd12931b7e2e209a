package slots

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/glee_portal/internal/model"
)

// Options control lattice generation.
type Options struct {
	Location *time.Location
	// Horizon bounds recurring windows. Zero means DefaultHorizon.
	Horizon time.Duration
	// OnSkip is told about windows that contributed no slots and why.
	OnSkip func(windowID uuid.UUID, reason string)
}

type bookingKey struct {
	family uuid.UUID
	date   string
	clock  string
}

// Generate crosses every active window with the bookings. Slots come out in
// window order, then time order. Overlapping windows yield duplicate slots.
func Generate(windows []*model.TimeWindow, bookings []*model.AuditionLog, opts Options) []model.Slot {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	skip := opts.OnSkip
	if skip == nil {
		skip = func(uuid.UUID, string) {}
	}

	index := indexBookings(bookings)

	var out []model.Slot
	for _, w := range windows {
		if w == nil || !w.IsActive {
			continue
		}
		if w.SlotDurationMinutes <= 0 {
			skip(w.ID, "non-positive slot duration")
			continue
		}
		if !w.EndInstant.After(w.StartInstant) {
			skip(w.ID, "end is not after start")
			continue
		}

		occurrences, err := expand(w, loc, opts.Horizon)
		if err != nil {
			skip(w.ID, err.Error())
			continue
		}

		for _, occ := range occurrences {
			out = appendWindowSlots(out, w, occ, index, loc)
		}
	}
	return out
}

// Lattice is Generate ordered by date, then time. Ties keep window order.
func Lattice(windows []*model.TimeWindow, bookings []*model.AuditionLog, opts Options) []model.Slot {
	out := Generate(windows, bookings, opts)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out
}

func appendWindowSlots(out []model.Slot, w *model.TimeWindow, occ occurrence, index map[bookingKey]*model.AuditionLog, loc *time.Location) []model.Slot {
	step := w.SlotDuration()
	end := wall(occ.end, loc)

	for cursor := wall(occ.start, loc); !cursor.Add(step).After(end); cursor = cursor.Add(step) {
		start := fromWall(cursor, loc)
		// wall readings skipped by a spring-forward transition do not exist
		if !wall(start, loc).Equal(cursor) {
			continue
		}

		slot := model.Slot{
			Date:           cursor.Format(DateLayout),
			Time:           cursor.Format(ClockLayout),
			Start:          start,
			End:            fromWall(cursor.Add(step), loc),
			SourceWindowID: w.ID,
		}

		booking := index[bookingKey{family: w.Family(), date: slot.Date, clock: slot.Time}]
		if booking == nil {
			booking = index[bookingKey{date: slot.Date, clock: slot.Time}]
		}
		if booking != nil {
			slot.IsScheduled = true
			slot.Booking = booking
		}

		out = append(out, slot)
	}
	return out
}

// indexBookings keys occupying bookings by family and by bare (date, time) for
// records that predate window families. The first record for a key wins.
func indexBookings(bookings []*model.AuditionLog) map[bookingKey]*model.AuditionLog {
	index := make(map[bookingKey]*model.AuditionLog, len(bookings))
	for _, b := range bookings {
		if b == nil || !b.Occupies() {
			continue
		}
		clock, err := NormalizeClock(b.ScheduledTime)
		if err != nil {
			continue
		}
		key := bookingKey{family: b.WindowFamilyID, date: b.ScheduledDate, clock: clock}
		if _, ok := index[key]; !ok {
			index[key] = b
		}
	}
	return index
}

// Summary counts a lattice the way the audition dashboard header shows it.
type Summary struct {
	Total     int `json:"total"`
	Scheduled int `json:"scheduled"`
	Available int `json:"available"`
}

func Summarize(slots []model.Slot) Summary {
	s := Summary{Total: len(slots)}
	for _, slot := range slots {
		if slot.IsScheduled {
			s.Scheduled++
		}
	}
	s.Available = s.Total - s.Scheduled
	return s
}

// Contains reports whether (date, clock) is a slot of a window in family.
func Contains(slots []model.Slot, windows []*model.TimeWindow, family uuid.UUID, date, clock string) bool {
	families := make(map[uuid.UUID]uuid.UUID, len(windows))
	for _, w := range windows {
		families[w.ID] = w.Family()
	}
	for _, s := range slots {
		if s.Date == date && s.Time == clock && families[s.SourceWindowID] == family {
			return true
		}
	}
	return false
}
