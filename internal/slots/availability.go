package slots

import (
	"sort"
	"time"

	"github.com/Freeeeeet/glee_portal/internal/model"
)

// AvailableSlot is one bookable appointment start on a given day.
type AvailableSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Time  string    `json:"time"`
}

// Availability lists the free appointment slots of day. Slots come from the
// provider's weekly windows for that weekday; a slot is dropped when it
// overlaps a non-cancelled appointment or starts at or before now. The same
// start offered by two windows is listed once.
func Availability(day time.Time, windows []*model.ProviderAvailability, appointments []*model.Appointment, now time.Time, slotMinutes int, loc *time.Location) []AvailableSlot {
	if slotMinutes <= 0 {
		slotMinutes = 30
	}
	if loc == nil {
		loc = time.UTC
	}
	step := time.Duration(slotMinutes) * time.Minute
	weekday := int(day.In(loc).Weekday())

	seen := make(map[string]struct{})
	var out []AvailableSlot

	for _, w := range windows {
		if w == nil || !w.IsActive || w.Weekday != weekday {
			continue
		}
		start, err := OnDate(day, w.StartTime, loc)
		if err != nil {
			continue
		}
		end, err := OnDate(day, w.EndTime, loc)
		if err != nil {
			continue
		}

		endWall := wall(end, loc)
		for cursor := wall(start, loc); !cursor.Add(step).After(endWall); cursor = cursor.Add(step) {
			slotStart := fromWall(cursor, loc)
			slotEnd := fromWall(cursor.Add(step), loc)

			if !slotStart.After(now) {
				continue
			}
			if overlapsAny(slotStart, slotEnd, appointments, step) {
				continue
			}

			clock := cursor.Format(ClockLayout)
			if _, dup := seen[clock]; dup {
				continue
			}
			seen[clock] = struct{}{}
			out = append(out, AvailableSlot{Start: slotStart, End: slotEnd, Time: clock})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func overlapsAny(start, end time.Time, appointments []*model.Appointment, fallback time.Duration) bool {
	for _, a := range appointments {
		if a == nil || a.Status == model.AppointmentStatusCancelled {
			continue
		}
		aEnd := a.EndsAt()
		if a.DurationMinutes <= 0 {
			aEnd = a.StartsAt.Add(fallback)
		}
		if start.Before(aEnd) && a.StartsAt.Before(end) {
			return true
		}
	}
	return false
}
