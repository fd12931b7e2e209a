package slots

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/Freeeeeet/glee_portal/internal/model"
)

// DefaultHorizon bounds the expansion of open-ended recurring windows.
const DefaultHorizon = 26 * 7 * 24 * time.Hour

type occurrence struct {
	start time.Time
	end   time.Time
}

// expand returns the occurrences of w. A window without a recurrence rule has
// exactly one. Every occurrence keeps the wall-clock length of the first.
func expand(w *model.TimeWindow, loc *time.Location, horizon time.Duration) ([]occurrence, error) {
	if w.Recurrence == "" {
		return []occurrence{{start: w.StartInstant, end: w.EndInstant}}, nil
	}

	opt, err := rrule.StrToROption(w.Recurrence)
	if err != nil {
		return nil, fmt.Errorf("parse recurrence: %w", err)
	}
	opt.Dtstart = w.StartInstant.In(loc)

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("build recurrence: %w", err)
	}

	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	length := wall(w.EndInstant, loc).Sub(wall(w.StartInstant, loc))

	var out []occurrence
	for _, start := range rule.Between(opt.Dtstart, opt.Dtstart.Add(horizon), true) {
		end := fromWall(wall(start, loc).Add(length), loc)
		out = append(out, occurrence{start: start, end: end})
	}
	return out, nil
}
