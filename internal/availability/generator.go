package availability

import (
	"errors"
	"fmt"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

var ErrInvalidSchedule = errors.New("invalid worker schedule")

type Candidate struct {
	Minutes int
	Time    string
}

// CandidateSlots lists the start times a worker offers on a weekday before bookings are applied.
//
// A nil slice with a nil error means the worker is off. A non-nil error means the worker's
// configuration cannot produce slots; callers skip that worker only.
func CandidateSlots(w domain.Worker, dayOfWeek int, daysOff DayOffRules) ([]Candidate, error) {
	if w.DayOff != domain.NoDayOff && w.DayOff == dayOfWeek {
		return nil, nil
	}
	if daysOff.IsOff(w.Name, dayOfWeek) {
		return nil, nil
	}

	startClock, endClock, interval := w.EffectiveSchedule(dayOfWeek)

	start, err := ParseClock(startClock)
	if err != nil {
		return nil, fmt.Errorf("%w: worker %q start: %w", ErrInvalidSchedule, w.Name, err)
	}
	end, err := ParseClock(endClock)
	if err != nil {
		return nil, fmt.Errorf("%w: worker %q end: %w", ErrInvalidSchedule, w.Name, err)
	}
	if start >= end {
		return nil, fmt.Errorf("%w: worker %q start %s is not before end %s", ErrInvalidSchedule, w.Name, startClock, endClock)
	}

	if w.UsesCustomSlots() {
		return customSlots(w, start, end)
	}

	if interval <= 0 {
		return nil, fmt.Errorf("%w: worker %q interval %d is not positive", ErrInvalidSchedule, w.Name, interval)
	}

	lunchStart, lunchEnd, hasLunch, err := lunchWindow(w)
	if err != nil {
		return nil, err
	}

	var slots []Candidate
	for cursor := start; ; {
		if w.LastSlotInclusive {
			// also bounds the cursor by end+interval
			if cursor > end {
				break
			}
		} else if cursor+interval > end {
			break
		}

		if hasLunch && cursor >= lunchStart && cursor < lunchEnd {
			cursor = lunchEnd
			continue
		}

		slots = append(slots, Candidate{Minutes: cursor, Time: FormatClock(cursor)})
		cursor += interval
	}

	return slots, nil
}

// customSlots keeps the listed times in list order, dropping those outside [start, end].
func customSlots(w domain.Worker, start, end int) ([]Candidate, error) {
	var slots []Candidate
	for _, s := range w.CustomSlots {
		minutes, err := ParseClock(s)
		if err != nil {
			return nil, fmt.Errorf("%w: worker %q custom slot: %w", ErrInvalidSchedule, w.Name, err)
		}
		if minutes < start || minutes > end {
			continue
		}
		slots = append(slots, Candidate{Minutes: minutes, Time: FormatClock(minutes)})
	}
	return slots, nil
}

func lunchWindow(w domain.Worker) (start, end int, ok bool, err error) {
	if w.Lunch == nil {
		return 0, 0, false, nil
	}

	start, err = ParseClock(w.Lunch.Start)
	if err != nil {
		return 0, 0, false, fmt.Errorf("%w: worker %q lunch start: %w", ErrInvalidSchedule, w.Name, err)
	}
	end, err = ParseClock(w.Lunch.End)
	if err != nil {
		return 0, 0, false, fmt.Errorf("%w: worker %q lunch end: %w", ErrInvalidSchedule, w.Name, err)
	}
	if start >= end {
		return 0, 0, false, fmt.Errorf("%w: worker %q lunch %s-%s is empty", ErrInvalidSchedule, w.Name, w.Lunch.Start, w.Lunch.End)
	}

	return start, end, true, nil
}
