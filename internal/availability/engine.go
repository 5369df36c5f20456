package availability

import (
	"log/slog"
	"strings"
	"time"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

type AvailableSlot struct {
	Time   string `json:"time"`
	Worker string `json:"worker"`
	Label  string `json:"label"`
}

// Snapshot is everything the engine reads for one computation. It is never mutated.
type Snapshot struct {
	Workers      []domain.Worker
	Bookings     []domain.Booking
	Restrictions []domain.CategoryRestriction
	DaysOff      []domain.DayOffRule
}

type Engine struct {
	loc *time.Location

	// OnScheduleError is called for every worker whose configuration cannot produce slots.
	OnScheduleError func(worker string, err error)
}

func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{
		loc: loc,
		OnScheduleError: func(worker string, err error) {
			slog.Warn("skipping worker with invalid schedule", slog.String("worker", worker), slog.String("error", err.Error()))
		},
	}
}

func (e *Engine) Location() *time.Location {
	return e.loc
}

// AvailableSlots returns the open (time, worker) pairs for date, ordered by worker then by
// candidate order. The result is never nil.
func (e *Engine) AvailableSlots(date string, service *domain.Service, snap Snapshot) []AvailableSlot {
	slots := make([]AvailableSlot, 0)

	date = strings.TrimSpace(date)
	if date == "" {
		return slots
	}

	dayOfWeek, err := LocalDayOfWeek(date, e.loc)
	if err != nil {
		slog.Warn("cannot resolve weekday", slog.String("date", date), slog.String("error", err.Error()))
		return slots
	}

	eligibility := NewEligibility(snap.Restrictions)
	daysOff := NewDayOffRules(snap.DaysOff)
	taken := NewConflictSet(date, snap.Bookings)

	for _, w := range snap.Workers {
		name := strings.TrimSpace(w.Name)
		if !eligibility.Allows(service, name) {
			continue
		}

		candidates, err := CandidateSlots(w, dayOfWeek, daysOff)
		if err != nil {
			if e.OnScheduleError != nil {
				e.OnScheduleError(name, err)
			}
			continue
		}

		for _, c := range candidates {
			if taken.Taken(SlotKey{Date: date, Minutes: c.Minutes, Worker: name}) {
				continue
			}
			slots = append(slots, AvailableSlot{
				Time:   c.Time,
				Worker: name,
				Label:  domain.SlotLabel(c.Time, name),
			})
		}
	}

	return slots
}

// IsAvailable re-checks a single slot against the same snapshot, for use right before a write.
func (e *Engine) IsAvailable(date string, service *domain.Service, snap Snapshot, displayTime, worker string) bool {
	want, err := ParseDisplayTime(displayTime)
	if err != nil {
		return false
	}
	worker = strings.TrimSpace(worker)

	for _, slot := range e.AvailableSlots(date, service, snap) {
		if slot.Worker != worker {
			continue
		}
		if got, err := ParseDisplayTime(slot.Time); err == nil && got == want {
			return true
		}
	}
	return false
}
