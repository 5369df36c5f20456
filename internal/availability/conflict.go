package availability

import (
	"log/slog"
	"strings"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

// SlotKey identifies one bookable slot. Conflicts are matched on all three fields.
type SlotKey struct {
	Date    string
	Minutes int
	Worker  string
}

type ConflictSet map[SlotKey]struct{}

// NewConflictSet collects the slots on date held by pending or confirmed bookings.
func NewConflictSet(date string, bookings []domain.Booking) ConflictSet {
	taken := make(ConflictSet)
	date = strings.TrimSpace(date)

	for _, b := range bookings {
		if strings.TrimSpace(b.Date) != date || !b.Status.Blocks() {
			continue
		}

		key, ok := bookingKey(date, b)
		if !ok {
			slog.Warn("ignoring booking with unparsable slot time", slog.String("reference", b.Reference), slog.String("time", b.Time), slog.String("worker", b.Worker))
			continue
		}
		taken[key] = struct{}{}
	}

	return taken
}

func (c ConflictSet) Taken(key SlotKey) bool {
	_, ok := c[key]
	return ok
}

// bookingKey also accepts rows whose time carries the worker, as in "9:00 AM (Nick)".
func bookingKey(date string, b domain.Booking) (SlotKey, bool) {
	displayTime, worker := b.Time, strings.TrimSpace(b.Worker)
	if labelTime, labelWorker, ok := domain.ParseSlotLabel(b.Time); ok {
		displayTime, worker = labelTime, labelWorker
	}
	if worker == "" {
		return SlotKey{}, false
	}

	minutes, err := ParseDisplayTime(displayTime)
	if err != nil {
		return SlotKey{}, false
	}

	return SlotKey{Date: date, Minutes: minutes, Worker: worker}, true
}
