package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

const testDate = "2025-08-18" // Monday

func testWorkers() []domain.Worker {
	return []domain.Worker{
		{Name: "Nick", Start: "09:00", End: "11:00", Interval: 60, DayOff: 0},
		{Name: "Mary", Start: "08:00", End: "10:00", Interval: 60, DayOff: 1},
		{Name: "Ana", Start: "13:00", End: "14:00", Interval: 30, DayOff: 6},
	}
}

func slotPairs(slots []AvailableSlot) [][2]string {
	out := make([][2]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, [2]string{s.Time, s.Worker})
	}
	return out
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	return NewEngine(loc)
}

func TestAvailableSlotsEmptyDate(t *testing.T) {
	e := newTestEngine(t)

	slots := e.AvailableSlots("", nil, Snapshot{Workers: testWorkers()})
	assert.NotNil(t, slots)
	assert.Empty(t, slots)

	slots = e.AvailableSlots("garbage", nil, Snapshot{Workers: testWorkers()})
	assert.Empty(t, slots)
}

func TestAvailableSlotsOrdering(t *testing.T) {
	e := newTestEngine(t)

	slots := e.AvailableSlots(testDate, nil, Snapshot{Workers: testWorkers()})

	// Mary is off on Mondays; catalog order is kept, not sorted by time.
	assert.Equal(t, [][2]string{
		{"9:00 AM", "Nick"},
		{"10:00 AM", "Nick"},
		{"1:00 PM", "Ana"},
		{"1:30 PM", "Ana"},
	}, slotPairs(slots))
	assert.Equal(t, "9:00 AM (Nick)", slots[0].Label)
}

func TestAvailableSlotsConflicts(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name      string
		booking   domain.Booking
		padWorker bool
		excluded  bool
	}{
		{name: "confirmed blocks", booking: domain.Booking{Date: testDate, Time: "9:00 AM", Worker: "Nick", Status: domain.StatusConfirmed}, excluded: true},
		{name: "pending blocks", booking: domain.Booking{Date: testDate, Time: "9:00 AM", Worker: "Nick", Status: domain.StatusPending}, excluded: true},
		{name: "composite label blocks", booking: domain.Booking{Date: testDate, Time: "9:00 AM (Nick)", Status: domain.StatusConfirmed}, excluded: true},
		{name: "composite label with worker blocks", booking: domain.Booking{Date: testDate, Time: "9:00 AM (Nick)", Worker: "Nick", Status: domain.StatusConfirmed}, excluded: true},
		{name: "unknown status blocks", booking: domain.Booking{Date: testDate, Time: "9:00 AM", Worker: "Nick", Status: "on-hold"}, excluded: true},
		{name: "missing status blocks", booking: domain.Booking{Date: testDate, Time: "9:00 AM", Worker: "Nick"}, excluded: true},
		{name: "cancelled frees", booking: domain.Booking{Date: testDate, Time: "9:00 AM", Worker: "Nick", Status: domain.StatusCancelled}},
		{name: "completed frees", booking: domain.Booking{Date: testDate, Time: "9:00 AM", Worker: "Nick", Status: domain.StatusCompleted}},
		{name: "other date", booking: domain.Booking{Date: "2025-08-19", Time: "9:00 AM", Worker: "Nick", Status: domain.StatusConfirmed}},
		{name: "other worker", booking: domain.Booking{Date: testDate, Time: "9:00 AM", Worker: "Ana", Status: domain.StatusConfirmed}},
		{name: "unparsable time ignored", booking: domain.Booking{Date: testDate, Time: "morning", Worker: "Nick", Status: domain.StatusConfirmed}},
		{name: "padded worker name blocks", booking: domain.Booking{Date: testDate, Time: "9:00 AM", Worker: "Nick ", Status: domain.StatusConfirmed}, padWorker: true, excluded: true},
		{name: "padded worker with trimmed booking blocks", booking: domain.Booking{Date: testDate, Time: "9:00 AM", Worker: "Nick", Status: domain.StatusConfirmed}, padWorker: true, excluded: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workers := testWorkers()
			if tt.padWorker {
				for i := range workers {
					if workers[i].Name == "Nick" {
						workers[i].Name = "Nick "
					}
				}
			}
			snap := Snapshot{Workers: workers, Bookings: []domain.Booking{tt.booking}}
			slots := e.AvailableSlots(testDate, nil, snap)

			assert.Equal(t, tt.excluded, !containsSlot(slots, "9:00 AM", "Nick"))
			assert.True(t, containsSlot(slots, "10:00 AM", "Nick"))
			assert.True(t, e.IsAvailable(testDate, nil, snap, "10:00 AM", "Nick"))
		})
	}
}

func TestAvailableSlotsUnfilteredBookings(t *testing.T) {
	e := newTestEngine(t)

	var bookings []domain.Booking
	for _, date := range []string{"2025-08-11", "2025-08-25", "2025-09-01"} {
		bookings = append(bookings, domain.Booking{Date: date, Time: "10:00 AM", Worker: "Nick", Status: domain.StatusConfirmed})
	}
	bookings = append(bookings, domain.Booking{Date: testDate, Time: "1:30 PM", Worker: "Ana", Status: domain.StatusPending})

	slots := e.AvailableSlots(testDate, nil, Snapshot{Workers: testWorkers(), Bookings: bookings})
	assert.Equal(t, [][2]string{
		{"9:00 AM", "Nick"},
		{"10:00 AM", "Nick"},
		{"1:00 PM", "Ana"},
	}, slotPairs(slots))
}

func TestAvailableSlotsServiceEligibility(t *testing.T) {
	e := newTestEngine(t)

	snap := Snapshot{
		Workers:      testWorkers(),
		Restrictions: []domain.CategoryRestriction{{Category: "detailing", WorkerNames: []string{"Nick"}}},
	}

	detailing := &domain.Service{Name: "Full Detail", Category: "Detailing"}
	for _, s := range e.AvailableSlots(testDate, detailing, snap) {
		assert.Equal(t, "Nick", s.Worker)
	}
	assert.Len(t, e.AvailableSlots(testDate, detailing, snap), 2)

	wash := &domain.Service{Name: "Exterior Wash", Category: "wash"}
	assert.Len(t, e.AvailableSlots(testDate, wash, snap), 4)

	assert.Len(t, e.AvailableSlots(testDate, nil, snap), 4)
}

func TestAvailableSlotsIsolatesBrokenWorker(t *testing.T) {
	e := newTestEngine(t)

	var reported []string
	e.OnScheduleError = func(worker string, err error) {
		assert.ErrorIs(t, err, ErrInvalidSchedule)
		reported = append(reported, worker)
	}

	workers := append([]domain.Worker{
		{Name: "Broken", Start: "09:00", End: "17:00", Interval: 0, DayOff: domain.NoDayOff},
		{Name: "Typo", Start: "9am", End: "17:00", Interval: 60, DayOff: domain.NoDayOff},
	}, testWorkers()...)

	slots := e.AvailableSlots(testDate, nil, Snapshot{Workers: workers})
	assert.Len(t, slots, 4)
	assert.Equal(t, []string{"Broken", "Typo"}, reported)
}

func TestAvailableSlotsExtraDayOff(t *testing.T) {
	e := newTestEngine(t)

	snap := Snapshot{
		Workers: testWorkers(),
		DaysOff: []domain.DayOffRule{{WorkerName: "Ana", Day: 1}},
	}

	slots := e.AvailableSlots(testDate, nil, snap)
	assert.Equal(t, [][2]string{{"9:00 AM", "Nick"}, {"10:00 AM", "Nick"}}, slotPairs(slots))
}

func TestAvailableSlotsIdempotent(t *testing.T) {
	e := newTestEngine(t)

	snap := Snapshot{
		Workers:  testWorkers(),
		Bookings: []domain.Booking{{Date: testDate, Time: "10:00 AM", Worker: "Nick", Status: domain.StatusConfirmed}},
	}
	workersBefore := testWorkers()

	first := e.AvailableSlots(testDate, nil, snap)
	second := e.AvailableSlots(testDate, nil, snap)
	assert.Equal(t, first, second)
	assert.Equal(t, workersBefore, snap.Workers)
}

func TestIsAvailable(t *testing.T) {
	e := newTestEngine(t)

	snap := Snapshot{
		Workers:  testWorkers(),
		Bookings: []domain.Booking{{Date: testDate, Time: "10:00 AM", Worker: "Nick", Status: domain.StatusConfirmed}},
	}

	assert.True(t, e.IsAvailable(testDate, nil, snap, "9:00 AM", "Nick"))
	assert.False(t, e.IsAvailable(testDate, nil, snap, "10:00 AM", "Nick"))
	assert.False(t, e.IsAvailable(testDate, nil, snap, "9:00 AM", "Mary"))
	assert.False(t, e.IsAvailable(testDate, nil, snap, "9:15 AM", "Nick"))
	assert.False(t, e.IsAvailable(testDate, nil, snap, "nine", "Nick"))
}

func containsSlot(slots []AvailableSlot, displayTime, worker string) bool {
	for _, s := range slots {
		if s.Time == displayTime && s.Worker == worker {
			return true
		}
	}
	return false
}
