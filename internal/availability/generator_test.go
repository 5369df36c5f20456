package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

const monday = 1

func times(slots []Candidate) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Time)
	}
	return out
}

func TestCandidateSlotsDayOff(t *testing.T) {
	w := domain.Worker{Name: "Nick", Start: "06:00", End: "14:00", Interval: 90, DayOff: 0}

	for day := 0; day < 7; day++ {
		slots, err := CandidateSlots(w, day, nil)
		require.NoError(t, err)
		if day == w.DayOff {
			assert.Empty(t, slots, "day %d", day)
		} else {
			assert.NotEmpty(t, slots, "day %d", day)
		}
	}
}

func TestCandidateSlotsNoDayOffSentinel(t *testing.T) {
	w := domain.Worker{Name: "Ana", Start: "08:00", End: "10:00", Interval: 60, DayOff: domain.NoDayOff}

	for day := 0; day < 7; day++ {
		slots, err := CandidateSlots(w, day, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"8:00 AM", "9:00 AM"}, times(slots))
	}
}

func TestCandidateSlotsExtraDayOffRule(t *testing.T) {
	w := domain.Worker{Name: "Mary", Start: "08:00", End: "12:00", Interval: 60, DayOff: 0}
	rules := NewDayOffRules([]domain.DayOffRule{{WorkerName: "Mary", Day: 3}})

	slots, err := CandidateSlots(w, 3, rules)
	require.NoError(t, err)
	assert.Empty(t, slots)

	slots, err = CandidateSlots(w, 2, rules)
	require.NoError(t, err)
	assert.Len(t, slots, 4)

	other := domain.Worker{Name: "Nick", Start: "08:00", End: "12:00", Interval: 60, DayOff: 0}
	slots, err = CandidateSlots(other, 3, rules)
	require.NoError(t, err)
	assert.Len(t, slots, 4)
}

func TestCandidateSlotsInterval(t *testing.T) {
	tests := []struct {
		name   string
		worker domain.Worker
		want   []string
	}{
		{
			name:   "exclusive end",
			worker: domain.Worker{Start: "06:00", End: "14:00", Interval: 90, DayOff: domain.NoDayOff},
			want:   []string{"6:00 AM", "7:30 AM", "9:00 AM", "10:30 AM", "12:00 PM"},
		},
		{
			name:   "inclusive end off grid",
			worker: domain.Worker{Start: "06:00", End: "14:00", Interval: 90, DayOff: domain.NoDayOff, LastSlotInclusive: true},
			want:   []string{"6:00 AM", "7:30 AM", "9:00 AM", "10:30 AM", "12:00 PM", "1:30 PM"},
		},
		{
			name:   "inclusive end on grid",
			worker: domain.Worker{Start: "06:00", End: "13:30", Interval: 90, DayOff: domain.NoDayOff, LastSlotInclusive: true},
			want:   []string{"6:00 AM", "7:30 AM", "9:00 AM", "10:30 AM", "12:00 PM", "1:30 PM"},
		},
		{
			name:   "exclusive end on grid",
			worker: domain.Worker{Start: "06:00", End: "13:30", Interval: 90, DayOff: domain.NoDayOff},
			want:   []string{"6:00 AM", "7:30 AM", "9:00 AM", "10:30 AM", "12:00 PM"},
		},
		{
			name: "lunch skipped",
			worker: domain.Worker{
				Start: "09:00", End: "15:00", Interval: 60, DayOff: domain.NoDayOff,
				Lunch: &domain.TimeWindow{Start: "12:00", End: "13:00"},
			},
			want: []string{"9:00 AM", "10:00 AM", "11:00 AM", "1:00 PM", "2:00 PM"},
		},
		{
			name: "lunch off grid jumps cursor",
			worker: domain.Worker{
				Start: "08:00", End: "14:00", Interval: 60, DayOff: domain.NoDayOff,
				Lunch: &domain.TimeWindow{Start: "11:30", End: "12:30"},
			},
			want: []string{"8:00 AM", "9:00 AM", "10:00 AM", "11:00 AM", "12:30 PM"},
		},
		{
			name:   "interval wider than window",
			worker: domain.Worker{Start: "08:00", End: "09:00", Interval: 120, DayOff: domain.NoDayOff},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.worker.Name = "Nick"
			slots, err := CandidateSlots(tt.worker, monday, nil)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, slots)
				return
			}
			assert.Equal(t, tt.want, times(slots))
		})
	}
}

func TestCandidateSlotsCustomSlots(t *testing.T) {
	w := domain.Worker{
		Name: "Nick", Start: "06:30", End: "10:00", Interval: 90, DayOff: domain.NoDayOff,
		CustomSlots: []string{"06:30", "08:30", "10:00"},
		Lunch:       &domain.TimeWindow{Start: "08:00", End: "09:00"},
	}

	slots, err := CandidateSlots(w, monday, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"6:30 AM", "8:30 AM", "10:00 AM"}, times(slots))
	assert.Equal(t, []int{390, 510, 600}, []int{slots[0].Minutes, slots[1].Minutes, slots[2].Minutes})

	w.End = "09:00"
	slots, err = CandidateSlots(w, monday, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"6:30 AM", "8:30 AM"}, times(slots))

	w.End = "12:00"
	w.CustomSlots = []string{"10:00", "06:30", "05:00"}
	slots, err = CandidateSlots(w, monday, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00 AM", "6:30 AM"}, times(slots))
}

func TestCandidateSlotsOverride(t *testing.T) {
	w := domain.Worker{
		Name: "Nick", Start: "06:00", End: "14:00", Interval: 90, DayOff: 0,
		Overrides: map[int]domain.ScheduleOverride{
			6: {Start: "08:00", End: "12:00", Interval: 120},
			5: {End: "09:00"},
		},
	}

	slots, err := CandidateSlots(w, 6, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"8:00 AM", "10:00 AM"}, times(slots))

	slots, err = CandidateSlots(w, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"6:00 AM", "7:30 AM"}, times(slots))

	slots, err = CandidateSlots(w, monday, nil)
	require.NoError(t, err)
	assert.Len(t, slots, 5)
}

func TestCandidateSlotsInvalidSchedule(t *testing.T) {
	tests := []struct {
		name   string
		worker domain.Worker
	}{
		{name: "zero interval", worker: domain.Worker{Start: "06:00", End: "14:00", Interval: 0}},
		{name: "zero interval inclusive", worker: domain.Worker{Start: "06:00", End: "14:00", Interval: 0, LastSlotInclusive: true}},
		{name: "negative interval", worker: domain.Worker{Start: "06:00", End: "14:00", Interval: -30}},
		{name: "start after end", worker: domain.Worker{Start: "14:00", End: "06:00", Interval: 60}},
		{name: "start equals end", worker: domain.Worker{Start: "08:00", End: "08:00", Interval: 60}},
		{name: "malformed start", worker: domain.Worker{Start: "8am", End: "14:00", Interval: 60}},
		{name: "missing end", worker: domain.Worker{Start: "08:00", Interval: 60}},
		{name: "malformed custom slot", worker: domain.Worker{Start: "08:00", End: "14:00", CustomSlots: []string{"09:00", "nine"}}},
		{name: "reversed lunch", worker: domain.Worker{Start: "08:00", End: "14:00", Interval: 60, Lunch: &domain.TimeWindow{Start: "13:00", End: "12:00"}}},
		{name: "malformed lunch", worker: domain.Worker{Start: "08:00", End: "14:00", Interval: 60, Lunch: &domain.TimeWindow{Start: "noon", End: "13:00"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.worker.Name = "Broken"
			tt.worker.DayOff = domain.NoDayOff
			slots, err := CandidateSlots(tt.worker, monday, nil)
			assert.ErrorIs(t, err, ErrInvalidSchedule)
			assert.Empty(t, slots)
		})
	}
}

func TestCandidateSlotsCustomSlotsNeedNoInterval(t *testing.T) {
	w := domain.Worker{Name: "Nick", Start: "08:00", End: "12:00", DayOff: domain.NoDayOff, CustomSlots: []string{"09:15"}}

	slots, err := CandidateSlots(w, monday, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"9:15 AM"}, times(slots))
}
