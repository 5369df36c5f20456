package utils

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

func validWorker() domain.Worker {
	return domain.Worker{
		Name:     "Nick",
		Start:    "06:00",
		End:      "14:00",
		Interval: 90,
		DayOff:   0,
	}
}

func TestValidateWorkerSchedule(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(w *domain.Worker)
		wantErr string
	}{
		{name: "valid", mutate: func(w *domain.Worker) {}},
		{name: "no day off", mutate: func(w *domain.Worker) { w.DayOff = domain.NoDayOff }},
		{name: "day off out of range", mutate: func(w *domain.Worker) { w.DayOff = 7 }, wantErr: "day off"},
		{name: "bad start", mutate: func(w *domain.Worker) { w.Start = "6am" }, wantErr: "start time must be HH:MM"},
		{name: "start after end", mutate: func(w *domain.Worker) { w.Start = "15:00" }, wantErr: "before end time"},
		{name: "zero interval", mutate: func(w *domain.Worker) { w.Interval = 0 }, wantErr: "interval"},
		{
			name: "custom slots without interval",
			mutate: func(w *domain.Worker) {
				w.Interval = 0
				w.CustomSlots = []string{"06:30", "08:30"}
			},
		},
		{name: "bad custom slot", mutate: func(w *domain.Worker) { w.CustomSlots = []string{"06:30", "8.30"} }, wantErr: "custom slot 2"},
		{
			name: "override day out of range",
			mutate: func(w *domain.Worker) {
				w.Overrides = map[int]domain.ScheduleOverride{9: {Start: "08:00"}}
			},
			wantErr: "override day 9",
		},
		{
			name: "override makes window empty",
			mutate: func(w *domain.Worker) {
				w.Overrides = map[int]domain.ScheduleOverride{6: {Start: "15:00"}}
			},
			wantErr: "Saturday override",
		},
		{
			name: "valid override",
			mutate: func(w *domain.Worker) {
				w.Overrides = map[int]domain.ScheduleOverride{6: {Start: "08:00", End: "12:00", Interval: 60}}
			},
		},
		{name: "reversed lunch", mutate: func(w *domain.Worker) { w.Lunch = &domain.TimeWindow{Start: "13:00", End: "12:00"} }, wantErr: "lunch"},
		{name: "valid lunch", mutate: func(w *domain.Worker) { w.Lunch = &domain.TimeWindow{Start: "12:00", End: "13:00"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := validWorker()
			tt.mutate(&w)

			err := ValidateWorkerSchedule(&w)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateBookingDate(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	// 11pm in Los Angeles is already the next day in UTC.
	now := time.Date(2025, time.August, 18, 23, 0, 0, 0, loc)

	assert.NoError(t, ValidateBookingDate("2025-08-18", now, loc, 60))
	assert.NoError(t, ValidateBookingDate("2025-10-17", now, loc, 60))
	assert.ErrorContains(t, ValidateBookingDate("2025-08-17", now, loc, 60), "past")
	assert.ErrorContains(t, ValidateBookingDate("2025-10-18", now, loc, 60), "advance")
	assert.ErrorContains(t, ValidateBookingDate("18/08/2025", now, loc, 60), "YYYY-MM-DD")
	assert.NoError(t, ValidateBookingDate("2026-12-01", now, loc, 0))
}

func TestGenerateRandomSecrets(t *testing.T) {
	otp := GenerateRandomOTP()
	assert.Len(t, otp, 6)
	assert.Regexp(t, `^\d{6}$`, otp)

	assert.Len(t, []rune(GenerateRandomPassword(12)), 12)
	assert.NotEqual(t, GenerateBookingReference(), GenerateBookingReference())
}

func TestGenerateRandomBooking(t *testing.T) {
	service := &domain.Service{ID: 3, Name: "Interior Detail", SmallCents: 9900, MediumCents: 12900, LargeCents: 15900}

	b := GenerateRandomBooking(service, "2025-08-18", "9:00 AM", "Nick")
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, int64(3), b.ServiceID)
	assert.Equal(t, "9:00 AM (Nick)", b.Label())
	assert.Contains(t, []int64{9900, 12900, 15900}, b.PriceCents)
	assert.NotEmpty(t, b.Reference)
}
