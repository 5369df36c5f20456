package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/glossline/detailing-booking/backend/internal/availability"
	"github.com/glossline/detailing-booking/backend/internal/domain"
)

var weekdayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func WeekdayName(day int) string {
	if day < 0 || day >= len(weekdayNames) {
		return fmt.Sprintf("day %d", day)
	}
	return weekdayNames[day]
}

// ValidateWorkerSchedule rejects schedules the slot generator could not use.
func ValidateWorkerSchedule(w *domain.Worker) error {
	if w.DayOff != domain.NoDayOff && (w.DayOff < 0 || w.DayOff > 6) {
		return fmt.Errorf("day off must be between 0 and 6, or %d for none", domain.NoDayOff)
	}

	start, err := availability.ParseClock(w.Start)
	if err != nil {
		return errors.New("start time must be HH:MM")
	}
	end, err := availability.ParseClock(w.End)
	if err != nil {
		return errors.New("end time must be HH:MM")
	}
	if start >= end {
		return errors.New("start time must be before end time")
	}
	if !w.UsesCustomSlots() && w.Interval <= 0 {
		return errors.New("interval must be a positive number of minutes")
	}

	for day, override := range w.Overrides {
		if day < 0 || day > 6 {
			return fmt.Errorf("override day %d is not a weekday", day)
		}
		if override.Start != "" {
			if _, err := availability.ParseClock(override.Start); err != nil {
				return fmt.Errorf("%s override start time must be HH:MM", WeekdayName(day))
			}
		}
		if override.End != "" {
			if _, err := availability.ParseClock(override.End); err != nil {
				return fmt.Errorf("%s override end time must be HH:MM", WeekdayName(day))
			}
		}
		if override.Interval < 0 {
			return fmt.Errorf("%s override interval must be positive", WeekdayName(day))
		}

		s, e, _ := w.EffectiveSchedule(day)
		sm, _ := availability.ParseClock(s)
		em, _ := availability.ParseClock(e)
		if sm >= em {
			return fmt.Errorf("%s override start time must be before end time", WeekdayName(day))
		}
	}

	for i, slot := range w.CustomSlots {
		if _, err := availability.ParseClock(slot); err != nil {
			return fmt.Errorf("custom slot %d must be HH:MM", i+1)
		}
	}

	if w.Lunch != nil {
		lunchStart, err := availability.ParseClock(w.Lunch.Start)
		if err != nil {
			return errors.New("lunch start time must be HH:MM")
		}
		lunchEnd, err := availability.ParseClock(w.Lunch.End)
		if err != nil {
			return errors.New("lunch end time must be HH:MM")
		}
		if lunchStart >= lunchEnd {
			return errors.New("lunch start time must be before lunch end time")
		}
	}

	return nil
}

// ValidateBookingDate checks that date is neither in the past nor beyond the booking horizon.
func ValidateBookingDate(date string, now time.Time, loc *time.Location, maxAdvanceDays int) error {
	day, err := availability.LocalDate(date, loc)
	if err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}

	now = now.In(day.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, day.Location())
	if day.Before(today) {
		return errors.New("date is in the past")
	}
	if maxAdvanceDays > 0 && day.After(today.AddDate(0, 0, maxAdvanceDays)) {
		return fmt.Errorf("bookings can be made at most %d days in advance", maxAdvanceDays)
	}

	return nil
}
