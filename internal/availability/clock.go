package availability

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidClock = errors.New("invalid clock time")
	ErrInvalidDate  = errors.New("invalid date")
)

const DateLayout = "2006-01-02"

var fallbackDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseClock converts a 24-hour "HH:MM" string to minutes after midnight.
func ParseClock(hhmm string) (int, error) {
	hour, minute, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok || len(hour) < 1 || len(hour) > 2 || len(minute) != 2 || !isDigits(hour) || !isDigits(minute) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, hhmm)
	}

	h, _ := strconv.Atoi(hour)
	m, _ := strconv.Atoi(minute)
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, hhmm)
	}

	return h*60 + m, nil
}

// FormatClock renders minutes after midnight as "h:mm AM/PM".
func FormatClock(minutes int) string {
	h := (minutes / 60) % 24
	m := minutes % 60

	period := "AM"
	if h >= 12 {
		period = "PM"
	}

	h %= 12
	if h == 0 {
		h = 12
	}

	return fmt.Sprintf("%d:%02d %s", h, m, period)
}

// ParseDisplayTime is the inverse of FormatClock.
func ParseDisplayTime(s string) (int, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	hour, minute, ok := strings.Cut(fields[0], ":")
	if !ok || len(hour) < 1 || len(hour) > 2 || len(minute) != 2 || !isDigits(hour) || !isDigits(minute) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	h, _ := strconv.Atoi(hour)
	m, _ := strconv.Atoi(minute)
	if h < 1 || h > 12 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	h %= 12
	switch strings.ToUpper(fields[1]) {
	case "AM":
	case "PM":
		h += 12
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	return h*60 + m, nil
}

// LocalDate resolves "YYYY-MM-DD" to midnight of that calendar day in loc.
//
// The date is built from its components, never parsed as an instant: a bare date read as UTC
// midnight lands on the previous day anywhere west of Greenwich.
func LocalDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	date = strings.TrimSpace(date)
	parts := strings.Split(date, "-")
	if len(parts) == 3 && isDigits(parts[0]) && isDigits(parts[1]) && isDigits(parts[2]) {
		y, _ := strconv.Atoi(parts[0])
		m, _ := strconv.Atoi(parts[1])
		d, _ := strconv.Atoi(parts[2])
		return time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc), nil
	}

	for _, layout := range fallbackDateLayouts {
		if t, err := time.ParseInLocation(layout, date, loc); err == nil {
			t = t.In(loc)
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
}

// LocalDayOfWeek returns the weekday of date in loc, 0 = Sunday.
func LocalDayOfWeek(date string, loc *time.Location) (int, error) {
	t, err := LocalDate(date, loc)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
