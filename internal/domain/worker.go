package domain

import (
	"strings"
	"time"
)

// NoDayOff marks a worker who works every day of the week.
const NoDayOff = -1

type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ScheduleOverride replaces a worker's defaults on one weekday. Empty fields fall back.
type ScheduleOverride struct {
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
	Interval int    `json:"interval,omitempty"`
}

type Worker struct {
	ID                int64                    `json:"id"`
	Name              string                   `json:"name"`
	SortOrder         int32                    `json:"order"`
	Start             string                   `json:"start"`
	End               string                   `json:"end"`
	Interval          int                      `json:"interval"`
	DayOff            int                      `json:"dayOff"`
	LastSlotInclusive bool                     `json:"lastSlotInclusive"`
	Overrides         map[int]ScheduleOverride `json:"overrides"`
	CustomSlots       []string                 `json:"customSlots"`
	Lunch             *TimeWindow              `json:"lunch"`
	CreatedAt         time.Time                `json:"createdAt"`
	Version           int32                    `json:"-"`
}

// CleanWorkerName is the form worker names are stored, matched and displayed in.
func CleanWorkerName(name string) string {
	return strings.TrimSpace(name)
}

// UsesCustomSlots reports whether the explicit slot list replaces interval generation.
func (w *Worker) UsesCustomSlots() bool {
	return len(w.CustomSlots) > 0
}

// EffectiveSchedule returns start, end and interval for a weekday after applying its override.
func (w *Worker) EffectiveSchedule(dayOfWeek int) (start, end string, interval int) {
	start, end, interval = w.Start, w.End, w.Interval

	override, ok := w.Overrides[dayOfWeek]
	if !ok {
		return start, end, interval
	}
	if override.Start != "" {
		start = override.Start
	}
	if override.End != "" {
		end = override.End
	}
	if override.Interval != 0 {
		interval = override.Interval
	}
	return start, end, interval
}

// DayOffRule is an additional weekday a named worker never works, on top of Worker.DayOff.
type DayOffRule struct {
	ID         int64     `json:"id"`
	WorkerName string    `json:"workerName"`
	Day        int       `json:"day"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CategoryRestriction limits a service category to the listed workers.
type CategoryRestriction struct {
	Category    string   `json:"category"`
	WorkerNames []string `json:"workerNames"`
}
