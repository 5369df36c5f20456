package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

var ErrInvalidTransition = errors.New("invalid booking status transition")

var bookingTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// Normalize maps a missing or unknown status to pending so it keeps holding its slot.
func (s BookingStatus) Normalize() BookingStatus {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return s
	default:
		return StatusPending
	}
}

// Blocks reports whether a booking in this status occupies its slot.
func (s BookingStatus) Blocks() bool {
	switch s.Normalize() {
	case StatusPending, StatusConfirmed:
		return true
	default:
		return false
	}
}

func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition moves the booking to next or returns ErrInvalidTransition.
func (b *Booking) Transition(next BookingStatus) error {
	if !b.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, next)
	}
	b.Status = next
	return nil
}

type VehicleSize string

const (
	VehicleSmall  VehicleSize = "small"
	VehicleMedium VehicleSize = "medium"
	VehicleLarge  VehicleSize = "large"
)

type Booking struct {
	ID            int64         `json:"id"`
	Reference     string        `json:"reference"`
	Date          string        `json:"date"` // YYYY-MM-DD
	Time          string        `json:"time"` // h:mm AM/PM
	Worker        string        `json:"worker"`
	ServiceID     int64         `json:"serviceID"`
	ServiceName   string        `json:"serviceName"`
	VehicleSize   VehicleSize   `json:"vehicleSize"`
	CustomerName  string        `json:"customerName"`
	CustomerEmail string        `json:"customerEmail"`
	CustomerPhone string        `json:"customerPhone"`
	Address       string        `json:"address"`
	Notes         string        `json:"notes"`
	PriceCents    int64         `json:"priceCents"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	Version       int32         `json:"-"`
}

// Label is the composite display string shown in selection controls and emails.
func (b *Booking) Label() string {
	return SlotLabel(b.Time, b.Worker)
}

func SlotLabel(displayTime, worker string) string {
	return fmt.Sprintf("%s (%s)", displayTime, worker)
}

// ParseSlotLabel splits "9:00 AM (Nick)" into its time and worker parts.
func ParseSlotLabel(label string) (displayTime, worker string, ok bool) {
	label = strings.TrimSpace(label)
	open := strings.LastIndex(label, "(")
	if open <= 0 || !strings.HasSuffix(label, ")") {
		return "", "", false
	}
	displayTime = strings.TrimSpace(label[:open])
	worker = strings.TrimSpace(label[open+1 : len(label)-1])
	if displayTime == "" || worker == "" {
		return "", "", false
	}
	return displayTime, worker, true
}
