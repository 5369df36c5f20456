package domain

import "time"

type Service struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	SmallCents  int64     `json:"smallCents"`
	MediumCents int64     `json:"mediumCents"`
	LargeCents  int64     `json:"largeCents"`
	IsActive    bool      `json:"isActive"`
	SortOrder   int32     `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}

// PriceFor returns the price in cents for a vehicle size, or false for an unknown size.
func (s *Service) PriceFor(size VehicleSize) (int64, bool) {
	switch size {
	case VehicleSmall:
		return s.SmallCents, true
	case VehicleMedium:
		return s.MediumCents, true
	case VehicleLarge:
		return s.LargeCents, true
	default:
		return 0, false
	}
}
