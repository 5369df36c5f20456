package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

func randomIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is gone
		panic(err)
	}
	return int(v.Int64())
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", randomIndex(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	password := make([]rune, length)
	for i := range password {
		password[i] = letters[randomIndex(len(letters))]
	}
	return string(password)
}

// GenerateBookingReference returns the public identifier customers use to look up a booking.
func GenerateBookingReference() string {
	return uuid.NewString()
}

var (
	firstNames = []string{
		"James", "Maria", "Robert", "Linda", "Michael", "Patricia", "David", "Jennifer",
		"Daniel", "Sofia", "Kevin", "Aisha", "Brian", "Emily", "Jose", "Grace",
	}
	lastNames = []string{
		"Smith", "Johnson", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez", "Lee",
		"Walker", "Hall", "Young", "King", "Wright", "Lopez", "Hill", "Scott",
	}
	streets = []string{
		"Oak St", "Maple Ave", "Pine Rd", "Cedar Ln", "Elm Dr", "Lakeview Blvd", "Sunset Way",
	}
	vehicleSizes = []domain.VehicleSize{domain.VehicleSmall, domain.VehicleMedium, domain.VehicleLarge}
)

// GenerateRandomBooking builds a pending booking for seeding. The caller picks the slot.
func GenerateRandomBooking(service *domain.Service, date, displayTime, worker string) *domain.Booking {
	first := firstNames[mrand.IntN(len(firstNames))]
	last := lastNames[mrand.IntN(len(lastNames))]
	size := vehicleSizes[mrand.IntN(len(vehicleSizes))]
	price, _ := service.PriceFor(size)

	return &domain.Booking{
		Reference:     GenerateBookingReference(),
		Date:          date,
		Time:          displayTime,
		Worker:        worker,
		ServiceID:     service.ID,
		ServiceName:   service.Name,
		VehicleSize:   size,
		CustomerName:  first + " " + last,
		CustomerEmail: fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), mrand.IntN(100)),
		CustomerPhone: fmt.Sprintf("555-%03d-%04d", mrand.IntN(1000), mrand.IntN(10000)),
		Address:       fmt.Sprintf("%d %s", mrand.IntN(9000)+100, streets[mrand.IntN(len(streets))]),
		PriceCents:    price,
		Status:        domain.StatusPending,
	}
}
