package seed

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/glossline/detailing-booking/backend/internal/availability"
	"github.com/glossline/detailing-booking/backend/internal/domain"
	"github.com/glossline/detailing-booking/backend/internal/repository"
	"github.com/glossline/detailing-booking/backend/internal/utils"
)

//go:embed data/services.csv
var servicesCSV string

// RestrictedCategory is only performed by RestrictedWorker in the demo catalog.
const (
	RestrictedCategory = "detailing"
	RestrictedWorker   = "Nick"
)

// DemoWorkers covers every schedule shape the slot generator supports.
func DemoWorkers() []*domain.Worker {
	return []*domain.Worker{
		{
			Name:      "Nick",
			SortOrder: 1,
			Start:     "09:00",
			End:       "17:00",
			Interval:  120,
			DayOff:    0,
			Overrides: map[int]domain.ScheduleOverride{
				6: {End: "13:00"},
			},
		},
		{
			Name:              "Mary",
			SortOrder:         2,
			Start:             "06:00",
			End:               "14:00",
			Interval:          90,
			DayOff:            1,
			LastSlotInclusive: true,
			Lunch:             &domain.TimeWindow{Start: "10:30", End: "11:30"},
		},
		{
			Name:        "Ana",
			SortOrder:   3,
			Start:       "08:00",
			End:         "18:00",
			DayOff:      domain.NoDayOff,
			CustomSlots: []string{"08:30", "11:00", "14:15", "16:45"},
		},
	}
}

// ParseServices reads the service catalog CSV: name, category, small, medium, large, description.
func ParseServices(r io.Reader) ([]*domain.Service, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty service catalog")
	}

	services := make([]*domain.Service, 0, len(records)-1)
	for i, record := range records[1:] {
		line := i + 2
		if len(record) != 6 {
			return nil, fmt.Errorf("line %d: want 6 fields, got %d", line, len(record))
		}

		var prices [3]int64
		for j := range prices {
			prices[j], err = strconv.ParseInt(strings.TrimSpace(record[2+j]), 10, 64)
			if err != nil || prices[j] < 0 {
				return nil, fmt.Errorf("line %d: bad price %q", line, record[2+j])
			}
		}

		services = append(services, &domain.Service{
			Name:        strings.TrimSpace(record[0]),
			Category:    strings.ToLower(strings.TrimSpace(record[1])),
			SmallCents:  prices[0],
			MediumCents: prices[1],
			LargeCents:  prices[2],
			Description: strings.TrimSpace(record[5]),
			IsActive:    true,
			SortOrder:   int32(i + 1),
		})
	}

	return services, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// SeedCatalog inserts the demo workers, services and rules. Rows that already exist are skipped.
func SeedCatalog(r *repository.Repository) error {
	workers := 0
	for _, w := range DemoWorkers() {
		if err := utils.ValidateWorkerSchedule(w); err != nil {
			return fmt.Errorf("worker %s: %w", w.Name, err)
		}
		if err := r.CreateWorker(w); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return fmt.Errorf("insert worker %s: %w", w.Name, err)
		}
		workers++
	}

	services, err := ParseServices(strings.NewReader(servicesCSV))
	if err != nil {
		return err
	}
	inserted := 0
	for _, s := range services {
		if err := r.CreateService(s); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return fmt.Errorf("insert service %s: %w", s.Name, err)
		}
		inserted++
	}

	restriction := &domain.CategoryRestriction{
		Category:    RestrictedCategory,
		WorkerNames: []string{RestrictedWorker},
	}
	if err := r.ReplaceCategoryRestriction(restriction); err != nil {
		return fmt.Errorf("restrict %s: %w", RestrictedCategory, err)
	}

	// Ana works every day except Wednesdays
	if err := r.CreateDayOffRule(&domain.DayOffRule{WorkerName: "Ana", Day: 3}); err != nil && !isUniqueViolation(err) {
		return fmt.Errorf("insert day-off rule: %w", err)
	}

	slog.Info("demo catalog seeded", slog.Int("workers", workers), slog.Int("services", inserted))
	return nil
}

// SeedBookings inserts up to n pending bookings on date, each in a slot that is still open.
func SeedBookings(r *repository.Repository, engine *availability.Engine, date string, n int) (int, error) {
	services, err := r.GetAllServices(false)
	if err != nil {
		return 0, err
	}
	if len(services) == 0 {
		return 0, errors.New("no active services, seed the catalog first")
	}

	snap, err := r.GetAvailabilitySnapshot(date)
	if err != nil {
		return 0, err
	}

	created := 0
	for i := 0; i < n; i++ {
		service := services[rand.IntN(len(services))]

		slots := engine.AvailableSlots(date, service, snap)
		if len(slots) == 0 {
			slog.Warn("no open slot left", slog.String("date", date), slog.String("service", service.Name))
			continue
		}
		slot := slots[rand.IntN(len(slots))]

		booking := utils.GenerateRandomBooking(service, date, slot.Time, slot.Worker)
		if err := r.CreateBooking(booking); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return created, err
		}

		// later picks must see this booking
		snap.Bookings = append(snap.Bookings, *booking)
		created++
	}

	return created, nil
}
