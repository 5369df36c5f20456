package repository

import (
	"fmt"
	"strings"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

const bookingColumns = `
	id, reference::text, to_char(date, 'YYYY-MM-DD'), slot_time, worker, COALESCE(service_id, 0), service_name,
	vehicle_size, customer_name, customer_email, customer_phone, address, notes, price_cents, status,
	created_at, updated_at, version
`

func bookingDst(b *domain.Booking) []any {
	return []any{
		&b.ID,
		&b.Reference,
		&b.Date,
		&b.Time,
		&b.Worker,
		&b.ServiceID,
		&b.ServiceName,
		&b.VehicleSize,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.Address,
		&b.Notes,
		&b.PriceCents,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.Version,
	}
}

type BookingFilter struct {
	Date   string
	Status domain.BookingStatus
	Limit  int
}

// CreateBooking inserts a booking. A second active booking for the same date, time and worker
// fails with a unique violation on bookings_active_slot_key.
func (r *Repository) CreateBooking(b *domain.Booking) error {
	query := `
		INSERT INTO bookings (
			reference, date, slot_time, worker, service_id, service_name, vehicle_size,
			customer_name, customer_email, customer_phone, address, notes, price_cents, status
		)
		VALUES ($1, $2::date, $3, $4, NULLIF($5::bigint, 0), $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{
		b.Reference, b.Date, b.Time, b.Worker, b.ServiceID, b.ServiceName, b.VehicleSize,
		b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.Address, b.Notes, b.PriceCents, b.Status,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt, &b.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetBookingByID(id int64) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	ctx, cancel := r.queryContext()
	defer cancel()

	b := &domain.Booking{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(bookingDst(b)...); err != nil {
		return nil, err
	}

	return b, nil
}

func (r *Repository) GetBookingByReference(reference string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE reference::text = $1`

	ctx, cancel := r.queryContext()
	defer cancel()

	b := &domain.Booking{}
	if err := r.dbpool.QueryRowContext(ctx, query, strings.ToLower(reference)).Scan(bookingDst(b)...); err != nil {
		return nil, err
	}

	return b, nil
}

// GetBookings lists bookings newest date first. Empty filter fields match everything.
func (r *Repository) GetBookings(filter BookingFilter) ([]*domain.Booking, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Date != "" {
		args = append(args, filter.Date)
		conditions = append(conditions, fmt.Sprintf("date = $%d::date", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY date DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b := &domain.Booking{}
		if err := rows.Scan(bookingDst(b)...); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

// UpdateBookingStatus persists b.Status if nobody changed the row since it was read.
func (r *Repository) UpdateBookingStatus(b *domain.Booking) error {
	query := `
		UPDATE bookings
		SET
			status = $1,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING updated_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, b.Status, b.ID, b.Version).Scan(&b.UpdatedAt, &b.Version); err != nil {
		return err
	}

	return nil
}

// CountUpcomingActiveBookings counts pending or confirmed bookings for worker from today on.
func (r *Repository) CountUpcomingActiveBookings(worker string) (int, error) {
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE worker = $1 AND date >= CURRENT_DATE AND status IN ('pending', 'confirmed')
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	count := 0
	if err := r.dbpool.QueryRowContext(ctx, query, worker).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
