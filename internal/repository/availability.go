package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/glossline/detailing-booking/backend/internal/availability"
	"github.com/glossline/detailing-booking/backend/internal/domain"
)

// GetAvailabilitySnapshot reads workers, the bookings of date and both rule sets from one
// consistent view of the database.
func (r *Repository) GetAvailabilitySnapshot(date string) (availability.Snapshot, error) {
	ctx, cancel := r.transactionContext()
	defer cancel()

	snap := availability.Snapshot{}

	tx, err := r.dbpool.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return snap, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if snap.Workers, err = snapshotWorkers(ctx, tx); err != nil {
		return snap, err
	}
	if snap.Bookings, err = snapshotBookings(ctx, tx, date); err != nil {
		return snap, err
	}
	if snap.Restrictions, err = snapshotRestrictions(ctx, tx); err != nil {
		return snap, err
	}
	if snap.DaysOff, err = snapshotDaysOff(ctx, tx); err != nil {
		return snap, err
	}

	if err := tx.Commit(); err != nil {
		return snap, err
	}

	return snap, nil
}

func snapshotWorkers(ctx context.Context, tx *sql.Tx) ([]domain.Worker, error) {
	rows, err := tx.QueryContext(ctx, `SELECT `+workerColumns+` FROM workers ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]domain.Worker, 0)
	for rows.Next() {
		worker, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, *worker)
	}

	return workers, rows.Err()
}

func snapshotBookings(ctx context.Context, tx *sql.Tx, date string) ([]domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + ` FROM bookings
		WHERE date = $1::date AND status NOT IN ('cancelled', 'completed')
	`

	rows, err := tx.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(bookingDst(&b)...); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

func snapshotRestrictions(ctx context.Context, tx *sql.Tx) ([]domain.CategoryRestriction, error) {
	query := `
		SELECT category, COALESCE(json_agg(worker_name ORDER BY worker_name), '[]')
		FROM category_restrictions GROUP BY category ORDER BY category
	`

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restrictions := make([]domain.CategoryRestriction, 0)
	for rows.Next() {
		var (
			restriction domain.CategoryRestriction
			names       []byte
		)
		if err := rows.Scan(&restriction.Category, &names); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(names, &restriction.WorkerNames); err != nil {
			return nil, err
		}
		restrictions = append(restrictions, restriction)
	}

	return restrictions, rows.Err()
}

func snapshotDaysOff(ctx context.Context, tx *sql.Tx) ([]domain.DayOffRule, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, worker_name, day, created_at FROM day_off_rules`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]domain.DayOffRule, 0)
	for rows.Next() {
		var rule domain.DayOffRule
		if err := rows.Scan(&rule.ID, &rule.WorkerName, &rule.Day, &rule.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}
