package repository

import (
	"database/sql"
	"encoding/json"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

const workerColumns = `
	id, name, sort_order, start_time, end_time, slot_interval, day_off, last_slot_inclusive,
	overrides, custom_slots, lunch_start, lunch_end, created_at, version
`

type scanner interface {
	Scan(dest ...any) error
}

func scanWorker(s scanner) (*domain.Worker, error) {
	var (
		worker      domain.Worker
		overrides   []byte
		customSlots []byte
		lunchStart  sql.NullString
		lunchEnd    sql.NullString
	)

	dst := []any{
		&worker.ID,
		&worker.Name,
		&worker.SortOrder,
		&worker.Start,
		&worker.End,
		&worker.Interval,
		&worker.DayOff,
		&worker.LastSlotInclusive,
		&overrides,
		&customSlots,
		&lunchStart,
		&lunchEnd,
		&worker.CreatedAt,
		&worker.Version,
	}
	if err := s.Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(overrides, &worker.Overrides); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(customSlots, &worker.CustomSlots); err != nil {
		return nil, err
	}
	if lunchStart.Valid && lunchEnd.Valid {
		worker.Lunch = &domain.TimeWindow{Start: lunchStart.String, End: lunchEnd.String}
	}

	return &worker, nil
}

// workerArgs returns the JSONB columns and the nullable lunch window in insert order.
func workerArgs(worker *domain.Worker) (overrides, customSlots []byte, lunchStart, lunchEnd sql.NullString, err error) {
	ov := worker.Overrides
	if ov == nil {
		ov = map[int]domain.ScheduleOverride{}
	}
	if overrides, err = json.Marshal(ov); err != nil {
		return
	}

	cs := worker.CustomSlots
	if cs == nil {
		cs = []string{}
	}
	if customSlots, err = json.Marshal(cs); err != nil {
		return
	}

	if worker.Lunch != nil {
		lunchStart = sql.NullString{String: worker.Lunch.Start, Valid: true}
		lunchEnd = sql.NullString{String: worker.Lunch.End, Valid: true}
	}
	return
}

// GetAllWorkers returns the catalog in display order, which is also the availability order.
func (r *Repository) GetAllWorkers() ([]*domain.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers ORDER BY sort_order, id`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]*domain.Worker, 0)
	for rows.Next() {
		worker, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, worker)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workers, nil
}

func (r *Repository) GetWorkerByID(id int64) (*domain.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers WHERE id = $1`

	ctx, cancel := r.queryContext()
	defer cancel()

	return scanWorker(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) CreateWorker(worker *domain.Worker) error {
	query := `
		INSERT INTO workers (
			name, sort_order, start_time, end_time, slot_interval, day_off, last_slot_inclusive,
			overrides, custom_slots, lunch_start, lunch_end
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, version
	`

	overrides, customSlots, lunchStart, lunchEnd, err := workerArgs(worker)
	if err != nil {
		return err
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{
		worker.Name, worker.SortOrder, worker.Start, worker.End, worker.Interval, worker.DayOff, worker.LastSlotInclusive,
		overrides, customSlots, lunchStart, lunchEnd,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&worker.ID, &worker.CreatedAt, &worker.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateWorker(worker *domain.Worker) error {
	query := `
		UPDATE workers
		SET
			name = $1,
			sort_order = $2,
			start_time = $3,
			end_time = $4,
			slot_interval = $5,
			day_off = $6,
			last_slot_inclusive = $7,
			overrides = $8,
			custom_slots = $9,
			lunch_start = $10,
			lunch_end = $11,
			version = version + 1
		WHERE id = $12 AND version = $13
		RETURNING created_at, version
	`

	overrides, customSlots, lunchStart, lunchEnd, err := workerArgs(worker)
	if err != nil {
		return err
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{
		worker.Name, worker.SortOrder, worker.Start, worker.End, worker.Interval, worker.DayOff, worker.LastSlotInclusive,
		overrides, customSlots, lunchStart, lunchEnd, worker.ID, worker.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&worker.CreatedAt, &worker.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteWorker(id int64) error {
	query := `
		DELETE FROM workers WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
