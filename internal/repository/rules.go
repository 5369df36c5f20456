package repository

import (
	"database/sql"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

func (r *Repository) GetAllCategoryRestrictions() ([]domain.CategoryRestriction, error) {
	query := `
		SELECT category, worker_name FROM category_restrictions ORDER BY category, worker_name
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restrictions := make([]domain.CategoryRestriction, 0)
	for rows.Next() {
		var category, workerName string
		if err := rows.Scan(&category, &workerName); err != nil {
			return nil, err
		}

		// rows arrive grouped by category
		if n := len(restrictions); n > 0 && restrictions[n-1].Category == category {
			restrictions[n-1].WorkerNames = append(restrictions[n-1].WorkerNames, workerName)
			continue
		}
		restrictions = append(restrictions, domain.CategoryRestriction{
			Category:    category,
			WorkerNames: []string{workerName},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return restrictions, nil
}

// ReplaceCategoryRestriction sets the authorized workers of a category. An empty list lifts the
// restriction.
func (r *Repository) ReplaceCategoryRestriction(restriction *domain.CategoryRestriction) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM category_restrictions WHERE category = $1`, restriction.Category); err != nil {
		return err
	}

	for _, name := range restriction.WorkerNames {
		query := `
			INSERT INTO category_restrictions (category, worker_name) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`
		if _, err := tx.ExecContext(ctx, query, restriction.Category, name); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllDayOffRules() ([]domain.DayOffRule, error) {
	query := `
		SELECT id, worker_name, day, created_at FROM day_off_rules ORDER BY worker_name, day
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
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

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rules, nil
}

func (r *Repository) CreateDayOffRule(rule *domain.DayOffRule) error {
	query := `
		INSERT INTO day_off_rules (worker_name, day) VALUES ($1, $2)
		RETURNING id, created_at
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, rule.WorkerName, rule.Day).Scan(&rule.ID, &rule.CreatedAt); err != nil {
		return err
	}

	return nil
}

// DeleteDayOffRule returns sql.ErrNoRows when the rule does not exist.
func (r *Repository) DeleteDayOffRule(id int64) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, `DELETE FROM day_off_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
