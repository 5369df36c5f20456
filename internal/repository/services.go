package repository

import (
	"github.com/glossline/detailing-booking/backend/internal/domain"
)

const serviceColumns = `
	id, name, category, description, small_cents, medium_cents, large_cents, is_active, sort_order, created_at, version
`

func serviceDst(service *domain.Service) []any {
	return []any{
		&service.ID,
		&service.Name,
		&service.Category,
		&service.Description,
		&service.SmallCents,
		&service.MediumCents,
		&service.LargeCents,
		&service.IsActive,
		&service.SortOrder,
		&service.CreatedAt,
		&service.Version,
	}
}

// GetAllServices returns the catalog ordered for display. Inactive services are included only when
// includeInactive is set.
func (r *Repository) GetAllServices(includeInactive bool) ([]*domain.Service, error) {
	query := `
		SELECT ` + serviceColumns + ` FROM services
		WHERE is_active OR $1
		ORDER BY sort_order, id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		service := &domain.Service{}
		if err := rows.Scan(serviceDst(service)...); err != nil {
			return nil, err
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return services, nil
}

func (r *Repository) GetServiceByID(id int64) (*domain.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	ctx, cancel := r.queryContext()
	defer cancel()

	service := &domain.Service{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(serviceDst(service)...); err != nil {
		return nil, err
	}

	return service, nil
}

func (r *Repository) CreateService(service *domain.Service) error {
	query := `
		INSERT INTO services (name, category, description, small_cents, medium_cents, large_cents, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{
		service.Name, service.Category, service.Description,
		service.SmallCents, service.MediumCents, service.LargeCents,
		service.IsActive, service.SortOrder,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&service.ID, &service.CreatedAt, &service.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateService(service *domain.Service) error {
	query := `
		UPDATE services
		SET
			name = $1,
			category = $2,
			description = $3,
			small_cents = $4,
			medium_cents = $5,
			large_cents = $6,
			is_active = $7,
			sort_order = $8,
			version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{
		service.Name, service.Category, service.Description,
		service.SmallCents, service.MediumCents, service.LargeCents,
		service.IsActive, service.SortOrder, service.ID, service.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&service.CreatedAt, &service.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteService(id int64) error {
	query := `
		DELETE FROM services WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
