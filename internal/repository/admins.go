package repository

import (
	"github.com/glossline/detailing-booking/backend/internal/domain"
)

func (r *Repository) GetAdminByID(id int64) (*domain.Admin, error) {
	query := `
		SELECT username, password_hash, full_name, email, role, is_active, created_at, version
		FROM admins WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	admin := &domain.Admin{
		ID: id,
	}

	dst := []any{&admin.Username, &admin.PasswordHash, &admin.FullName, &admin.Email, &admin.Role, &admin.IsActive, &admin.CreatedAt, &admin.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return admin, nil
}

func (r *Repository) GetAdminByUsername(username string) (*domain.Admin, error) {
	query := `
		SELECT id, password_hash, full_name, email, role, is_active, created_at, version
		FROM admins WHERE username = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	admin := &domain.Admin{
		Username: username,
	}

	dst := []any{&admin.ID, &admin.PasswordHash, &admin.FullName, &admin.Email, &admin.Role, &admin.IsActive, &admin.CreatedAt, &admin.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	return admin, nil
}

func (r *Repository) GetAllAdmins() ([]*domain.Admin, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, role, is_active, created_at, version
		FROM admins ORDER BY id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := make([]*domain.Admin, 0)
	for rows.Next() {
		admin := &domain.Admin{}
		dst := []any{&admin.ID, &admin.Username, &admin.PasswordHash, &admin.FullName, &admin.Email, &admin.Role, &admin.IsActive, &admin.CreatedAt, &admin.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return admins, nil
}

func (r *Repository) CreateAdmin(admin *domain.Admin) error {
	query := `
		INSERT INTO admins (username, password_hash, full_name, email, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{admin.Username, admin.PasswordHash, admin.FullName, admin.Email, admin.Role}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&admin.ID, &admin.IsActive, &admin.CreatedAt, &admin.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateAdmin(admin *domain.Admin) error {
	query := `
		UPDATE admins
		SET
			password_hash = $1,
			full_name = $2,
			email = $3,
			role = $4,
			is_active = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING username, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{admin.PasswordHash, admin.FullName, admin.Email, admin.Role, admin.IsActive, admin.ID, admin.Version}
	dst := []any{&admin.Username, &admin.CreatedAt, &admin.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteAdmin(id int64) error {
	query := `
		DELETE FROM admins WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CheckAdminEmailIfExists(email string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM admins WHERE email = $1)
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	isExists := false
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}
