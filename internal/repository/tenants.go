package repository

import (
	"github.com/shiftloop-dev/shiftloop/backend/internal/domain"
)

func (r *Repository) GetAllTenants() ([]*domain.Tenant, error) {
	query := `
		SELECT
			id,
			name,
			email,
			timezone,
			deadline_day,
			created_at,
			version
		FROM tenants
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tenants := []*domain.Tenant{}
	for rows.Next() {
		var tenant domain.Tenant
		dst := []any{
			&tenant.ID,
			&tenant.Name,
			&tenant.Email,
			&tenant.Timezone,
			&tenant.DeadlineDay,
			&tenant.CreatedAt,
			&tenant.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		tenants = append(tenants, &tenant)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tenants, nil
}

func (r *Repository) GetTenantByID(id int64) (*domain.Tenant, error) {
	query := `
		SELECT
			name,
			email,
			timezone,
			deadline_day,
			created_at,
			version
		FROM tenants
		WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	tenant := &domain.Tenant{
		ID: id,
	}

	dst := []any{
		&tenant.Name,
		&tenant.Email,
		&tenant.Timezone,
		&tenant.DeadlineDay,
		&tenant.CreatedAt,
		&tenant.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return tenant, nil
}

func (r *Repository) CreateTenant(tenant *domain.Tenant) error {
	query := `
		INSERT INTO tenants (name, email, timezone, deadline_day)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{tenant.Name, tenant.Email, tenant.Timezone, tenant.DeadlineDay}
	dst := []any{&tenant.ID, &tenant.CreatedAt, &tenant.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}
