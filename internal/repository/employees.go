package repository

import (
	"database/sql"

	"github.com/shiftloop-dev/shiftloop/backend/internal/domain"
)

func (r *Repository) GetEmployeesByTenant(tenantID int64) ([]*domain.Employee, error) {
	query := `
		SELECT
			id,
			tenant_id,
			full_name,
			max_weekly_hours,
			is_active,
			created_at,
			version
		FROM employees
		WHERE tenant_id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []*domain.Employee{}
	for rows.Next() {
		var employee domain.Employee
		var maxWeeklyHours sql.NullInt32
		dst := []any{
			&employee.ID,
			&employee.TenantID,
			&employee.FullName,
			&maxWeeklyHours,
			&employee.IsActive,
			&employee.CreatedAt,
			&employee.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if maxWeeklyHours.Valid {
			employee.MaxWeeklyHours = &maxWeeklyHours.Int32
		}
		employees = append(employees, &employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) CreateEmployee(employee *domain.Employee) error {
	query := `
		INSERT INTO employees (tenant_id, full_name, max_weekly_hours, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{employee.TenantID, employee.FullName, employee.MaxWeeklyHours, employee.IsActive}
	dst := []any{&employee.ID, &employee.CreatedAt, &employee.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}
