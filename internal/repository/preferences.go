package repository

import (
	"time"

	"github.com/shiftloop-dev/shiftloop/backend/internal/domain"
)

func (r *Repository) GetPreferences(tenantID int64, weekStart time.Time) ([]*domain.PreferenceSet, error) {
	query := `
		SELECT
			ps.id,
			ps.tenant_id,
			ps.employee_id,
			ps.week_start,
			pi.day_of_week,
			pi.start_time,
			pi.end_time,
			pi.status,
			ps.created_at,
			ps.version
		FROM preference_sets ps
		LEFT JOIN preference_items pi ON ps.id = pi.preference_set_id
		WHERE ps.tenant_id = $1 AND ps.week_start = $2
		ORDER BY ps.id, pi.id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, tenantID, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	setsMap := make(map[int64]*domain.PreferenceSet)
	order := []int64{}

	for rows.Next() {
		var row struct {
			setID      int64
			tenantID   int64
			employeeID int64
			weekStart  time.Time
			day        *int32
			startTime  *string
			endTime    *string
			status     *string
			createdAt  time.Time
			version    int32
		}

		dst := []any{
			&row.setID,
			&row.tenantID,
			&row.employeeID,
			&row.weekStart,
			&row.day,
			&row.startTime,
			&row.endTime,
			&row.status,
			&row.createdAt,
			&row.version,
		}

		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if _, exists := setsMap[row.setID]; !exists {
			setsMap[row.setID] = &domain.PreferenceSet{
				ID:         row.setID,
				TenantID:   row.tenantID,
				EmployeeID: row.employeeID,
				WeekStart:  row.weekStart,
				Items:      []domain.PreferenceItem{},
				CreatedAt:  row.createdAt,
				Version:    row.version,
			}
			order = append(order, row.setID)
		}

		if row.day == nil {
			// 这个提交没有任何条目，业务上不应该出现，但还是要能容忍
			continue
		}

		setsMap[row.setID].Items = append(setsMap[row.setID].Items, domain.PreferenceItem{
			Day:       *row.day,
			StartTime: *row.startTime,
			EndTime:   *row.endTime,
			Status:    domain.PreferenceStatus(*row.status),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sets := make([]*domain.PreferenceSet, 0, len(order))
	for _, id := range order {
		sets = append(sets, setsMap[id])
	}

	return sets, nil
}

func (r *Repository) CreatePreferenceSet(set *domain.PreferenceSet) error {
	ctx, cancel := r.txContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO preference_sets (tenant_id, employee_id, week_start)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	params := []any{set.TenantID, set.EmployeeID, set.WeekStart}
	dst := []any{&set.ID, &set.CreatedAt, &set.Version}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	for _, item := range set.Items {
		query := `
			INSERT INTO preference_items (preference_set_id, day_of_week, start_time, end_time, status)
			VALUES ($1, $2, $3, $4, $5)
		`

		if _, err := tx.ExecContext(ctx, query, set.ID, item.Day, item.StartTime, item.EndTime, item.Status); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
