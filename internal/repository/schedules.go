package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shiftloop-dev/shiftloop/backend/internal/domain"
)

// CreateScheduleIfAbsent 依赖 (tenant_id, week_start) 上的唯一约束，
// 冲突时原子地什么都不做，这是 Ensure 幂等性的根基。
func (r *Repository) CreateScheduleIfAbsent(schedule *domain.Schedule) error {
	query := `
		INSERT INTO schedules (tenant_id, week_start, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id, week_start) DO NOTHING
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, schedule.TenantID, schedule.WeekStart, schedule.Status); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetSchedule(tenantID int64, weekStart time.Time) (*domain.Schedule, error) {
	query := `
		SELECT
			id,
			tenant_id,
			week_start,
			status,
			generated_at,
			approved_at,
			created_at,
			version
		FROM schedules
		WHERE tenant_id = $1 AND week_start = $2
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	return r.getSchedule(ctx, query, tenantID, weekStart)
}

func (r *Repository) GetScheduleByID(id int64) (*domain.Schedule, error) {
	query := `
		SELECT
			id,
			tenant_id,
			week_start,
			status,
			generated_at,
			approved_at,
			created_at,
			version
		FROM schedules
		WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	return r.getSchedule(ctx, query, id)
}

func (r *Repository) getSchedule(ctx context.Context, query string, args ...any) (*domain.Schedule, error) {
	schedule := &domain.Schedule{}

	var generatedAt, approvedAt sql.NullTime
	dst := []any{
		&schedule.ID,
		&schedule.TenantID,
		&schedule.WeekStart,
		&schedule.Status,
		&generatedAt,
		&approvedAt,
		&schedule.CreatedAt,
		&schedule.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return nil, err
	}

	if generatedAt.Valid {
		schedule.GeneratedAt = &generatedAt.Time
	}
	if approvedAt.Valid {
		schedule.ApprovedAt = &approvedAt.Time
	}

	if err := r.loadShifts(ctx, schedule); err != nil {
		return nil, err
	}
	if err := r.loadWarnings(ctx, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (r *Repository) loadShifts(ctx context.Context, schedule *domain.Schedule) error {
	query := `
		SELECT employee_id, day_of_week, start_time, end_time, hours
		FROM schedule_shifts
		WHERE schedule_id = $1
		ORDER BY day_of_week, start_time, employee_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, schedule.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	schedule.Shifts = []domain.Shift{}
	for rows.Next() {
		var shift domain.Shift
		if err := rows.Scan(&shift.EmployeeID, &shift.Day, &shift.StartTime, &shift.EndTime, &shift.Hours); err != nil {
			return err
		}
		schedule.Shifts = append(schedule.Shifts, shift)
	}

	return rows.Err()
}

func (r *Repository) loadWarnings(ctx context.Context, schedule *domain.Schedule) error {
	query := `
		SELECT message
		FROM schedule_warnings
		WHERE schedule_id = $1
		ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, schedule.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	schedule.Warnings = []string{}
	for rows.Next() {
		var message string
		if err := rows.Scan(&message); err != nil {
			return err
		}
		schedule.Warnings = append(schedule.Warnings, message)
	}

	return rows.Err()
}

// UpdateSchedule 在一个事务里替换排班表的状态、班次和警告。
// 版本号校验保证并发写入时只有一方能成功，竞争失败方会拿到 sql.ErrNoRows。
func (r *Repository) UpdateSchedule(schedule *domain.Schedule) error {
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
		UPDATE schedules
		SET
			status = $1,
			generated_at = $2,
			approved_at = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`

	params := []any{
		schedule.Status,
		schedule.GeneratedAt,
		schedule.ApprovedAt,
		schedule.ID,
		schedule.Version,
	}

	if err := tx.QueryRowContext(ctx, query, params...).Scan(&schedule.Version); err != nil {
		return err
	}

	// 班次和警告整体替换，不做增量更新
	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_shifts WHERE schedule_id = $1`, schedule.ID); err != nil {
		return err
	}

	for _, shift := range schedule.Shifts {
		query := `
			INSERT INTO schedule_shifts (schedule_id, employee_id, day_of_week, start_time, end_time, hours)
			VALUES ($1, $2, $3, $4, $5, $6)
		`

		if _, err := tx.ExecContext(ctx, query, schedule.ID, shift.EmployeeID, shift.Day, shift.StartTime, shift.EndTime, shift.Hours); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_warnings WHERE schedule_id = $1`, schedule.ID); err != nil {
		return err
	}

	for _, warning := range schedule.Warnings {
		query := `
			INSERT INTO schedule_warnings (schedule_id, message)
			VALUES ($1, $2)
		`

		if _, err := tx.ExecContext(ctx, query, schedule.ID, warning); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
