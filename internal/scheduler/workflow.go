package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shiftloop-dev/shiftloop/backend/internal/domain"
)

type Outcome string

const (
	OutcomeGenerated       Outcome = "generated"
	OutcomeSkippedApproved Outcome = "skipped_approved"
	OutcomeSkippedNoData   Outcome = "skipped_no_data"
)

const (
	ReasonAlreadyApproved = "该周排班表已通过审批"
	ReasonNoPreferences   = "没有员工提交该周的空闲时间"
	ReasonNotDue          = "今天不是该商家的排班日"
)

func activeOnly(employees []*domain.Employee) []*domain.Employee {
	active := []*domain.Employee{}
	for _, employee := range employees {
		if employee.IsActive {
			active = append(active, employee)
		}
	}
	return active
}

// Workflow 负责单个商家的一次排班生成：
// 确保排班表存在 -> 读取输入 -> 调用生成器 -> 校验 -> 落库 -> 投递通知。
type Workflow struct {
	store            Store
	generator        Generator
	lifecycle        *Lifecycle
	notifier         Notifier
	generatorTimeout time.Duration
}

func NewWorkflow(store Store, generator Generator, lifecycle *Lifecycle, notifier Notifier, generatorTimeout time.Duration) *Workflow {
	return &Workflow{
		store:            store,
		generator:        generator,
		lifecycle:        lifecycle,
		notifier:         notifier,
		generatorTimeout: generatorTimeout,
	}
}

// Run 为一个商家生成 weekStart 那一周的排班。
// 跳过（已审批、没有输入数据）是一等结果而不是错误；
// 返回 error 时表示该商家本次生成失败，等下一次调度自然重试。
func (w *Workflow) Run(ctx context.Context, tenant *domain.Tenant, weekStart time.Time) (*domain.Schedule, Outcome, error) {
	schedule, err := w.lifecycle.Ensure(tenant.ID, weekStart)
	if err != nil {
		return nil, "", err
	}

	// 自动任务绝不覆盖店长已经发布的排班
	if schedule.Status == domain.ScheduleStatusApproved {
		return schedule, OutcomeSkippedApproved, nil
	}

	employees, err := w.store.GetEmployeesByTenant(tenant.ID)
	if err != nil {
		return nil, "", err
	}
	// 停用的员工不参与排班，生成器看不到他们，
	// 后面的归属校验也因此会拒绝任何引用他们的班次
	employees = activeOnly(employees)

	preferences, err := w.store.GetPreferences(tenant.ID, weekStart)
	if err != nil {
		return nil, "", err
	}

	// 没有任何人提交空闲时间时调用生成器纯属浪费，产出也毫无意义
	if len(preferences) == 0 {
		return schedule, OutcomeSkippedNoData, nil
	}

	generateCtx, cancel := context.WithTimeout(ctx, w.generatorTimeout)
	defer cancel()

	result, err := w.generator.Generate(generateCtx, &GenerationRequest{
		Tenant:      tenant,
		Employees:   employees,
		Preferences: preferences,
		WeekStart:   weekStart.Format("2006-01-02"),
	})
	if err != nil {
		return nil, "", err
	}

	// 边界外的数据一律不可信，即使生成器声称只会引用给定的员工
	warnings, err := ValidateShifts(tenant, employees, result.Shifts)
	if err != nil {
		return nil, "", err
	}
	warnings = append(result.Warnings, warnings...)

	schedule, err = w.lifecycle.ApplyGenerated(schedule, result.Shifts, warnings)
	if err != nil {
		// 生成期间有人审批了这一周，当作跳过处理而不是失败
		if errors.Is(err, ErrScheduleApproved) {
			current, getErr := w.store.GetSchedule(tenant.ID, weekStart)
			if getErr != nil {
				return nil, "", getErr
			}
			return current, OutcomeSkippedApproved, nil
		}
		return nil, "", err
	}

	if w.notifier != nil {
		if err := w.notifier.PublishScheduleGenerated(tenant, schedule); err != nil {
			// 通知投递失败不影响排班结果
			slog.Error("无法投递排班完成通知", "tenantID", tenant.ID, "error", err)
		}
	}

	return schedule, OutcomeGenerated, nil
}
