package scheduler

import (
	"errors"
	"time"

	"github.com/shiftloop-dev/shiftloop/backend/internal/domain"
)

var (
	// ErrScheduleApproved 表示排班表已通过审批，自动重排绝不允许覆盖它
	ErrScheduleApproved = errors.New("排班表已通过审批，禁止覆盖")
	// ErrScheduleNotGenerated 表示排班表还停留在草稿状态，没有可以审批的内容
	ErrScheduleNotGenerated = errors.New("排班表尚未生成，无法审批")
)

// Lifecycle 管理单个排班表的状态机：draft -> generated -> approved。
// 状态永远不会回退，也不允许跳级。
type Lifecycle struct {
	store Store
	now   func() time.Time
}

func NewLifecycle(store Store) *Lifecycle {
	return &Lifecycle{
		store: store,
		now:   time.Now,
	}
}

// Ensure 幂等地获取或创建 (tenantID, weekStart) 对应的草稿排班表。
// 插入冲突交给 Store 的原子语义处理，因此并发调用下也只会存在一行。
func (l *Lifecycle) Ensure(tenantID int64, weekStart time.Time) (*domain.Schedule, error) {
	draft := &domain.Schedule{
		TenantID:  tenantID,
		WeekStart: weekStart,
		Status:    domain.ScheduleStatusDraft,
		Shifts:    []domain.Shift{},
		Warnings:  []string{},
	}
	if err := l.store.CreateScheduleIfAbsent(draft); err != nil {
		return nil, err
	}

	// 无论刚才的插入有没有生效，都以数据库中实际存在的那一行为准
	return l.store.GetSchedule(tenantID, weekStart)
}

// ApplyGenerated 把生成器产出写入排班表并推进到 generated 状态。
// 允许覆盖 draft 和 generated（重排未审批的周是安全的），
// 但对 approved 必须返回 ErrScheduleApproved，这是防止自动任务
// 覆盖店长已发布排班的最后一道闸。
func (l *Lifecycle) ApplyGenerated(schedule *domain.Schedule, shifts []domain.Shift, warnings []string) (*domain.Schedule, error) {
	if schedule.Status == domain.ScheduleStatusApproved {
		return nil, ErrScheduleApproved
	}

	generatedAt := l.now()
	schedule.Status = domain.ScheduleStatusGenerated
	schedule.Shifts = shifts
	schedule.Warnings = warnings
	schedule.GeneratedAt = &generatedAt

	if err := l.store.UpdateSchedule(schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

// Approve 把排班表推进到 approved 状态。
// 对已审批的排班表重复调用是幂等的成功，方便客户端安全重试。
func (l *Lifecycle) Approve(schedule *domain.Schedule) (*domain.Schedule, error) {
	switch schedule.Status {
	case domain.ScheduleStatusApproved:
		return schedule, nil
	case domain.ScheduleStatusDraft:
		return nil, ErrScheduleNotGenerated
	}

	approvedAt := l.now()
	schedule.Status = domain.ScheduleStatusApproved
	schedule.ApprovedAt = &approvedAt

	if err := l.store.UpdateSchedule(schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}
