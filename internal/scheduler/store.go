package scheduler

import (
	"context"
	"time"

	"github.com/shiftloop-dev/shiftloop/backend/internal/domain"
)

// Store 是排班引擎对持久层的全部要求，由 internal/repository 的
// Postgres 实现满足，测试中用内存实现替代。
type Store interface {
	GetAllTenants() ([]*domain.Tenant, error)
	GetTenantByID(id int64) (*domain.Tenant, error)
	GetEmployeesByTenant(tenantID int64) ([]*domain.Employee, error)
	GetPreferences(tenantID int64, weekStart time.Time) ([]*domain.PreferenceSet, error)
	GetSchedule(tenantID int64, weekStart time.Time) (*domain.Schedule, error)
	// CreateScheduleIfAbsent 必须保证 (tenantID, weekStart) 冲突时原子地什么都不做，
	// 并发调用方竞争同一个 key 时绝不能产生两行。
	CreateScheduleIfAbsent(schedule *domain.Schedule) error
	UpdateSchedule(schedule *domain.Schedule) error
}

type GenerationRequest struct {
	Tenant      *domain.Tenant          `json:"tenant"`
	Employees   []*domain.Employee      `json:"employees"`
	Preferences []*domain.PreferenceSet `json:"preferences"`
	WeekStart   string                  `json:"weekStart"`
}

type GenerationResult struct {
	Shifts   []domain.Shift `json:"shifts"`
	Warnings []string       `json:"warnings"`
}

// Generator 是外部 AI 排班服务。调用方通过 ctx 控制超时，
// 返回的班次不可信，必须经过 ValidateShifts 再落库。
type Generator interface {
	Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error)
}

// Notifier 在排班生成成功后向消息队列投递通知，投递失败不影响排班结果。
type Notifier interface {
	PublishScheduleGenerated(tenant *domain.Tenant, schedule *domain.Schedule) error
}
