package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shiftloop-dev/shiftloop/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Orchestrator 驱动一次完整的排班任务：挑选今天到期的商家，
// 以受限的并发度为每个商家独立地执行 Workflow，并汇总 RunReport。
// 单飞闸门保证任何时刻最多只有一次任务在运行。
type Orchestrator struct {
	store         Store
	workflow      *Workflow
	location      *time.Location
	maxConcurrent int

	running atomic.Bool
	now     func() time.Time
}

func NewOrchestrator(store Store, workflow *Workflow, location *time.Location, maxConcurrent int) *Orchestrator {
	return &Orchestrator{
		store:         store,
		workflow:      workflow,
		location:      location,
		maxConcurrent: maxConcurrent,
		now:           time.Now,
	}
}

// Run 为排班日恰好是 today 的商家生成下一周的排班。
// 无法列出商家属于整次任务级别的失败，直接返回错误；
// 单个商家的失败只会体现在报告里，绝不影响其他商家。
func (o *Orchestrator) Run(ctx context.Context, today int32) (*domain.RunReport, error) {
	return o.run(ctx, func(tenants []*domain.Tenant) []*domain.Tenant {
		return SelectDue(tenants, today)
	})
}

// RunToday 以编排器所在时区的“今天”执行 Run，供手动触发入口使用。
func (o *Orchestrator) RunToday(ctx context.Context) (*domain.RunReport, error) {
	return o.Run(ctx, TodayWeekday(o.now(), o.location))
}

// RunAll 无视排班日为所有商家生成排班。
// 兼容旧版的全量入口，必须和 Run 共用同一套筛选与分发逻辑。
func (o *Orchestrator) RunAll(ctx context.Context) (*domain.RunReport, error) {
	return o.run(ctx, SelectAll)
}

func (o *Orchestrator) run(ctx context.Context, filter func([]*domain.Tenant) []*domain.Tenant) (*domain.RunReport, error) {
	// 单飞闸门：上一次任务还没结束时（比如生成器响应缓慢导致跨过了
	// 下一次 cron 触发点），立刻返回而不是排队
	if !o.running.CompareAndSwap(false, true) {
		return &domain.RunReport{
			StartedAt:  o.now(),
			FinishedAt: o.now(),
			Results:    []domain.TenantRunResult{},
			Note:       "已有排班任务正在运行",
		}, nil
	}
	// 必须用 defer 释放闸门，任务中途 panic 也不能把编排器永远卡在运行态
	defer o.running.Store(false)

	report := &domain.RunReport{
		StartedAt: o.now(),
		Results:   []domain.TenantRunResult{},
	}

	tenants, err := o.store.GetAllTenants()
	if err != nil {
		return nil, fmt.Errorf("无法获取商家列表: %w", err)
	}

	selected := filter(tenants)
	selectedIDs := make(map[int64]bool, len(selected))
	for _, tenant := range selected {
		selectedIDs[tenant.ID] = true
	}

	// 整次任务共用同一个周一，保证所有并发子任务写的是同一个周的 key
	weekStart := NextMonday(o.now().In(o.location))

	var mu sync.Mutex
	record := func(result domain.TenantRunResult) {
		mu.Lock()
		defer mu.Unlock()
		switch result.Outcome {
		case domain.RunOutcomeSucceeded:
			report.Succeeded++
		case domain.RunOutcomeFailed:
			report.Failed++
		case domain.RunOutcomeSkipped:
			report.Skipped++
		}
		report.Results = append(report.Results, result)
	}

	// 没轮到的商家也记录在报告里，方便排查“为什么今天没给我排班”
	for _, tenant := range tenants {
		if !selectedIDs[tenant.ID] {
			record(domain.TenantRunResult{
				TenantID:   tenant.ID,
				TenantName: tenant.Name,
				Outcome:    domain.RunOutcomeSkipped,
				Reason:     ReasonNotDue,
			})
		}
	}

	// 受限并发地为每个到期商家生成排班，避免同时打爆外部生成器
	group := &errgroup.Group{}
	group.SetLimit(o.maxConcurrent)

	for _, tenant := range selected {
		tenant := tenant
		group.Go(func() error {
			result := domain.TenantRunResult{
				TenantID:   tenant.ID,
				TenantName: tenant.Name,
			}

			// 商家级别的 panic 同样只算该商家失败
			defer func() {
				if r := recover(); r != nil {
					result.Outcome = domain.RunOutcomeFailed
					result.Reason = fmt.Sprintf("panic: %v", r)
					record(result)
				}
			}()

			_, outcome, err := o.workflow.Run(ctx, tenant, weekStart)
			switch {
			case err != nil:
				result.Outcome = domain.RunOutcomeFailed
				result.Reason = err.Error()
			case outcome == OutcomeSkippedApproved:
				result.Outcome = domain.RunOutcomeSkipped
				result.Reason = ReasonAlreadyApproved
			case outcome == OutcomeSkippedNoData:
				result.Outcome = domain.RunOutcomeSkipped
				result.Reason = ReasonNoPreferences
			default:
				result.Outcome = domain.RunOutcomeSucceeded
			}

			record(result)
			return nil
		})
	}

	_ = group.Wait()

	report.FinishedAt = o.now()
	return report, nil
}

// RunOne 是手动的单商家触发入口，绕过到期筛选和每日任务的单飞闸门，
// 但依然经过 Workflow，因此已审批的排班表仍然不会被覆盖。
// 调用方可以通过 ctx 取消本次调用中的生成器请求。
func (o *Orchestrator) RunOne(ctx context.Context, tenantID int64) (*domain.Schedule, Outcome, error) {
	return o.RunOneForWeek(ctx, tenantID, NextMonday(o.now().In(o.location)))
}

// RunOneForWeek 与 RunOne 相同，但允许调用方指定目标周，
// 用于为某个过去或更远的周重新生成尚未审批的排班。
func (o *Orchestrator) RunOneForWeek(ctx context.Context, tenantID int64, weekStart time.Time) (*domain.Schedule, Outcome, error) {
	tenant, err := o.store.GetTenantByID(tenantID)
	if err != nil {
		return nil, "", err
	}

	return o.workflow.Run(ctx, tenant, weekStart)
}
