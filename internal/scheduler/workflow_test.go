package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shiftloop-dev/shiftloop/backend/internal/domain"
)

// seedTenant 往 mock 存储里放一个商家、一名员工和一份该周的空闲时间。
func seedTenant(store *mockStore) *domain.Tenant {
	tenant := &domain.Tenant{ID: 1, Name: "江畔咖啡", DeadlineDay: 3}
	store.tenants = append(store.tenants, tenant)
	store.employees[tenant.ID] = []*domain.Employee{
		{ID: 10, TenantID: tenant.ID, FullName: "陈嘉怡", IsActive: true},
	}
	store.prefs[scheduleKey(tenant.ID, testWeek)] = []*domain.PreferenceSet{
		{
			ID:         1,
			TenantID:   tenant.ID,
			EmployeeID: 10,
			WeekStart:  testWeek,
			Items: []domain.PreferenceItem{
				{Day: 1, StartTime: "09:00:00", EndTime: "18:00:00", Status: domain.PreferenceAvailable},
			},
		},
	}
	return tenant
}

func okGenerator() generatorFunc {
	return func(_ context.Context, req *GenerationRequest) (*GenerationResult, error) {
		return &GenerationResult{
			Shifts: []domain.Shift{
				{EmployeeID: req.Employees[0].ID, Day: 1, StartTime: "09:00:00", EndTime: "17:00:00"},
			},
		}, nil
	}
}

func newTestWorkflow(store *mockStore, generator Generator, notifier Notifier) *Workflow {
	return NewWorkflow(store, generator, NewLifecycle(store), notifier, time.Minute)
}

func TestWorkflow_Success(t *testing.T) {
	store := newMockStore()
	tenant := seedTenant(store)
	notifier := &mockNotifier{}
	workflow := newTestWorkflow(store, okGenerator(), notifier)

	schedule, outcome, err := workflow.Run(context.Background(), tenant, testWeek)
	if err != nil {
		t.Fatalf("Run 失败: %v", err)
	}
	if outcome != OutcomeGenerated {
		t.Fatalf("期望 generated, 实际 %s", outcome)
	}
	if schedule.Status != domain.ScheduleStatusGenerated {
		t.Fatalf("排班表状态应该是 generated, 实际 %s", schedule.Status)
	}
	if len(schedule.Shifts) != 1 {
		t.Fatalf("期望 1 个班次, 实际 %d", len(schedule.Shifts))
	}
	if schedule.Shifts[0].Hours != 8 {
		t.Fatalf("校验应该补齐班次时长, 期望 8, 实际 %v", schedule.Shifts[0].Hours)
	}
	if len(schedule.Warnings) != 0 {
		t.Fatalf("不应该有警告, 实际 %v", schedule.Warnings)
	}

	stored := store.storedSchedule(tenant.ID, testWeek)
	if stored == nil || stored.Status != domain.ScheduleStatusGenerated {
		t.Fatal("生成结果应该被持久化")
	}
	if notifier.count() != 1 {
		t.Fatalf("生成成功后应该投递恰好 1 条通知, 实际 %d 条", notifier.count())
	}
}

func TestWorkflow_SkipsApprovedWithoutCallingGenerator(t *testing.T) {
	store := newMockStore()
	tenant := seedTenant(store)
	lifecycle := NewLifecycle(store)

	schedule, _ := lifecycle.Ensure(tenant.ID, testWeek)
	shifts := []domain.Shift{{EmployeeID: 10, Day: 1, StartTime: "09:00:00", EndTime: "17:00:00", Hours: 8}}
	schedule, _ = lifecycle.ApplyGenerated(schedule, shifts, nil)
	if _, err := lifecycle.Approve(schedule); err != nil {
		t.Fatalf("审批失败: %v", err)
	}

	generator := generatorFunc(func(_ context.Context, _ *GenerationRequest) (*GenerationResult, error) {
		t.Fatal("已审批的排班表不应该触发生成器调用")
		return nil, nil
	})
	notifier := &mockNotifier{}
	workflow := newTestWorkflow(store, generator, notifier)

	got, outcome, err := workflow.Run(context.Background(), tenant, testWeek)
	if err != nil {
		t.Fatalf("Run 失败: %v", err)
	}
	if outcome != OutcomeSkippedApproved {
		t.Fatalf("期望 skipped_approved, 实际 %s", outcome)
	}
	if got.Status != domain.ScheduleStatusApproved {
		t.Fatalf("返回的排班表应该保持 approved, 实际 %s", got.Status)
	}
	if notifier.count() != 0 {
		t.Fatal("跳过时不应该投递通知")
	}
}

func TestWorkflow_SkipsWhenNoPreferences(t *testing.T) {
	store := newMockStore()
	tenant := &domain.Tenant{ID: 1, Name: "角落书店", DeadlineDay: 5}
	store.tenants = append(store.tenants, tenant)
	store.employees[tenant.ID] = []*domain.Employee{{ID: 10, TenantID: tenant.ID, FullName: "李文博", IsActive: true}}

	generator := generatorFunc(func(_ context.Context, _ *GenerationRequest) (*GenerationResult, error) {
		t.Fatal("没有空闲时间数据时不应该调用生成器")
		return nil, nil
	})
	workflow := newTestWorkflow(store, generator, &mockNotifier{})

	schedule, outcome, err := workflow.Run(context.Background(), tenant, testWeek)
	if err != nil {
		t.Fatalf("Run 失败: %v", err)
	}
	if outcome != OutcomeSkippedNoData {
		t.Fatalf("期望 skipped_no_data, 实际 %s", outcome)
	}
	// 跳过之前草稿行已经建好，下周员工提交数据后可以直接续用
	if schedule.Status != domain.ScheduleStatusDraft {
		t.Fatalf("排班表应该停留在草稿, 实际 %s", schedule.Status)
	}
	if store.scheduleCount() != 1 {
		t.Fatalf("应该留下一行草稿, 实际 %d 行", store.scheduleCount())
	}
}

func TestWorkflow_GeneratorErrorLeavesDraft(t *testing.T) {
	store := newMockStore()
	tenant := seedTenant(store)
	generator := generatorFunc(func(_ context.Context, _ *GenerationRequest) (*GenerationResult, error) {
		return nil, errors.New("生成服务返回 500")
	})
	workflow := newTestWorkflow(store, generator, &mockNotifier{})

	_, _, err := workflow.Run(context.Background(), tenant, testWeek)
	if err == nil {
		t.Fatal("生成器失败应该冒泡成错误")
	}

	stored := store.storedSchedule(tenant.ID, testWeek)
	if stored.Status != domain.ScheduleStatusDraft {
		t.Fatalf("失败后排班表应该停留在草稿, 实际 %s", stored.Status)
	}
	if len(stored.Shifts) != 0 {
		t.Fatalf("失败后不应该写入任何班次, 实际 %v", stored.Shifts)
	}
}

func TestWorkflow_InvalidGeneratorOutputIsNotPersisted(t *testing.T) {
	store := newMockStore()
	tenant := seedTenant(store)
	// 生成器引用了一个根本不存在的员工
	generator := generatorFunc(func(_ context.Context, _ *GenerationRequest) (*GenerationResult, error) {
		return &GenerationResult{
			Shifts: []domain.Shift{
				{EmployeeID: 999, Day: 1, StartTime: "09:00:00", EndTime: "17:00:00"},
			},
		}, nil
	})
	notifier := &mockNotifier{}
	workflow := newTestWorkflow(store, generator, notifier)

	_, _, err := workflow.Run(context.Background(), tenant, testWeek)
	if err == nil {
		t.Fatal("非法的生成结果应该被拒绝")
	}

	stored := store.storedSchedule(tenant.ID, testWeek)
	if stored.Status != domain.ScheduleStatusDraft || len(stored.Shifts) != 0 {
		t.Fatal("非法结果不应该被持久化")
	}
	if notifier.count() != 0 {
		t.Fatal("失败时不应该投递通知")
	}
}

func TestWorkflow_GeneratorTimeout(t *testing.T) {
	store := newMockStore()
	tenant := seedTenant(store)
	generator := generatorFunc(func(ctx context.Context, _ *GenerationRequest) (*GenerationResult, error) {
		// 模拟一个只会在超时后返回的生成服务
		<-ctx.Done()
		return nil, ctx.Err()
	})
	workflow := NewWorkflow(store, generator, NewLifecycle(store), &mockNotifier{}, 10*time.Millisecond)

	start := time.Now()
	_, _, err := workflow.Run(context.Background(), tenant, testWeek)
	if err == nil {
		t.Fatal("生成器超时应该冒泡成错误")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("超时应该在配置的时限附近生效, 实际等了 %s", elapsed)
	}
}

func TestWorkflow_ExcludesInactiveEmployees(t *testing.T) {
	store := newMockStore()
	tenant := seedTenant(store)
	store.employees[tenant.ID] = append(store.employees[tenant.ID],
		&domain.Employee{ID: 11, TenantID: tenant.ID, FullName: "周子航", IsActive: false})

	generator := generatorFunc(func(_ context.Context, req *GenerationRequest) (*GenerationResult, error) {
		for _, employee := range req.Employees {
			if !employee.IsActive {
				t.Errorf("停用的员工不应该出现在生成请求里: %s", employee.FullName)
			}
		}
		// 生成器擅自给停用的员工排了班
		return &GenerationResult{
			Shifts: []domain.Shift{
				{EmployeeID: 11, Day: 1, StartTime: "09:00:00", EndTime: "17:00:00"},
			},
		}, nil
	})
	workflow := newTestWorkflow(store, generator, &mockNotifier{})

	_, _, err := workflow.Run(context.Background(), tenant, testWeek)
	if err == nil {
		t.Fatal("引用停用员工的班次应该被拒绝")
	}

	stored := store.storedSchedule(tenant.ID, testWeek)
	if stored.Status != domain.ScheduleStatusDraft || len(stored.Shifts) != 0 {
		t.Fatal("停用员工的班次不应该被持久化")
	}
}

func TestWorkflow_MergesGeneratorAndValidationWarnings(t *testing.T) {
	store := newMockStore()
	tenant := seedTenant(store)
	store.employees[tenant.ID][0].MaxWeeklyHours = hoursPtr(6)

	generator := generatorFunc(func(_ context.Context, _ *GenerationRequest) (*GenerationResult, error) {
		return &GenerationResult{
			Shifts: []domain.Shift{
				{EmployeeID: 10, Day: 1, StartTime: "09:00:00", EndTime: "17:00:00"},
			},
			Warnings: []string{"部分时段人手不足"},
		}, nil
	})
	workflow := newTestWorkflow(store, generator, &mockNotifier{})

	schedule, outcome, err := workflow.Run(context.Background(), tenant, testWeek)
	if err != nil {
		t.Fatalf("Run 失败: %v", err)
	}
	if outcome != OutcomeGenerated {
		t.Fatalf("软约束警告不应该阻止生成, 实际 %s", outcome)
	}
	// 生成器自带的警告在前，校验产生的超时警告在后
	if len(schedule.Warnings) != 2 {
		t.Fatalf("期望 2 条警告, 实际 %v", schedule.Warnings)
	}
	if schedule.Warnings[0] != "部分时段人手不足" {
		t.Fatalf("生成器警告应该排在最前, 实际 %v", schedule.Warnings)
	}
}
