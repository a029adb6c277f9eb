package seed

import (
	"log/slog"
	"time"

	"github.com/shiftloop-dev/shiftloop/backend/internal/domain"
	"github.com/shiftloop-dev/shiftloop/backend/internal/repository"
	"github.com/shiftloop-dev/shiftloop/backend/internal/scheduler"
)

func int32Ptr(v int32) *int32 {
	return &v
}

// SeedDemoData 写入一组演示用的商家、员工和下周的空闲时间提交，
// 方便在本地把整条生成链路跑起来。
func SeedDemoData(repo *repository.Repository) {
	tenants := []*domain.Tenant{
		{Name: "江畔咖啡", Email: "manager@riverside.example.com", Timezone: "Asia/Shanghai", DeadlineDay: 3},
		{Name: "角落书店", Email: "owner@cornerbooks.example.com", Timezone: "Asia/Shanghai", DeadlineDay: 5},
	}

	employeesByTenant := [][]*domain.Employee{
		{
			{FullName: "陈嘉怡", MaxWeeklyHours: int32Ptr(20), IsActive: true},
			{FullName: "李文博", MaxWeeklyHours: nil, IsActive: true},
			{FullName: "王雨桐", MaxWeeklyHours: int32Ptr(16), IsActive: true},
		},
		{
			{FullName: "赵思远", MaxWeeklyHours: int32Ptr(24), IsActive: true},
			{FullName: "林晓霞", MaxWeeklyHours: int32Ptr(12), IsActive: true},
		},
	}

	weekStart := scheduler.NextMonday(time.Now())

	for i, tenant := range tenants {
		if err := repo.CreateTenant(tenant); err != nil {
			slog.Error("创建商家失败", "name", tenant.Name, "error", err)
			return
		}

		for _, employee := range employeesByTenant[i] {
			employee.TenantID = tenant.ID
			if err := repo.CreateEmployee(employee); err != nil {
				slog.Error("创建员工失败", "name", employee.FullName, "error", err)
				return
			}

			// 每个员工提交一份工作日白天可用的空闲时间
			set := &domain.PreferenceSet{
				TenantID:   tenant.ID,
				EmployeeID: employee.ID,
				WeekStart:  weekStart,
				Items: []domain.PreferenceItem{
					{Day: 1, StartTime: "09:00:00", EndTime: "18:00:00", Status: domain.PreferenceAvailable},
					{Day: 2, StartTime: "09:00:00", EndTime: "18:00:00", Status: domain.PreferenceAvailable},
					{Day: 3, StartTime: "09:00:00", EndTime: "13:00:00", Status: domain.PreferenceAvailable},
					{Day: 6, StartTime: "00:00:00", EndTime: "23:59:59", Status: domain.PreferenceOffRequest},
				},
			}
			if err := repo.CreatePreferenceSet(set); err != nil {
				slog.Error("创建空闲时间提交失败", "employeeID", employee.ID, "error", err)
				return
			}
		}

		slog.Info("商家演示数据已写入", "name", tenant.Name, "weekStart", weekStart.Format("2006-01-02"))
	}
}
