package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/shiftloop-dev/shiftloop/backend/internal/domain"
)

const shiftTimeLayout = "15:04:05"

// ValidateShifts 按顺序检查生成器返回的班次：
//  1. 每个班次的员工必须属于该商家（致命）
//  2. 每个班次的结束时间必须大于开始时间（致命）
//  3. 同一员工同一天的班次时间段不允许重叠（致命），首尾相接是允许的
//  4. 周工时超过员工上限只产生警告，不阻止落库
//
// 校验通过后顺便填充每个班次的 Hours 字段。
// 致命错误意味着生成器的输出已经不可信，这样的结果绝不能写入存储。
func ValidateShifts(tenant *domain.Tenant, employees []*domain.Employee, shifts []domain.Shift) ([]string, error) {
	employeeByID := make(map[int64]*domain.Employee, len(employees))
	for _, employee := range employees {
		employeeByID[employee.ID] = employee
	}

	// 员工归属检查
	for _, shift := range shifts {
		if _, exists := employeeByID[shift.EmployeeID]; !exists {
			return nil, fmt.Errorf("班次引用了不属于商家 %d 的员工 %d", tenant.ID, shift.EmployeeID)
		}
	}

	// 时间段合法性检查
	for i := range shifts {
		startTime, err := time.Parse(shiftTimeLayout, shifts[i].StartTime)
		if err != nil {
			return nil, fmt.Errorf("班次 %d 的开始时间格式错误", i)
		}
		endTime, err := time.Parse(shiftTimeLayout, shifts[i].EndTime)
		if err != nil {
			return nil, fmt.Errorf("班次 %d 的结束时间格式错误", i)
		}
		if !endTime.After(startTime) {
			return nil, fmt.Errorf("班次 %d 的结束时间必须大于开始时间", i)
		}
		shifts[i].Hours = endTime.Sub(startTime).Hours()
	}

	// 同一员工同一天的班次不允许重叠
	type dayKey struct {
		employeeID int64
		day        int32
	}
	shiftsByDay := make(map[dayKey][]domain.Shift)
	for _, shift := range shifts {
		key := dayKey{employeeID: shift.EmployeeID, day: shift.Day}
		shiftsByDay[key] = append(shiftsByDay[key], shift)
	}
	for key, dayShifts := range shiftsByDay {
		sort.Slice(dayShifts, func(i, j int) bool {
			return dayShifts[i].StartTime < dayShifts[j].StartTime
		})
		for i := 1; i < len(dayShifts); i++ {
			// 时间段按 [start, end) 处理，上一班的结束时间等于下一班的开始时间不算冲突
			if dayShifts[i].StartTime < dayShifts[i-1].EndTime {
				return nil, fmt.Errorf("员工 %d 在第 %d 天存在重叠的班次", key.employeeID, key.day)
			}
		}
	}

	// 周工时上限只是业务上的软约束，生成器可能为了覆盖率有意超出，
	// 因此只生成警告交给审批人判断
	warnings := []string{}
	totalHours := make(map[int64]float64)
	order := []int64{}
	for _, shift := range shifts {
		if _, exists := totalHours[shift.EmployeeID]; !exists {
			order = append(order, shift.EmployeeID)
		}
		totalHours[shift.EmployeeID] += shift.Hours
	}
	for _, employeeID := range order {
		employee := employeeByID[employeeID]
		if employee.MaxWeeklyHours == nil {
			continue
		}
		if totalHours[employeeID] > float64(*employee.MaxWeeklyHours) {
			warnings = append(warnings, fmt.Sprintf(
				"员工 %s（ID %d）本周排班 %.1f 小时，超过上限 %d 小时",
				employee.FullName, employeeID, totalHours[employeeID], *employee.MaxWeeklyHours,
			))
		}
	}

	return warnings, nil
}
