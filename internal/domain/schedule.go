package domain

import "time"

type ScheduleStatus string

const (
	ScheduleStatusDraft     ScheduleStatus = "draft"
	ScheduleStatusGenerated ScheduleStatus = "generated"
	ScheduleStatusApproved  ScheduleStatus = "approved"
)

type Shift struct {
	EmployeeID int64   `json:"employeeID"`
	Day        int32   `json:"day"` // 1 = 周一，7 = 周日
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Hours      float64 `json:"hours"`
}

// Schedule 是排班的聚合根，同一个 (tenantID, weekStart) 只允许存在一份。
// 状态只能沿 draft -> generated -> approved 单向推进。
type Schedule struct {
	ID          int64          `json:"id"`
	TenantID    int64          `json:"tenantID"`
	WeekStart   time.Time      `json:"weekStart"`
	Status      ScheduleStatus `json:"status"`
	Shifts      []Shift        `json:"shifts"`
	Warnings    []string       `json:"warnings"`
	GeneratedAt *time.Time     `json:"generatedAt"`
	ApprovedAt  *time.Time     `json:"approvedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	Version     int32          `json:"-"`
}
