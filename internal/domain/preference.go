package domain

import "time"

type PreferenceStatus string

const (
	PreferenceAvailable   PreferenceStatus = "available"
	PreferenceUnavailable PreferenceStatus = "unavailable"
	PreferenceOffRequest  PreferenceStatus = "off_request"
)

type PreferenceItem struct {
	Day       int32            `json:"day"`
	StartTime string           `json:"startTime"`
	EndTime   string           `json:"endTime"`
	Status    PreferenceStatus `json:"status"`
}

// PreferenceSet 是一名员工针对某一周提交的空闲时间。
type PreferenceSet struct {
	ID         int64            `json:"id"`
	TenantID   int64            `json:"tenantID"`
	EmployeeID int64            `json:"employeeID"`
	WeekStart  time.Time        `json:"weekStart"` // 必须是周一
	Items      []PreferenceItem `json:"items"`
	CreatedAt  time.Time        `json:"createdAt"`
	Version    int32            `json:"-"`
}
