package domain

import "time"

type Employee struct {
	ID             int64     `json:"id"`
	TenantID       int64     `json:"tenantID"`
	FullName       string    `json:"fullName"`
	MaxWeeklyHours *int32    `json:"maxWeeklyHours"` // 为 nil 时表示该员工没有周工时上限
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}
