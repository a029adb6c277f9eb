package domain

type NotificationMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ScheduleGeneratedData struct {
	TenantName string   `json:"tenantName"`
	WeekStart  string   `json:"weekStart"`
	ShiftCount int      `json:"shiftCount"`
	Warnings   []string `json:"warnings"`
}
