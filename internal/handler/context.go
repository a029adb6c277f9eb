package handler

type ctxKey string

const (
	TenantCtx   ctxKey = "tenant"
	ScheduleCtx ctxKey = "schedule"
)
