package domain

import "time"

type RunOutcome string

const (
	RunOutcomeSucceeded RunOutcome = "succeeded"
	RunOutcomeFailed    RunOutcome = "failed"
	RunOutcomeSkipped   RunOutcome = "skipped"
)

type TenantRunResult struct {
	TenantID   int64      `json:"tenantID"`
	TenantName string     `json:"tenantName"`
	Outcome    RunOutcome `json:"outcome"`
	Reason     string     `json:"reason,omitempty"`
}

// RunReport 是一次自动排班的汇总结果，仅存在于内存中，不落库。
type RunReport struct {
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt time.Time         `json:"finishedAt"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
	Skipped    int               `json:"skipped"`
	Results    []TenantRunResult `json:"results"`
	Note       string            `json:"note,omitempty"`
}
