package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shiftloop-dev/shiftloop/backend/internal/domain"
	"github.com/shiftloop-dev/shiftloop/backend/internal/scheduler"
)

func (h *Handler) GetSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	enabled, description := h.driver.Status()

	h.successResponse(w, r, "获取调度器状态成功", map[string]any{
		"enabled":     enabled,
		"description": description,
	})
}

func (h *Handler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	report, err := h.orchestrator.RunToday(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "排班任务已执行", report)
}

func (h *Handler) TriggerRunAll(w http.ResponseWriter, r *http.Request) {
	report, err := h.orchestrator.RunAll(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "全量排班任务已执行", report)
}

func (h *Handler) GenerateTenantSchedule(w http.ResponseWriter, r *http.Request) {
	tenant := r.Context().Value(TenantCtx).(*domain.Tenant)

	// 请求体可以省略，省略时为下一周生成
	var req struct {
		WeekStart string `json:"weekStart" validate:"omitempty,datetime=2006-01-02"`
	}
	if r.ContentLength != 0 {
		if err := h.readJSON(r, &req); err != nil {
			h.badRequest(w, r, err)
			return
		}
		if err := h.validate.Struct(req); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	var weekStart time.Time
	if req.WeekStart != "" {
		parsed, err := time.Parse("2006-01-02", req.WeekStart)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		if scheduler.Weekday(parsed) != 1 {
			h.errorResponse(w, r, "周开始日期必须是周一")
			return
		}
		weekStart = parsed
	}

	// 参数全部检查通过之后才消耗冷却时间，格式错误的请求不应该烧掉冷却窗口。
	// 冷却时间用来防止有人反复点按钮打爆外部生成器
	opCtx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OpTimeout)*time.Second)
	defer cancel()

	key := fmt.Sprintf("trigger_cooldown_%d", tenant.ID)
	ok, err := h.redisClient.SetNX(opCtx, key, 1, time.Duration(h.config.Redis.TriggerCooldown)*time.Second).Result()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !ok {
		h.errorResponse(w, r, "操作过于频繁，请稍后再试")
		return
	}

	// 请求方挂断时通过 r.Context() 取消还在进行中的生成器调用
	var schedule *domain.Schedule
	var outcome scheduler.Outcome
	if !weekStart.IsZero() {
		schedule, outcome, err = h.orchestrator.RunOneForWeek(r.Context(), tenant.ID, weekStart)
	} else {
		schedule, outcome, err = h.orchestrator.RunOne(r.Context(), tenant.ID)
	}
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	switch outcome {
	case scheduler.OutcomeSkippedApproved:
		h.successResponse(w, r, scheduler.ReasonAlreadyApproved, schedule)
	case scheduler.OutcomeSkippedNoData:
		h.successResponse(w, r, scheduler.ReasonNoPreferences, schedule)
	default:
		h.successResponse(w, r, "排班生成成功", schedule)
	}
}
