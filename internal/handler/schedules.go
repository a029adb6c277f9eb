package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shiftloop-dev/shiftloop/backend/internal/domain"
	"github.com/shiftloop-dev/shiftloop/backend/internal/scheduler"
)

func (h *Handler) GetTenantSchedule(w http.ResponseWriter, r *http.Request) {
	tenant := r.Context().Value(TenantCtx).(*domain.Tenant)

	weekStartParam := chi.URLParam(r, "weekStart")
	weekStart, err := time.Parse("2006-01-02", weekStartParam)
	if err != nil {
		h.errorResponse(w, r, "周开始日期格式错误，应为 YYYY-MM-DD")
		return
	}
	if scheduler.Weekday(weekStart) != 1 {
		h.errorResponse(w, r, "周开始日期必须是周一")
		return
	}

	schedule, err := h.repository.GetSchedule(tenant.ID, weekStart)
	if err != nil {
		h.lookupError(w, r, err, "该周还没有排班表")
		return
	}

	h.successResponse(w, r, "获取排班表成功", schedule)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	h.successResponse(w, r, "获取排班表成功", schedule)
}

func (h *Handler) ApproveSchedule(w http.ResponseWriter, r *http.Request) {
	schedule := r.Context().Value(ScheduleCtx).(*domain.Schedule)

	approved, err := h.lifecycle.Approve(schedule)
	if err != nil {
		h.approveError(w, r, err)
		return
	}

	h.successResponse(w, r, "排班表审批成功", approved)
}
