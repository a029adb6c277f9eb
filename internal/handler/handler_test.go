package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shiftloop-dev/shiftloop/backend/internal/config"
	"github.com/shiftloop-dev/shiftloop/backend/internal/scheduler"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler(&config.Config{}, nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("无法创建 handler: %v", err)
	}
	return h
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("无法解析响应: %v", err)
	}
	return resp
}

func TestLookupError_NoRows(t *testing.T) {
	h := newTestHandler(t)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/tenants/1", nil)

	h.lookupError(w, r, sql.ErrNoRows, "商家不存在")

	if w.Code != http.StatusOK {
		t.Fatalf("查不到记录应该返回 200, 实际 %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Success || resp.Message != "商家不存在" {
		t.Fatalf("期望业务提示, 实际 %+v", resp)
	}
}

func TestLookupError_OtherErrorsAreInternal(t *testing.T) {
	h := newTestHandler(t)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/tenants/1", nil)

	h.lookupError(w, r, errors.New("连接被重置"), "商家不存在")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("其他错误应该返回 500, 实际 %d", w.Code)
	}
	resp := decodeResponse(t, w)
	// 内部错误的细节不能泄露给调用方
	if resp.Success || resp.Message != "服务器内部错误" {
		t.Fatalf("期望统一的内部错误提示, 实际 %+v", resp)
	}
}

func TestApproveError_NotGenerated(t *testing.T) {
	h := newTestHandler(t)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/schedules/1/approve", nil)

	h.approveError(w, r, scheduler.ErrScheduleNotGenerated)

	if w.Code != http.StatusOK {
		t.Fatalf("状态机错误应该返回 200, 实际 %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Success || resp.Message != scheduler.ErrScheduleNotGenerated.Error() {
		t.Fatalf("期望原样返回状态机错误, 实际 %+v", resp)
	}
}

func TestApproveError_OtherErrorsAreInternal(t *testing.T) {
	h := newTestHandler(t)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/schedules/1/approve", nil)

	h.approveError(w, r, errors.New("版本冲突"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("其他错误应该返回 500, 实际 %d", w.Code)
	}
}
