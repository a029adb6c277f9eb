package scheduler

import (
	"testing"
	"time"
)

func TestWeekday(t *testing.T) {
	// 2025-01-06 是周一，2025-01-05 是周日
	monday := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)

	if got := Weekday(monday); got != 1 {
		t.Fatalf("周一应该是 1, 实际 %d", got)
	}
	// Go 原生的周日是 0，必须被映射成 7
	if got := Weekday(sunday); got != 7 {
		t.Fatalf("周日应该是 7, 实际 %d", got)
	}
}

func TestTodayWeekday_RespectsTimezone(t *testing.T) {
	// UTC 的周日深夜在东八区已经是周一早上
	now := time.Date(2025, 1, 5, 23, 0, 0, 0, time.UTC)
	east8 := time.FixedZone("UTC+8", 8*3600)

	if got := TodayWeekday(now, time.UTC); got != 7 {
		t.Fatalf("UTC 下应该是周日(7), 实际 %d", got)
	}
	if got := TodayWeekday(now, east8); got != 1 {
		t.Fatalf("东八区下应该是周一(1), 实际 %d", got)
	}
}

func TestNextMonday_FromMonday(t *testing.T) {
	monday := time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC)

	got := NextMonday(monday)
	want := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)

	// 周一求下周一必须得到 7 天之后，绝不能返回当天
	if !got.Equal(want) {
		t.Fatalf("期望 %s, 实际 %s", want, got)
	}
}

func TestNextMonday_MidWeek(t *testing.T) {
	cases := []struct {
		name string
		ref  time.Time
		want time.Time
	}{
		{"周三", time.Date(2025, 1, 8, 15, 0, 0, 0, time.UTC), time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)},
		{"周六", time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)},
		{"周日", time.Date(2025, 1, 12, 23, 59, 0, 0, time.UTC), time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)},
	}

	for _, c := range cases {
		if got := NextMonday(c.ref); !got.Equal(c.want) {
			t.Fatalf("%s: 期望 %s, 实际 %s", c.name, c.want, got)
		}
	}
}

func TestNextMonday_AlwaysReturnsMonday(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 14; i++ {
		ref := start.AddDate(0, 0, i)
		got := NextMonday(ref)
		if Weekday(got) != 1 {
			t.Fatalf("NextMonday(%s) 返回了 %s, 不是周一", ref, got)
		}
		if !got.After(ref) {
			t.Fatalf("NextMonday(%s) 返回了不晚于输入的 %s", ref, got)
		}
	}
}
