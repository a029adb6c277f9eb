package scheduler

import "time"

// Weekday 把 Go 原生的星期编号（0 = 周日）统一转换成 1 = 周一 ... 7 = 周日。
// 全仓库只允许在这里做这个转换。
func Weekday(t time.Time) int32 {
	wd := int32(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// TodayWeekday 返回 now 在 loc 时区下是星期几（1 = 周一）。
func TodayWeekday(now time.Time, loc *time.Location) int32 {
	return Weekday(now.In(loc))
}

// NextMonday 返回 ref 之后的下一个周一的零点。
// 注意：如果 ref 本身就是周一，返回的是 7 天之后的那个周一，
// 因为产品语义永远是“为下一周排班”，绝不会返回当天。
func NextMonday(ref time.Time) time.Time {
	days := 8 - Weekday(ref)
	year, month, day := ref.Date()
	return time.Date(year, month, day+int(days), 0, 0, 0, 0, ref.Location())
}
