package scheduler

import "github.com/shiftloop-dev/shiftloop/backend/internal/domain"

// 全仓库只允许存在这一份“今天轮到谁排班”的过滤逻辑，
// 旧版系统曾经有两份各自为政的实现，结果行为不一致。
func selectWhere(tenants []*domain.Tenant, pred func(*domain.Tenant) bool) []*domain.Tenant {
	selected := []*domain.Tenant{}
	for _, tenant := range tenants {
		if pred(tenant) {
			selected = append(selected, tenant)
		}
	}
	return selected
}

// SelectDue 返回排班日恰好是今天的商家。纯函数，永远不会报错，
// 没有命中时返回空切片而不是 nil 错误。
func SelectDue(tenants []*domain.Tenant, today int32) []*domain.Tenant {
	return selectWhere(tenants, func(t *domain.Tenant) bool {
		return t.DeadlineDay == today
	})
}

// SelectAll 返回所有商家，供旧版“无条件全量排班”的入口使用。
func SelectAll(tenants []*domain.Tenant) []*domain.Tenant {
	return selectWhere(tenants, func(*domain.Tenant) bool {
		return true
	})
}
