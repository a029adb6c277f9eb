package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shiftloop-dev/shiftloop/backend/internal/domain"
)

// ── 内存版 Store ──

type mockStore struct {
	mu        sync.Mutex
	tenants   []*domain.Tenant
	employees map[int64][]*domain.Employee
	prefs     map[string][]*domain.PreferenceSet
	schedules map[string]*domain.Schedule
	nextID    int64

	failGetAllTenants bool
}

func newMockStore() *mockStore {
	return &mockStore{
		employees: make(map[int64][]*domain.Employee),
		prefs:     make(map[string][]*domain.PreferenceSet),
		schedules: make(map[string]*domain.Schedule),
	}
}

func scheduleKey(tenantID int64, weekStart time.Time) string {
	return fmt.Sprintf("%d_%s", tenantID, weekStart.Format("2006-01-02"))
}

func cloneSchedule(s *domain.Schedule) *domain.Schedule {
	clone := *s
	clone.Shifts = append([]domain.Shift{}, s.Shifts...)
	clone.Warnings = append([]string{}, s.Warnings...)
	if s.GeneratedAt != nil {
		t := *s.GeneratedAt
		clone.GeneratedAt = &t
	}
	if s.ApprovedAt != nil {
		t := *s.ApprovedAt
		clone.ApprovedAt = &t
	}
	return &clone
}

func (m *mockStore) GetAllTenants() ([]*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGetAllTenants {
		return nil, errors.New("数据库连接失败")
	}
	return append([]*domain.Tenant{}, m.tenants...), nil
}

func (m *mockStore) GetTenantByID(id int64) (*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tenant := range m.tenants {
		if tenant.ID == id {
			return tenant, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) GetEmployeesByTenant(tenantID int64) ([]*domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Employee{}, m.employees[tenantID]...), nil
}

func (m *mockStore) GetPreferences(tenantID int64, weekStart time.Time) ([]*domain.PreferenceSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.PreferenceSet{}, m.prefs[scheduleKey(tenantID, weekStart)]...), nil
}

func (m *mockStore) GetSchedule(tenantID int64, weekStart time.Time) (*domain.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	schedule, exists := m.schedules[scheduleKey(tenantID, weekStart)]
	if !exists {
		return nil, sql.ErrNoRows
	}
	return cloneSchedule(schedule), nil
}

func (m *mockStore) CreateScheduleIfAbsent(schedule *domain.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := scheduleKey(schedule.TenantID, schedule.WeekStart)
	if _, exists := m.schedules[key]; exists {
		// 和数据库的 ON CONFLICT DO NOTHING 一致
		return nil
	}
	m.nextID++
	clone := cloneSchedule(schedule)
	clone.ID = m.nextID
	clone.CreatedAt = time.Now()
	clone.Version = 1
	m.schedules[key] = clone
	return nil
}

func (m *mockStore) UpdateSchedule(schedule *domain.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, stored := range m.schedules {
		if stored.ID == schedule.ID {
			// 和数据库的乐观锁一致：版本号对不上时更新不到任何行
			if stored.Version != schedule.Version {
				return sql.ErrNoRows
			}
			schedule.Version++
			m.schedules[key] = cloneSchedule(schedule)
			return nil
		}
	}
	return sql.ErrNoRows
}

// storedSchedule 直接读出存储中的排班表，绕过接口，供断言使用。
func (m *mockStore) storedSchedule(tenantID int64, weekStart time.Time) *domain.Schedule {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schedules[scheduleKey(tenantID, weekStart)]
}

func (m *mockStore) scheduleCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.schedules)
}

// ── 函数式的 Generator 和 Notifier ──

type generatorFunc func(ctx context.Context, req *GenerationRequest) (*GenerationResult, error)

func (f generatorFunc) Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	return f(ctx, req)
}

type mockNotifier struct {
	mu        sync.Mutex
	published []int64
}

func (n *mockNotifier) PublishScheduleGenerated(tenant *domain.Tenant, _ *domain.Schedule) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.published = append(n.published, tenant.ID)
	return nil
}

func (n *mockNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.published)
}
