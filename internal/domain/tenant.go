package domain

import "time"

type Tenant struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Timezone    string    `json:"timezone"`
	DeadlineDay int32     `json:"deadlineDay"` // 每周执行排班的日子，1 = 周一，7 = 周日
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}
