package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shiftloop-dev/shiftloop/backend/internal/domain"
)

type runner interface {
	Run(ctx context.Context, today int32) (*domain.RunReport, error)
}

// CronDriver 在配置的时区每天固定时刻触发一次自动排班。
// Start 和 Stop 都是幂等的，重复 Start 不会重复注册触发器。
type CronDriver struct {
	runner   runner
	location *time.Location
	spec     string
	hour     int
	minute   int

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	started bool
}

func NewCronDriver(runner runner, location *time.Location, hour int, minute int) *CronDriver {
	return &CronDriver{
		runner:   runner,
		location: location,
		spec:     fmt.Sprintf("%d %d * * *", minute, hour),
		hour:     hour,
		minute:   minute,
		cron:     cron.New(cron.WithLocation(location)),
	}
}

func (d *CronDriver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return nil
	}

	entryID, err := d.cron.AddFunc(d.spec, d.Fire)
	if err != nil {
		return err
	}
	d.entryID = entryID
	d.cron.Start()
	d.started = true

	slog.Info("自动排班调度已启动", "spec", d.spec, "timezone", d.location.String())
	return nil
}

func (d *CronDriver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return
	}

	d.cron.Remove(d.entryID)
	// Stop 只是不再触发新任务，已经在跑的任务会继续跑完
	d.cron.Stop()
	d.started = false

	slog.Info("自动排班调度已停止")
}

// Fire 同步执行一次排班任务，cron 到点时调用的就是它，测试中也可以直接调用。
// 自动任务的失败只进日志，绝不会冒泡成用户可见的错误。
func (d *CronDriver) Fire() {
	today := TodayWeekday(time.Now(), d.location)

	report, err := d.runner.Run(context.Background(), today)
	if err != nil {
		slog.Error("自动排班任务失败", "error", err)
		return
	}

	slog.Info("自动排班任务完成",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"note", report.Note,
	)
}

// Status 返回调度器当前是否启用以及人类可读的描述。
func (d *CronDriver) Status() (bool, string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.started, fmt.Sprintf("每天 %02d:%02d（%s）自动生成下一周排班", d.hour, d.minute, d.location.String())
}
