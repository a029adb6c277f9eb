package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/redis/go-redis/v9"
	"github.com/shiftloop-dev/shiftloop/backend/internal/config"
	"github.com/shiftloop-dev/shiftloop/backend/internal/repository"
	"github.com/shiftloop-dev/shiftloop/backend/internal/scheduler"
)

type Handler struct {
	validate     *validator.Validate
	config       *config.Config
	repository   *repository.Repository
	translator   ut.Translator
	orchestrator *scheduler.Orchestrator
	lifecycle    *scheduler.Lifecycle
	driver       *scheduler.CronDriver
	redisClient  *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, orch *scheduler.Orchestrator, lifecycle *scheduler.Lifecycle, driver *scheduler.CronDriver, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:     validate,
		config:       cfg,
		repository:   repo,
		translator:   trans,
		orchestrator: orch,
		lifecycle:    lifecycle,
		driver:       driver,
		redisClient:  rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 调度器相关
	h.Mux.Route("/scheduler", func(r chi.Router) {
		r.Get("/status", h.GetSchedulerStatus)
		r.Post("/run", h.TriggerRun)
		r.Post("/run-all", h.TriggerRunAll) // 兼容旧版：无视排班日为所有商家生成
	})

	// 商家维度的手动触发和查询
	h.Mux.Route("/tenants/{id}", func(r chi.Router) {
		r.Use(h.tenantInfo)
		r.Post("/generate", h.GenerateTenantSchedule)
		r.Get("/schedules/{weekStart}", h.GetTenantSchedule)
	})

	// 排班表维度的查询和审批
	h.Mux.Route("/schedules/{id}", func(r chi.Router) {
		r.Use(h.scheduleInfo)
		r.Get("/", h.GetSchedule)
		r.Post("/approve", h.ApproveSchedule)
	})
}
