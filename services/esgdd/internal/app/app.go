package app

import (
	"context"
	"fmt"
	"time"

	"github.com/esgdesk/pkg/auth"
	"github.com/esgdesk/pkg/config"
	"github.com/esgdesk/pkg/metrics"
	"github.com/esgdesk/pkg/middleware"
	"github.com/esgdesk/pkg/router"
	"github.com/esgdesk/pkg/scheduler"
	"github.com/esgdesk/pkg/storage"
	"github.com/esgdesk/services/esgdd/internal/escap"
	"github.com/esgdesk/services/esgdd/internal/ghg"
	"github.com/esgdesk/services/esgdd/internal/model"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ServiceName 服务名
const ServiceName = "esgdd-service"

// 功能开关名称, 与团队服务的功能配置一致
const (
	FeatureESGDD = "esgdd"
	FeatureGHG   = "ghg-accounting"
)

const (
	jobOverdue      = "escap_overdue"
	jobPolicyReload = "casbin_reload"
	policyReload    = "@every 1m"
	jobTimeout      = 5 * time.Minute
)

// Deps 应用依赖
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Metrics *metrics.Metrics
	// Store 为空时按配置创建
	Store storage.Store
}

// App 尽调服务应用
type App struct {
	Fiber     *fiber.App
	JWT       *auth.JWTManager
	Policies  *auth.CasbinService
	Escap     *escap.Service
	Ghg       *ghg.Service
	Scheduler *scheduler.Scheduler
}

// Models 需要迁移的模型
func Models() []interface{} {
	return []interface{}{
		&model.CapPlan{},
		&model.CapItem{},
		&model.CapItemHistory{},
		&model.GhgEntry{},
	}
}

// New 组装尽调服务
func New(d Deps) (*App, error) {
	cfg := d.Config
	if err := d.DB.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	enforcer, err := auth.NewEnforcer(d.DB, &cfg.Casbin)
	if err != nil {
		return nil, err
	}
	policies := auth.NewCasbinService(enforcer)

	store := d.Store
	if store == nil {
		store, err = newStore(&cfg.Storage)
		if err != nil {
			return nil, err
		}
	}

	escapSvc := escap.NewService(escap.NewRepository(d.DB), d.Metrics)
	ghgSvc := ghg.NewService(ghg.NewRepository(d.DB), store, d.Metrics)

	sched := scheduler.New(d.Metrics, jobTimeout)
	if err := sched.Add(jobOverdue, cfg.Escap.OverdueCron, func(ctx context.Context) error {
		_, err := escapSvc.MarkOverdue(ctx)
		return err
	}); err != nil {
		return nil, fmt.Errorf("注册逾期任务失败: %w", err)
	}
	if err := sched.Add(jobPolicyReload, policyReload, func(ctx context.Context) error {
		return policies.LoadPolicy()
	}); err != nil {
		return nil, fmt.Errorf("注册策略刷新任务失败: %w", err)
	}

	jwtManager := auth.NewJWTManager(&cfg.JWT)

	app := fiber.New(fiber.Config{
		AppName:               ServiceName,
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
		BodyLimit:             cfg.Server.HTTP.BodyLimitMB * 1024 * 1024,
		ReadTimeout:           time.Duration(cfg.Server.HTTP.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.Server.HTTP.WriteTimeout) * time.Second,
	})

	app.Use(middleware.Recovery())
	app.Use(middleware.RequestID())
	app.Use(middleware.Cors())
	app.Use(middleware.Logger(middleware.LoggerConfig{SkipPaths: []string{"/health", cfg.Metrics.Path}}))
	if d.Metrics != nil && cfg.Metrics.Enable {
		app.Use(d.Metrics.Middleware("/health", cfg.Metrics.Path))
		app.Get(cfg.Metrics.Path, d.Metrics.Handler())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"service": ServiceName,
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	middlewares := map[string]fiber.Handler{
		"jwt":   middleware.JWTAuth(jwtManager),
		"esgdd": middleware.FeatureGate(policies, FeatureESGDD, cfg.Casbin.Enforce),
		"ghg":   middleware.FeatureGate(policies, FeatureGHG, cfg.Casbin.Enforce),
	}
	router.Register(app, middlewares,
		escap.NewController(escapSvc),
		ghg.NewController(ghgSvc),
	)

	return &App{
		Fiber:     app,
		JWT:       jwtManager,
		Policies:  policies,
		Escap:     escapSvc,
		Ghg:       ghgSvc,
		Scheduler: sched,
	}, nil
}

func newStore(cfg *config.StorageConfig) (storage.Store, error) {
	store, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("初始化对象存储失败: %w", err)
	}
	if m, ok := store.(*storage.Minio); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.EnsureBucket(ctx); err != nil {
			return nil, err
		}
	}
	return store, nil
}
