package app

import (
	"context"
	"fmt"
	"time"

	"github.com/esgdesk/pkg/auth"
	"github.com/esgdesk/pkg/config"
	"github.com/esgdesk/pkg/database"
	"github.com/esgdesk/pkg/metrics"
	"github.com/esgdesk/pkg/middleware"
	"github.com/esgdesk/pkg/router"
	"github.com/esgdesk/services/team/internal/feature"
	"github.com/esgdesk/services/team/internal/location"
	"github.com/esgdesk/services/team/internal/model"
	"github.com/esgdesk/services/team/internal/navigation"
	"github.com/esgdesk/services/team/internal/permission"
	"github.com/esgdesk/services/team/internal/subsidiary"
	"github.com/esgdesk/services/team/internal/subuser"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ServiceName 服务名
const ServiceName = "team-service"

// Deps 应用依赖
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Redis   *redis.Client
	Metrics *metrics.Metrics
}

// App 团队服务应用
type App struct {
	Fiber       *fiber.App
	JWT         *auth.JWTManager
	Policies    *auth.CasbinService
	Permissions *permission.Service
	SubUsers    *subuser.Service
	Features    *feature.Service
}

// Models 需要迁移的模型
func Models() []interface{} {
	return []interface{}{
		&model.PermissionRecord{},
		&model.SubUser{},
		&model.FeatureAccess{},
		&model.Location{},
		&model.Subsidiary{},
	}
}

// New 组装团队服务
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

	var cache *database.Cache
	if d.Redis != nil {
		cache = database.NewCacheWithClient(d.Redis, "team:permission")
	}

	catalog := navigation.Default()
	subRepo := subuser.NewRepository(d.DB)
	permSvc := permission.NewService(permission.ServiceOptions{
		Repo:     permission.NewRepository(d.DB),
		Users:    subRepo,
		Catalog:  catalog,
		Engine:   permission.NewEngine(catalog, permission.OptionsFromConfig(&cfg.Permission)),
		Cache:    cache,
		CacheTTL: time.Duration(cfg.Permission.CacheTTL) * time.Second,
		Policies: policies,
		Metrics:  d.Metrics,
	})
	subSvc := subuser.NewService(subRepo, catalog, permSvc)
	featSvc := feature.NewService(feature.NewRepository(d.DB), policies)
	if err := featSvc.SyncPolicies(context.Background()); err != nil {
		return nil, fmt.Errorf("同步功能开关失败: %w", err)
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
		"jwt": middleware.JWTAuth(jwtManager),
	}
	router.Register(app, middlewares,
		navigation.NewController(catalog),
		subuser.NewController(subSvc),
		permission.NewController(permSvc),
		feature.NewController(featSvc),
		location.NewController(d.DB),
		subsidiary.NewController(d.DB),
	)

	return &App{
		Fiber:       app,
		JWT:         jwtManager,
		Policies:    policies,
		Permissions: permSvc,
		SubUsers:    subSvc,
		Features:    featSvc,
	}, nil
}
