package main

import (
	"fmt"
	"os"

	"github.com/esgdesk/pkg/config"
	"github.com/esgdesk/pkg/database"
	"github.com/esgdesk/pkg/lifecycle"
	"github.com/esgdesk/pkg/logger"
	"github.com/esgdesk/pkg/metrics"
	pkgRegistry "github.com/esgdesk/pkg/registry"
	"github.com/esgdesk/services/esgdd/internal/app"
	"go.uber.org/zap"
)

const (
	servicePort = 8082
	basePath    = "esgdd"
)

func main() {
	// 加载配置
	if err := config.Init(os.Getenv("CONFIG_PATH")); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// 初始化数据库
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("初始化数据库失败", zap.Error(err))
	}
	defer database.Close()

	// 初始化Redis
	if err := database.InitRedis(&cfg.Redis); err != nil {
		logger.Fatal("初始化Redis失败", zap.Error(err))
	}
	defer database.CloseRedis()

	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, servicePort)

	esgdd, err := app.New(app.Deps{
		Config:  cfg,
		DB:      database.Get(),
		Metrics: metrics.New(app.ServiceName),
	})
	if err != nil {
		logger.Fatal("初始化服务失败", zap.Error(err))
	}

	svcInfo := pkgRegistry.NewServiceBuilder(app.ServiceName, cfg.App.Version).
		WithAddress(addr).
		WithBasePath(basePath).
		WithMetadata("metrics_path", cfg.Metrics.Path).
		Build()

	err = lifecycle.New(app.ServiceName).
		Addr(addr).
		Registry(pkgRegistry.FromMode(cfg.Redis.Mode, database.GetRedis())).
		RegInfo(svcInfo).
		Redis(database.GetRedis()).
		App(esgdd.Fiber).
		OnReady(func(s *lifecycle.Service) error {
			esgdd.Scheduler.Start()
			logger.Info("尽调服务就绪",
				zap.String("addr", addr),
				zap.String("overdueCron", cfg.Escap.OverdueCron),
			)
			return nil
		}).
		OnStop(func(s *lifecycle.Service) error {
			esgdd.Scheduler.Stop()
			logger.Info("尽调服务正在清理资源...")
			return nil
		}).
		On(lifecycle.EventReady, func(msg *lifecycle.EventMessage, s *lifecycle.Service) {
			// 团队服务就绪后刷新功能开关
			if msg.Service == "team-service" {
				if err := esgdd.Policies.LoadPolicy(); err != nil {
					logger.Warn("刷新访问策略失败", zap.Error(err))
				}
			}
		}).
		Run()

	if err != nil {
		logger.Fatal("服务运行失败", zap.Error(err))
	}
}
