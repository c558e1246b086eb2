package lifecycle

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/esgdesk/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go-micro.dev/v5/registry"
	"go.uber.org/zap"
)

// Hook 生命周期钩子
type Hook func(s *Service) error

// Options 服务配置选项
type Options struct {
	Name     string
	NodeID   string
	Address  string
	Registry registry.Registry
	RegInfo  *registry.Service
	Redis    *redis.Client
}

// Service 微服务包装器
type Service struct {
	opts      Options
	app       *fiber.App
	lifecycle *Manager

	onStart []Hook
	onReady []Hook
	onStop  []Hook

	errCh chan error
}

// NewService 创建微服务
func NewService(opts Options, app *fiber.App) *Service {
	return &Service{
		opts:      opts,
		app:       app,
		lifecycle: NewManager(opts.Name, opts.NodeID, opts.Redis),
		errCh:     make(chan error, 1),
	}
}

// Name 服务名称
func (s *Service) Name() string { return s.opts.Name }

// App 获取Fiber应用
func (s *Service) App() *fiber.App { return s.app }

// Lifecycle 获取生命周期管理器
func (s *Service) Lifecycle() *Manager { return s.lifecycle }

// Start 执行启动钩子、注册服务并开始监听HTTP
func (s *Service) Start() error {
	if err := s.lifecycle.Start(); err != nil {
		return fmt.Errorf("start lifecycle manager: %w", err)
	}
	s.emit(EventStarting)

	for _, fn := range s.onStart {
		if err := fn(s); err != nil {
			return fmt.Errorf("start hook: %w", err)
		}
	}

	if s.opts.Registry != nil && s.opts.RegInfo != nil {
		if err := s.opts.Registry.Register(s.opts.RegInfo); err != nil {
			return fmt.Errorf("register service: %w", err)
		}
	}
	s.emit(EventStarted)

	go func() {
		logger.Info("服务启动",
			zap.String("service", s.opts.Name),
			zap.String("address", s.opts.Address),
		)
		if err := s.app.Listen(s.opts.Address); err != nil {
			s.errCh <- err
		}
	}()

	// 等待监听建立
	time.Sleep(100 * time.Millisecond)

	for _, fn := range s.onReady {
		if err := fn(s); err != nil {
			return fmt.Errorf("ready hook: %w", err)
		}
	}
	s.emit(EventReady)
	return nil
}

// Run 启动服务并阻塞直到收到退出信号
func (s *Service) Run() error {
	if err := s.Start(); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("收到退出信号，正在关闭服务...")
	case err := <-s.errCh:
		return fmt.Errorf("server error: %w", err)
	}

	return s.Shutdown()
}

// Shutdown 优雅关闭服务
func (s *Service) Shutdown() error {
	s.emit(EventStopping)

	for _, fn := range s.onStop {
		if err := fn(s); err != nil {
			logger.Error("停止钩子执行失败", zap.Error(err))
		}
	}

	if s.opts.Registry != nil && s.opts.RegInfo != nil {
		if err := s.opts.Registry.Deregister(s.opts.RegInfo); err != nil {
			logger.Error("注销服务失败", zap.Error(err))
		}
	}

	if s.app != nil {
		if err := s.app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("关闭HTTP服务失败", zap.Error(err))
		}
	}

	s.emit(EventStopped)
	if err := s.lifecycle.Stop(); err != nil {
		logger.Error("停止生命周期监听失败", zap.Error(err))
	}

	logger.Info("服务已关闭", zap.String("service", s.opts.Name))
	return nil
}

func (s *Service) emit(event Event) {
	if err := s.lifecycle.Emit(event, nil); err != nil {
		logger.Warn("发布生命周期事件失败", zap.String("event", string(event)), zap.Error(err))
	}
}
