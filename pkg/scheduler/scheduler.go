package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/esgdesk/pkg/logger"
	"github.com/esgdesk/pkg/metrics"
	"github.com/robfig/cron"
	"go.uber.org/zap"
)

// Job 定时任务
type Job func(ctx context.Context) error

// Scheduler 基于 cron 的定时任务调度, 同名任务不会并发执行
type Scheduler struct {
	cron    *cron.Cron
	metrics *metrics.Metrics
	timeout time.Duration

	mu      sync.Mutex
	running map[string]bool
}

// New 创建调度器, timeout 为单次执行超时, 0 表示不限
func New(m *metrics.Metrics, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		metrics: m,
		timeout: timeout,
		running: make(map[string]bool),
	}
}

// Add 注册任务, spec 支持 @every 1h 这类描述符
func (s *Scheduler) Add(name, spec string, job Job) error {
	return s.cron.AddFunc(spec, func() {
		s.RunNow(name, job)
	})
}

// RunNow 立即执行一次任务并记录指标
func (s *Scheduler) RunNow(name string, job Job) error {
	if !s.acquire(name) {
		logger.Warn("定时任务仍在执行, 跳过本次", zap.String("job", name))
		return nil
	}
	defer s.release(name)

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err := job(ctx)
	s.metrics.ObserveJob(name, time.Since(start), err)
	if err != nil {
		logger.Error("定时任务执行失败", zap.String("job", name), zap.Error(err))
	}
	return err
}

func (s *Scheduler) acquire(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[name] {
		return false
	}
	s.running[name] = true
	return true
}

func (s *Scheduler) release(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, name)
}

// Start 启动调度
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 停止调度, 已在执行的任务不受影响
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
