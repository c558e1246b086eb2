package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/esgdesk/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go-micro.dev/v5/registry"
	"go.uber.org/zap"
)

const (
	servicePrefix = "registry:service:"
	ttlDuration   = 30 * time.Second
)

// RedisRegistry 基于 Redis 的服务注册中心, 键带 TTL 并由心跳续期
type RedisRegistry struct {
	client    *redis.Client
	mu        sync.Mutex
	heartbeat map[string]context.CancelFunc
}

// NewRedisRegistry 创建基于 Redis 的注册中心
func NewRedisRegistry(client *redis.Client) registry.Registry {
	return &RedisRegistry{
		client:    client,
		heartbeat: make(map[string]context.CancelFunc),
	}
}

func (r *RedisRegistry) Init(opts ...registry.Option) error { return nil }

func (r *RedisRegistry) Options() registry.Options { return registry.Options{} }

// Register 注册服务并启动心跳
func (r *RedisRegistry) Register(s *registry.Service, opts ...registry.RegisterOption) error {
	if s == nil || len(s.Nodes) == 0 {
		return fmt.Errorf("service or nodes cannot be empty")
	}
	if err := r.write(context.Background(), s); err != nil {
		return err
	}
	logger.Debug("服务已注册", zap.String("service", s.Name), zap.Int("nodes", len(s.Nodes)))
	r.startHeartbeat(s)
	return nil
}

func (r *RedisRegistry) write(ctx context.Context, s *registry.Service) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal service: %w", err)
	}
	if err := r.client.Set(ctx, servicePrefix+s.Name, data, ttlDuration).Err(); err != nil {
		return fmt.Errorf("write service: %w", err)
	}
	return nil
}

// Deregister 注销服务
func (r *RedisRegistry) Deregister(s *registry.Service, opts ...registry.DeregisterOption) error {
	if s == nil {
		return fmt.Errorf("service cannot be nil")
	}
	r.stopHeartbeat(s.Name)
	return r.client.Del(context.Background(), servicePrefix+s.Name).Err()
}

// GetService 获取服务
func (r *RedisRegistry) GetService(name string, opts ...registry.GetOption) ([]*registry.Service, error) {
	data, err := r.client.Get(context.Background(), servicePrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, registry.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var svc registry.Service
	if err := json.Unmarshal(data, &svc); err != nil {
		return nil, fmt.Errorf("unmarshal service: %w", err)
	}
	return []*registry.Service{&svc}, nil
}

// ListServices 列出所有服务
func (r *RedisRegistry) ListServices(opts ...registry.ListOption) ([]*registry.Service, error) {
	ctx := context.Background()
	services := make([]*registry.Service, 0)

	iter := r.client.Scan(ctx, 0, servicePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}
		var svc registry.Service
		if err := json.Unmarshal(data, &svc); err != nil {
			logger.Warn("服务信息反序列化失败", zap.String("key", iter.Val()), zap.Error(err))
			continue
		}
		services = append(services, &svc)
	}
	return services, iter.Err()
}

// Watch 不支持推送, 返回的监听器只在停止时返回
func (r *RedisRegistry) Watch(opts ...registry.WatchOption) (registry.Watcher, error) {
	return &stoppedWatcher{exit: make(chan struct{})}, nil
}

func (r *RedisRegistry) String() string { return "redis" }

func (r *RedisRegistry) startHeartbeat(s *registry.Service) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cancel, ok := r.heartbeat[s.Name]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.heartbeat[s.Name] = cancel

	go func() {
		ticker := time.NewTicker(ttlDuration / 3)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.write(ctx, s); err != nil {
					logger.Warn("服务心跳失败", zap.String("service", s.Name), zap.Error(err))
				}
			}
		}
	}()
}

func (r *RedisRegistry) stopHeartbeat(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cancel, ok := r.heartbeat[name]; ok {
		cancel()
		delete(r.heartbeat, name)
	}
}

type stoppedWatcher struct {
	exit chan struct{}
	once sync.Once
}

func (w *stoppedWatcher) Next() (*registry.Result, error) {
	<-w.exit
	return nil, registry.ErrWatcherStopped
}

func (w *stoppedWatcher) Stop() {
	w.once.Do(func() { close(w.exit) })
}
