package lifecycle

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go-micro.dev/v5/registry"
)

// Builder 服务构建器 - 链式调用创建服务
type Builder struct {
	opts    Options
	app     *fiber.App
	onStart []Hook
	onReady []Hook
	onStop  []Hook
	events  map[Event][]func(msg *EventMessage, s *Service)
}

// New 创建服务构建器
func New(name string) *Builder {
	return &Builder{
		opts: Options{
			Name:   name,
			NodeID: name + "-1",
		},
		events: make(map[Event][]func(msg *EventMessage, s *Service)),
	}
}

// Node 设置节点ID
func (b *Builder) Node(nodeID string) *Builder {
	b.opts.NodeID = nodeID
	return b
}

// Addr 设置服务地址
func (b *Builder) Addr(addr string) *Builder {
	b.opts.Address = addr
	return b
}

// Registry 设置服务注册中心
func (b *Builder) Registry(reg registry.Registry) *Builder {
	b.opts.Registry = reg
	return b
}

// RegInfo 设置服务注册信息
func (b *Builder) RegInfo(svc *registry.Service) *Builder {
	b.opts.RegInfo = svc
	return b
}

// Redis 设置生命周期事件使用的Redis客户端, 为空时不广播事件
func (b *Builder) Redis(client *redis.Client) *Builder {
	b.opts.Redis = client
	return b
}

// App 设置Fiber应用
func (b *Builder) App(app *fiber.App) *Builder {
	b.app = app
	return b
}

// OnStart 添加启动钩子
func (b *Builder) OnStart(fn Hook) *Builder {
	b.onStart = append(b.onStart, fn)
	return b
}

// OnReady 添加就绪钩子
func (b *Builder) OnReady(fn Hook) *Builder {
	b.onReady = append(b.onReady, fn)
	return b
}

// OnStop 添加停止钩子
func (b *Builder) OnStop(fn Hook) *Builder {
	b.onStop = append(b.onStop, fn)
	return b
}

// On 监听其他服务的生命周期事件
func (b *Builder) On(event Event, fn func(msg *EventMessage, s *Service)) *Builder {
	b.events[event] = append(b.events[event], fn)
	return b
}

// Build 构建服务
func (b *Builder) Build() *Service {
	if b.opts.RegInfo == nil && b.opts.Registry != nil && b.opts.Address != "" {
		b.opts.RegInfo = &registry.Service{
			Name:    b.opts.Name,
			Version: "1.0.0",
			Nodes:   []*registry.Node{{Id: b.opts.NodeID, Address: b.opts.Address}},
		}
	}

	app := b.app
	if app == nil {
		app = fiber.New()
	}
	svc := NewService(b.opts, app)
	svc.onStart = append(svc.onStart, b.onStart...)
	svc.onReady = append(svc.onReady, b.onReady...)
	svc.onStop = append(svc.onStop, b.onStop...)

	for event, fns := range b.events {
		for _, fn := range fns {
			fn := fn
			svc.lifecycle.On(event, func(msg *EventMessage) { fn(msg, svc) })
		}
	}
	return svc
}

// Run 构建并运行服务
func (b *Builder) Run() error {
	return b.Build().Run()
}
