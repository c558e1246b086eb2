package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/esgdesk/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Event 生命周期事件类型
type Event string

const (
	EventStarting Event = "starting" // 服务启动中
	EventStarted  Event = "started"  // 服务已启动
	EventReady    Event = "ready"    // 服务就绪（可接收请求）
	EventStopping Event = "stopping" // 服务停止中
	EventStopped  Event = "stopped"  // 服务已停止
)

// EventMessage 生命周期消息
type EventMessage struct {
	Service   string    `json:"service"`
	NodeID    string    `json:"node_id"`
	Event     Event     `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  any       `json:"metadata,omitempty"`
}

// EventHandler 生命周期事件处理器
type EventHandler func(msg *EventMessage)

const eventChannel = "service:lifecycle"

// Manager 生命周期管理器, 通过 Redis 发布订阅在服务间传递事件
type Manager struct {
	service  string
	nodeID   string
	redis    *redis.Client
	handlers map[Event][]EventHandler
	mu       sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
	pubsub   *redis.PubSub
}

// NewManager 创建生命周期管理器
func NewManager(service, nodeID string, client *redis.Client) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		service:  service,
		nodeID:   nodeID,
		redis:    client,
		handlers: make(map[Event][]EventHandler),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// On 监听特定生命周期事件
func (m *Manager) On(event Event, handler EventHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[event] = append(m.handlers[event], handler)
}

// Emit 发布生命周期事件
func (m *Manager) Emit(event Event, metadata any) error {
	if m.redis == nil {
		return nil
	}
	msg := &EventMessage{
		Service:   m.service,
		NodeID:    m.nodeID,
		Event:     event,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal lifecycle message: %w", err)
	}

	return m.redis.Publish(m.ctx, eventChannel, data).Err()
}

// Start 启动生命周期监听
func (m *Manager) Start() error {
	if m.redis == nil {
		return nil
	}
	m.pubsub = m.redis.Subscribe(m.ctx, eventChannel)

	// 等待订阅确认
	if _, err := m.pubsub.Receive(m.ctx); err != nil {
		return fmt.Errorf("subscribe lifecycle channel: %w", err)
	}

	go m.listen(m.pubsub.Channel())

	logger.Info("生命周期管理器已启动",
		zap.String("service", m.service),
		zap.String("node_id", m.nodeID),
	)
	return nil
}

func (m *Manager) listen(ch <-chan *redis.Message) {
	for {
		select {
		case <-m.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			m.handleMessage(msg.Payload)
		}
	}
}

func (m *Manager) handleMessage(payload string) {
	var msg EventMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		logger.Error("解析生命周期消息失败", zap.Error(err))
		return
	}

	m.mu.RLock()
	handlers := m.handlers[msg.Event]
	m.mu.RUnlock()

	for _, handler := range handlers {
		go handler(&msg)
	}
}

// Stop 停止生命周期监听
func (m *Manager) Stop() error {
	m.cancel()
	if m.pubsub != nil {
		return m.pubsub.Close()
	}
	return nil
}
