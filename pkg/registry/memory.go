package registry

import (
	"sync"

	"go-micro.dev/v5/registry"
)

// MemoryRegistry 进程内注册中心, 用于单机部署与测试
type MemoryRegistry struct {
	mu       sync.RWMutex
	services map[string]*registry.Service
	watchers map[*memoryWatcher]struct{}
}

// NewMemoryRegistry 创建内存注册中心
func NewMemoryRegistry() registry.Registry {
	return &MemoryRegistry{
		services: make(map[string]*registry.Service),
		watchers: make(map[*memoryWatcher]struct{}),
	}
}

func (r *MemoryRegistry) Init(opts ...registry.Option) error { return nil }

func (r *MemoryRegistry) Options() registry.Options { return registry.Options{} }

// Register 注册服务, 同名服务的节点合并
func (r *MemoryRegistry) Register(s *registry.Service, opts ...registry.RegisterOption) error {
	if s == nil {
		return nil
	}
	r.mu.Lock()
	if existing, ok := r.services[s.Name]; ok {
		existing.Nodes = mergeNodes(existing.Nodes, s.Nodes)
	} else {
		cp := *s
		cp.Nodes = append([]*registry.Node(nil), s.Nodes...)
		r.services[s.Name] = &cp
	}
	r.mu.Unlock()
	r.notify("create", s)
	return nil
}

// Deregister 注销服务节点, 节点为空时删除服务
func (r *MemoryRegistry) Deregister(s *registry.Service, opts ...registry.DeregisterOption) error {
	if s == nil {
		return nil
	}
	r.mu.Lock()
	if existing, ok := r.services[s.Name]; ok {
		existing.Nodes = removeNodes(existing.Nodes, s.Nodes)
		if len(existing.Nodes) == 0 {
			delete(r.services, s.Name)
		}
	}
	r.mu.Unlock()
	r.notify("delete", s)
	return nil
}

// GetService 获取服务
func (r *MemoryRegistry) GetService(name string, opts ...registry.GetOption) ([]*registry.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.services[name]; ok {
		cp := *s
		return []*registry.Service{&cp}, nil
	}
	return nil, registry.ErrNotFound
}

// ListServices 列出所有服务
func (r *MemoryRegistry) ListServices(opts ...registry.ListOption) ([]*registry.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	services := make([]*registry.Service, 0, len(r.services))
	for _, s := range r.services {
		cp := *s
		services = append(services, &cp)
	}
	return services, nil
}

// Watch 监听服务变化
func (r *MemoryRegistry) Watch(opts ...registry.WatchOption) (registry.Watcher, error) {
	w := &memoryWatcher{
		results: make(chan *registry.Result, 16),
		exit:    make(chan struct{}),
	}
	w.stop = func() {
		r.mu.Lock()
		delete(r.watchers, w)
		r.mu.Unlock()
	}
	r.mu.Lock()
	r.watchers[w] = struct{}{}
	r.mu.Unlock()
	return w, nil
}

func (r *MemoryRegistry) String() string { return "memory" }

func (r *MemoryRegistry) notify(action string, s *registry.Service) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for w := range r.watchers {
		select {
		case w.results <- &registry.Result{Action: action, Service: s}:
		default:
		}
	}
}

func mergeNodes(cur, add []*registry.Node) []*registry.Node {
	out := append([]*registry.Node(nil), cur...)
	for _, n := range add {
		replaced := false
		for i, c := range out {
			if c.Id == n.Id {
				out[i] = n
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, n)
		}
	}
	return out
}

func removeNodes(cur, del []*registry.Node) []*registry.Node {
	out := cur[:0]
	for _, c := range cur {
		keep := true
		for _, d := range del {
			if c.Id == d.Id {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, c)
		}
	}
	return out
}

type memoryWatcher struct {
	results chan *registry.Result
	exit    chan struct{}
	once    sync.Once
	stop    func()
}

func (w *memoryWatcher) Next() (*registry.Result, error) {
	select {
	case res := <-w.results:
		return res, nil
	case <-w.exit:
		return nil, registry.ErrWatcherStopped
	}
}

func (w *memoryWatcher) Stop() {
	w.once.Do(func() {
		close(w.exit)
		if w.stop != nil {
			w.stop()
		}
	})
}
