package registry

import (
	"github.com/redis/go-redis/v9"
	"go-micro.dev/v5/registry"
)

// ServiceBuilder 服务注册信息构建器
type ServiceBuilder struct {
	name     string
	version  string
	nodeID   string
	address  string
	metadata map[string]string
}

// NewServiceBuilder 创建服务构建器
func NewServiceBuilder(name, version string) *ServiceBuilder {
	return &ServiceBuilder{
		name:     name,
		version:  version,
		metadata: make(map[string]string),
	}
}

// WithNodeID 设置节点ID
func (b *ServiceBuilder) WithNodeID(nodeID string) *ServiceBuilder {
	b.nodeID = nodeID
	return b
}

// WithAddress 设置服务地址
func (b *ServiceBuilder) WithAddress(addr string) *ServiceBuilder {
	b.address = addr
	return b
}

// WithBasePath 设置服务对外的路径前缀
func (b *ServiceBuilder) WithBasePath(basePath string) *ServiceBuilder {
	return b.WithMetadata("base_path", basePath)
}

// WithMetadata 添加节点元数据
func (b *ServiceBuilder) WithMetadata(key, value string) *ServiceBuilder {
	b.metadata[key] = value
	return b
}

// Build 构建服务
func (b *ServiceBuilder) Build() *registry.Service {
	if b.nodeID == "" {
		b.nodeID = b.name + "-1"
	}
	return &registry.Service{
		Name:    b.name,
		Version: b.version,
		Nodes: []*registry.Node{{
			Id:       b.nodeID,
			Address:  b.address,
			Metadata: b.metadata,
		}},
	}
}

// BasePath 读取服务的路径前缀
func BasePath(svc *registry.Service) string {
	for _, node := range svc.Nodes {
		if bp, ok := node.Metadata["base_path"]; ok {
			return bp
		}
	}
	return ""
}

// FromMode 根据 Redis 模式选择注册中心, 内存模式下使用进程内注册中心
func FromMode(mode string, client *redis.Client) registry.Registry {
	if mode == "memory" || client == nil {
		return NewMemoryRegistry()
	}
	return NewRedisRegistry(client)
}
