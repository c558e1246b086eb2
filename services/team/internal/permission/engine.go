package permission

import (
	"github.com/esgdesk/pkg/config"
	"github.com/esgdesk/services/team/internal/navigation"
)

// AncestorMode 授权时向上传播的方式
type AncestorMode string

const (
	// AncestorParent 只授权直接父级
	AncestorParent AncestorMode = "parent"
	// AncestorChain 授权到根的整条祖先链
	AncestorChain AncestorMode = "chain"
)

// EngineOptions 传播规则
type EngineOptions struct {
	AncestorMode AncestorMode
	// CascadeDepth 撤销时向下级联的层数, 0 表示整棵子树
	CascadeDepth int
}

// DefaultEngineOptions 默认规则: 只授权直接父级, 撤销到孙级为止
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{AncestorMode: AncestorParent, CascadeDepth: 2}
}

// OptionsFromConfig 从配置读取传播规则, 非法值回退默认
func OptionsFromConfig(cfg *config.PermissionConfig) EngineOptions {
	opts := DefaultEngineOptions()
	if cfg == nil {
		return opts
	}
	if AncestorMode(cfg.AncestorMode) == AncestorChain {
		opts.AncestorMode = AncestorChain
	}
	if cfg.CascadeDepth >= 0 {
		opts.CascadeDepth = cfg.CascadeDepth
	}
	return opts
}

// Engine 权限传播引擎
type Engine struct {
	catalog *navigation.Catalog
	opts    EngineOptions
}

// NewEngine 创建传播引擎
func NewEngine(catalog *navigation.Catalog, opts EngineOptions) *Engine {
	return &Engine{catalog: catalog, opts: opts}
}

// Options 当前传播规则
func (e *Engine) Options() EngineOptions {
	return e.opts
}

// ApplyToggle 切换单个菜单项并传播, 返回新状态, 入参不被修改
func (e *Engine) ApplyToggle(state State, itemID string, granted bool) State {
	next := state.Clone()
	next[itemID] = granted
	if granted {
		e.grantAncestors(next, itemID)
	} else {
		e.revokeDescendants(next, itemID)
	}
	return next
}

func (e *Engine) grantAncestors(s State, itemID string) {
	id := itemID
	for {
		parent, ok := e.catalog.Parent(id)
		if !ok {
			return
		}
		s[parent] = true
		if e.opts.AncestorMode != AncestorChain {
			return
		}
		id = parent
	}
}

func (e *Engine) revokeDescendants(s State, itemID string) {
	frontier := e.catalog.Children(itemID)
	for depth := 1; len(frontier) > 0; depth++ {
		if e.opts.CascadeDepth > 0 && depth > e.opts.CascadeDepth {
			return
		}
		var next []string
		for _, id := range frontier {
			s[id] = false
			next = append(next, e.catalog.Children(id)...)
		}
		frontier = next
	}
}
