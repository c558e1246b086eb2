package auth

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/esgdesk/pkg/config"
	"gorm.io/gorm"
)

const (
	// ActionAccess 页面访问动作
	ActionAccess = "access"
	// ActionUse 功能使用动作
	ActionUse = "use"
	// SubjectCompany 公司级功能开关的主体
	SubjectCompany = "company"
)

// DefaultModel 默认的 Casbin 模型, 主体对对象的精确匹配
const DefaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// NewEnforcer 使用GORM适配器创建带锁的Enforcer, 未配置模型文件时使用内置模型
func NewEnforcer(db *gorm.DB, cfg *config.CasbinConfig) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if cfg != nil && cfg.ModelPath != "" {
		enforcer, err = casbin.NewSyncedEnforcer(cfg.ModelPath, adapter)
	} else {
		m, mErr := model.NewModelFromString(DefaultModel)
		if mErr != nil {
			return nil, fmt.Errorf("failed to parse casbin model: %w", mErr)
		}
		enforcer, err = casbin.NewSyncedEnforcer(m, adapter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err = enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load casbin policy: %w", err)
	}
	return enforcer, nil
}

// CasbinService Casbin服务
type CasbinService struct {
	enforcer *casbin.SyncedEnforcer
	// 先删后增的组合写操作需要整体串行
	mu sync.Mutex
}

// NewCasbinService 创建Casbin服务
func NewCasbinService(enforcer *casbin.SyncedEnforcer) *CasbinService {
	return &CasbinService{enforcer: enforcer}
}

// UserSubject 子用户在策略中的主体名
func UserSubject(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

// Enforce 权限检查
func (s *CasbinService) Enforce(sub, obj, act string) (bool, error) {
	return s.enforcer.Enforce(sub, obj, act)
}

// SyncUserURLs 以给定URL集合覆盖用户的页面访问策略
func (s *CasbinService) SyncUserURLs(userID int64, urls []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := UserSubject(userID)
	if _, err := s.enforcer.RemoveFilteredPolicy(0, sub, "", ActionAccess); err != nil {
		return fmt.Errorf("remove policies for %s: %w", sub, err)
	}
	if len(urls) == 0 {
		return nil
	}

	rules := make([][]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok || u == "" {
			continue
		}
		seen[u] = struct{}{}
		rules = append(rules, []string{sub, u, ActionAccess})
	}
	if _, err := s.enforcer.AddPolicies(rules); err != nil {
		return fmt.Errorf("add policies for %s: %w", sub, err)
	}
	return nil
}

// UserURLs 获取用户可访问的URL
func (s *CasbinService) UserURLs(userID int64) ([]string, error) {
	policies, err := s.enforcer.GetFilteredPolicy(0, UserSubject(userID), "", ActionAccess)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(policies))
	for _, p := range policies {
		urls = append(urls, p[1])
	}
	return urls, nil
}

// CanAccess 检查用户能否访问URL
func (s *CasbinService) CanAccess(userID int64, url string) bool {
	ok, _ := s.enforcer.Enforce(UserSubject(userID), url, ActionAccess)
	return ok
}

// SetFeature 设置公司级功能开关
func (s *CasbinService) SetFeature(feature string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	has, err := s.enforcer.HasPolicy(SubjectCompany, feature, ActionUse)
	if err != nil {
		return err
	}
	switch {
	case enabled && !has:
		_, err = s.enforcer.AddPolicy(SubjectCompany, feature, ActionUse)
	case !enabled && has:
		_, err = s.enforcer.RemovePolicy(SubjectCompany, feature, ActionUse)
	}
	return err
}

// FeatureEnabled 功能是否启用
func (s *CasbinService) FeatureEnabled(feature string) bool {
	ok, _ := s.enforcer.Enforce(SubjectCompany, feature, ActionUse)
	return ok
}

// LoadPolicy 重新加载策略
func (s *CasbinService) LoadPolicy() error {
	return s.enforcer.LoadPolicy()
}
