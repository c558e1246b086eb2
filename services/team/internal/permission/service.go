package permission

import (
	"context"
	stderrors "errors"
	"strconv"
	"strings"
	"time"

	"github.com/esgdesk/pkg/auth"
	"github.com/esgdesk/pkg/dal"
	"github.com/esgdesk/pkg/database"
	"github.com/esgdesk/pkg/errors"
	"github.com/esgdesk/pkg/logger"
	"github.com/esgdesk/pkg/metrics"
	"github.com/esgdesk/services/team/internal/model"
	"github.com/esgdesk/services/team/internal/navigation"
	"go.uber.org/zap"
)

// UserFinder 子用户查询
type UserFinder interface {
	FindByID(ctx context.Context, id int64, opts ...dal.QueryOption) (*model.SubUser, error)
}

// ServiceOptions 权限服务依赖
type ServiceOptions struct {
	Repo     Repository
	Users    UserFinder
	Catalog  *navigation.Catalog
	Engine   *Engine
	Cache    *database.Cache
	CacheTTL time.Duration
	Policies *auth.CasbinService
	Metrics  *metrics.Metrics
}

// Service 子用户菜单权限服务
type Service struct {
	repo     Repository
	users    UserFinder
	catalog  *navigation.Catalog
	engine   *Engine
	cache    *database.Cache
	ttl      time.Duration
	policies *auth.CasbinService
	metrics  *metrics.Metrics
}

// NewService 创建权限服务
func NewService(opts ServiceOptions) *Service {
	if opts.Catalog == nil {
		opts.Catalog = navigation.Default()
	}
	if opts.Engine == nil {
		opts.Engine = NewEngine(opts.Catalog, DefaultEngineOptions())
	}
	return &Service{
		repo:     opts.Repo,
		users:    opts.Users,
		catalog:  opts.Catalog,
		engine:   opts.Engine,
		cache:    opts.Cache,
		ttl:      opts.CacheTTL,
		policies: opts.Policies,
		metrics:  opts.Metrics,
	}
}

func cacheKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (s *Service) requireUser(ctx context.Context, userID int64) (*model.SubUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NotFound("子用户")
	}
	return user, nil
}

// Load 读取用户的权限状态, 存储中的不一致状态原样返回
func (s *Service) Load(ctx context.Context, userID int64) (State, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.load(ctx, userID)
}

func (s *Service) load(ctx context.Context, userID int64) (State, error) {
	if s.cache != nil {
		var cached State
		err := s.cache.GetJSON(ctx, cacheKey(userID), &cached)
		if err == nil {
			return cached, nil
		}
		if !stderrors.Is(err, database.ErrCacheMiss) {
			logger.Warn("读取权限缓存失败", zap.Int64("userId", userID), zap.Error(err))
		}
	}

	records, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	state := FromRecords(records)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey(userID), state, s.ttl); err != nil {
			logger.Warn("写入权限缓存失败", zap.Int64("userId", userID), zap.Error(err))
		}
	}
	return state, nil
}

// Toggle 在给定状态(为空时取已保存状态)上切换单个菜单项, 不落库
func (s *Service) Toggle(ctx context.Context, userID int64, req *ToggleRequest) (State, error) {
	if strings.TrimSpace(req.ItemID) == "" {
		return nil, errors.Validation("itemId 不能为空")
	}
	base := req.State
	if base == nil {
		stored, err := s.Load(ctx, userID)
		if err != nil {
			return nil, err
		}
		base = stored
	} else if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	s.metrics.Inc("permission_toggle")
	return s.engine.ApplyToggle(base, req.ItemID, req.Granted), nil
}

// Save 整体保存用户权限, 并同步页面访问策略
func (s *Service) Save(ctx context.Context, userID int64, state State) (State, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var unknown []string
	for id := range state {
		if !s.catalog.Has(id) {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return nil, errors.Validation("未知的菜单项: " + strings.Join(unknown, ", "))
	}

	if err := s.repo.ReplaceForUser(ctx, userID, state); err != nil {
		return nil, errors.Wrap(err, 500, "保存权限失败")
	}
	s.invalidate(ctx, userID)

	if user.Active() {
		err = s.syncPolicies(userID, state)
	} else {
		err = s.syncPolicies(userID, nil)
	}
	if err != nil {
		return nil, errors.Wrap(err, 500, "同步访问策略失败")
	}

	s.metrics.Inc("permission_save")
	logger.Info("子用户权限已保存", zap.Int64("userId", userID), zap.Int("granted", len(state.Granted())))
	return state.Clone(), nil
}

// Preview 按状态(为空时取已保存状态)投影菜单
func (s *Service) Preview(ctx context.Context, userID int64, state State) ([]*navigation.Item, error) {
	if state == nil {
		stored, err := s.Load(ctx, userID)
		if err != nil {
			return nil, err
		}
		state = stored
	} else if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return Project(s.catalog.Structure(), state), nil
}

// SyncAccess 按已保存状态重新生成用户的访问策略
func (s *Service) SyncAccess(ctx context.Context, userID int64) error {
	state, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	return s.syncPolicies(userID, state)
}

// RevokeAccess 移除用户全部访问策略, 保留权限记录
func (s *Service) RevokeAccess(ctx context.Context, userID int64) error {
	return s.syncPolicies(userID, nil)
}

// AccessibleURLs 用户当前可访问的页面
func (s *Service) AccessibleURLs(ctx context.Context, userID int64) ([]string, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if s.policies == nil {
		return []string{}, nil
	}
	return s.policies.UserURLs(userID)
}

func (s *Service) syncPolicies(userID int64, state State) error {
	if s.policies == nil {
		return nil
	}
	return s.policies.SyncUserURLs(userID, s.catalog.HrefsOf(state.Granted()))
}

func (s *Service) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(userID)); err != nil {
		logger.Warn("清除权限缓存失败", zap.Int64("userId", userID), zap.Error(err))
	}
}
