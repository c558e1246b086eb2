package feature

import (
	"context"
	"sort"
	"strings"

	"github.com/esgdesk/pkg/auth"
	"github.com/esgdesk/pkg/dal"
	"github.com/esgdesk/pkg/errors"
	"github.com/esgdesk/pkg/logger"
	"github.com/esgdesk/services/team/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repository 功能开关仓储接口
type Repository interface {
	dal.Repository[model.FeatureAccess]
	Set(ctx context.Context, feature string, enabled bool) error
}

type repository struct {
	*dal.BaseRepository[model.FeatureAccess]
}

// NewRepository 创建功能开关仓储
func NewRepository(db *gorm.DB) Repository {
	return &repository{BaseRepository: dal.NewBaseRepository[model.FeatureAccess](db)}
}

// Set 按功能名插入或更新
func (r *repository) Set(ctx context.Context, feature string, enabled bool) error {
	return r.Upsert(ctx, &model.FeatureAccess{Feature: feature, Enabled: enabled},
		[]string{"feature"}, []string{"enabled", "updated_at"})
}

// Service 公司功能开关服务, 数据库为准并镜像到 Casbin
type Service struct {
	repo     Repository
	policies *auth.CasbinService
}

// NewService 创建功能开关服务
func NewService(repo Repository, policies *auth.CasbinService) *Service {
	return &Service{repo: repo, policies: policies}
}

// List 当前功能开关
func (s *Service) List(ctx context.Context) (map[string]bool, error) {
	rows, err := s.repo.FindAll(ctx, nil, dal.WithOrder("feature ASC"))
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(rows))
	for _, row := range rows {
		out[row.Feature] = row.Enabled
	}
	return out, nil
}

// Set 批量设置功能开关
func (s *Service) Set(ctx context.Context, features map[string]bool) (map[string]bool, error) {
	if len(features) == 0 {
		return nil, errors.Validation("features 不能为空")
	}
	names := make([]string, 0, len(features))
	for name := range features {
		if strings.TrimSpace(name) == "" {
			return nil, errors.Validation("功能名称不能为空")
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		enabled := features[name]
		if err := s.repo.Set(ctx, name, enabled); err != nil {
			return nil, errors.Wrap(err, 500, "保存功能开关失败")
		}
		if s.policies != nil {
			if err := s.policies.SetFeature(name, enabled); err != nil {
				return nil, errors.Wrap(err, 500, "同步功能策略失败")
			}
		}
		logger.Info("功能开关已更新", zap.String("feature", name), zap.Bool("enabled", enabled))
	}
	return s.List(ctx)
}

// SyncPolicies 启动时将数据库中的开关同步到 Casbin
func (s *Service) SyncPolicies(ctx context.Context) error {
	if s.policies == nil {
		return nil
	}
	current, err := s.List(ctx)
	if err != nil {
		return err
	}
	for name, enabled := range current {
		if err := s.policies.SetFeature(name, enabled); err != nil {
			return err
		}
	}
	return nil
}
