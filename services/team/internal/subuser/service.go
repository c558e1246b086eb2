package subuser

import (
	"context"
	"net/mail"
	"strings"

	"github.com/esgdesk/pkg/dal"
	"github.com/esgdesk/pkg/errors"
	"github.com/esgdesk/pkg/logger"
	"github.com/esgdesk/services/team/internal/model"
	"github.com/esgdesk/services/team/internal/navigation"
	"go.uber.org/zap"
)

// AccessSyncer 子用户启停时同步访问策略
type AccessSyncer interface {
	SyncAccess(ctx context.Context, userID int64) error
	RevokeAccess(ctx context.Context, userID int64) error
}

// Service 子用户服务
type Service struct {
	repo    Repository
	catalog *navigation.Catalog
	access  AccessSyncer
}

// NewService 创建子用户服务
func NewService(repo Repository, catalog *navigation.Catalog, access AccessSyncer) *Service {
	if catalog == nil {
		catalog = navigation.Default()
	}
	return &Service{repo: repo, catalog: catalog, access: access}
}

// List 子用户列表
func (s *Service) List(ctx context.Context, q *ListQuery) (*dal.PagedResult[model.SubUser], error) {
	return s.repo.List(ctx, q)
}

// URLList 可分配的页面地址
func (s *Service) URLList() []string {
	return s.catalog.Hrefs()
}

// Activate 按ID或邮箱新增或更新子用户, 也用于启用/停用
func (s *Service) Activate(ctx context.Context, req *ActivateRequest) (*model.SubUser, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" && req.ID == 0 {
		return nil, errors.Validation("email 不能为空")
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return nil, errors.Validation("email 格式不正确")
		}
	}
	if req.Status != nil && *req.Status != model.StatusActive && *req.Status != model.StatusInactive {
		return nil, errors.Validation("status 只能为 0 或 1")
	}
	if err := s.checkURLs(req.FeatureURLs); err != nil {
		return nil, err
	}

	user, err := s.locate(ctx, req)
	if err != nil {
		return nil, err
	}

	created := user == nil
	if created {
		if req.Name == "" {
			return nil, errors.Validation("name 不能为空")
		}
		user = &model.SubUser{Email: req.Email, Status: model.StatusActive}
	}
	apply(user, req)

	if created {
		err = s.repo.Create(ctx, user)
	} else {
		err = s.repo.Update(ctx, user)
	}
	if err != nil {
		return nil, errors.Wrap(err, 500, "保存子用户失败")
	}

	if s.access != nil {
		if user.Active() {
			err = s.access.SyncAccess(ctx, user.ID)
		} else {
			err = s.access.RevokeAccess(ctx, user.ID)
		}
		if err != nil {
			return nil, errors.Wrap(err, 500, "同步访问策略失败")
		}
	}

	logger.Info("子用户已保存",
		zap.Int64("id", user.ID),
		zap.String("email", user.Email),
		zap.Bool("created", created),
		zap.Int8("status", user.Status),
	)
	return user, nil
}

func (s *Service) locate(ctx context.Context, req *ActivateRequest) (*model.SubUser, error) {
	if req.ID > 0 {
		user, err := s.repo.FindByID(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, errors.NotFound("子用户")
		}
		if req.Email != "" && req.Email != user.Email {
			other, err := s.repo.FindByEmail(ctx, req.Email)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, errors.Duplicate("邮箱")
			}
		}
		return user, nil
	}
	return s.repo.FindByEmail(ctx, req.Email)
}

func (s *Service) checkURLs(urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	allowed := make(map[string]struct{})
	for _, u := range s.catalog.Hrefs() {
		allowed[u] = struct{}{}
	}
	var invalid []string
	for _, u := range urls {
		if _, ok := allowed[u]; !ok {
			invalid = append(invalid, u)
		}
	}
	if len(invalid) > 0 {
		return errors.Validation("未知的页面地址: " + strings.Join(invalid, ", "))
	}
	return nil
}

func apply(user *model.SubUser, req *ActivateRequest) {
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Designation != "" {
		user.Designation = req.Designation
	}
	if req.Department != "" {
		user.Department = req.Department
	}
	if req.LocationID > 0 {
		user.LocationID = req.LocationID
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.FeatureURLs != nil {
		user.FeatureURLs = req.FeatureURLs
	}
}
