package subuser

import (
	"context"

	"github.com/esgdesk/pkg/dal"
	"github.com/esgdesk/services/team/internal/model"
	"gorm.io/gorm"
)

// Repository 子用户仓储接口
type Repository interface {
	dal.Repository[model.SubUser]
	FindByEmail(ctx context.Context, email string) (*model.SubUser, error)
	List(ctx context.Context, q *ListQuery) (*dal.PagedResult[model.SubUser], error)
}

type repository struct {
	*dal.BaseRepository[model.SubUser]
}

// NewRepository 创建子用户仓储
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.SubUser](db),
	}
}

// FindByEmail 根据邮箱查找
func (r *repository) FindByEmail(ctx context.Context, email string) (*model.SubUser, error) {
	return r.FindOne(ctx, map[string]interface{}{"email": email})
}

// List 分页查询
func (r *repository) List(ctx context.Context, q *ListQuery) (*dal.PagedResult[model.SubUser], error) {
	opts := []dal.QueryOption{dal.WithOrder("id DESC")}
	if q.Keyword != "" {
		like := "%" + q.Keyword + "%"
		opts = append(opts, dal.WithWhere("name LIKE ? OR email LIKE ?", like, like))
	}
	if q.Status != nil {
		opts = append(opts, dal.WithWhere("status = ?", *q.Status))
	}
	return r.FindPaged(ctx, nil, &q.Pagination, opts...)
}
