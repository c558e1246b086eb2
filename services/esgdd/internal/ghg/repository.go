package ghg

import (
	"context"

	"github.com/esgdesk/pkg/dal"
	"github.com/esgdesk/services/esgdd/internal/model"
	"gorm.io/gorm"
)

// Repository GHG 数据仓储接口
type Repository interface {
	dal.Repository[model.GhgEntry]
	FindEntry(ctx context.Context, templateID string, id int64) (*model.GhgEntry, error)
	List(ctx context.Context, templateID string, q *ListQuery) ([]model.GhgEntry, error)
	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	*dal.BaseRepository[model.GhgEntry]
}

// NewRepository 创建 GHG 数据仓储
func NewRepository(db *gorm.DB) Repository {
	return &repository{BaseRepository: dal.NewBaseRepository[model.GhgEntry](db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return NewRepository(tx)
}

func (r *repository) FindEntry(ctx context.Context, templateID string, id int64) (*model.GhgEntry, error) {
	return r.FindOne(ctx, map[string]interface{}{"id": id, "template_id": templateID})
}

func (r *repository) List(ctx context.Context, templateID string, q *ListQuery) ([]model.GhgEntry, error) {
	conditions := map[string]interface{}{"template_id": templateID}
	if q != nil && q.Period != "" {
		conditions["period"] = q.Period
	}
	if q != nil && q.Category != "" {
		conditions["category"] = q.Category
	}
	return r.FindAll(ctx, conditions, dal.WithOrder("period ASC, id ASC"))
}
