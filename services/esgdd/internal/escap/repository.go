package escap

import (
	"context"
	"time"

	"github.com/esgdesk/pkg/dal"
	"github.com/esgdesk/services/esgdd/internal/model"
	"gorm.io/gorm"
)

// Repository 整改计划仓储接口
type Repository interface {
	FindPlan(ctx context.Context, entityID string) (*model.CapPlan, error)
	SavePlan(ctx context.Context, plan *model.CapPlan) error
	Items(ctx context.Context, planID int64) ([]model.CapItem, error)
	FindItem(ctx context.Context, planID, itemID int64) (*model.CapItem, error)
	SaveItem(ctx context.Context, item *model.CapItem) error
	AddHistory(ctx context.Context, h *model.CapItemHistory) error
	History(ctx context.Context, itemID int64) ([]model.CapItemHistory, error)
	OverdueItems(ctx context.Context, now time.Time) ([]model.CapItem, error)
	// Transaction 在同一事务内执行 fn, fn 内使用传入的仓储
	Transaction(ctx context.Context, fn func(repo Repository) error) error
}

type repository struct {
	db      *gorm.DB
	plans   *dal.BaseRepository[model.CapPlan]
	items   *dal.BaseRepository[model.CapItem]
	history *dal.BaseRepository[model.CapItemHistory]
}

// NewRepository 创建整改计划仓储
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		db:      db,
		plans:   dal.NewBaseRepository[model.CapPlan](db),
		items:   dal.NewBaseRepository[model.CapItem](db),
		history: dal.NewBaseRepository[model.CapItemHistory](db),
	}
}

func (r *repository) FindPlan(ctx context.Context, entityID string) (*model.CapPlan, error) {
	return r.plans.FindOne(ctx, map[string]interface{}{"entity_id": entityID})
}

func (r *repository) SavePlan(ctx context.Context, plan *model.CapPlan) error {
	if plan.ID == 0 {
		return r.plans.Create(ctx, plan)
	}
	return r.plans.Update(ctx, plan)
}

func (r *repository) Items(ctx context.Context, planID int64) ([]model.CapItem, error) {
	return r.items.FindAll(ctx, map[string]interface{}{"plan_id": planID}, dal.WithOrder("id ASC"))
}

func (r *repository) FindItem(ctx context.Context, planID, itemID int64) (*model.CapItem, error) {
	return r.items.FindOne(ctx, map[string]interface{}{"id": itemID, "plan_id": planID})
}

func (r *repository) SaveItem(ctx context.Context, item *model.CapItem) error {
	if item.ID == 0 {
		return r.items.Create(ctx, item)
	}
	return r.items.Update(ctx, item)
}

func (r *repository) AddHistory(ctx context.Context, h *model.CapItemHistory) error {
	return r.history.Create(ctx, h)
}

func (r *repository) History(ctx context.Context, itemID int64) ([]model.CapItemHistory, error) {
	return r.history.FindAll(ctx, map[string]interface{}{"item_id": itemID}, dal.WithOrder("id ASC"))
}

// OverdueItems 目标日期已过且仍在 pending / in_progress 的事项
func (r *repository) OverdueItems(ctx context.Context, now time.Time) ([]model.CapItem, error) {
	return r.items.FindAll(ctx, nil,
		dal.WithWhere("status IN ?", []string{StatusPending, StatusInProgress}),
		dal.WithWhere("target_date IS NOT NULL AND target_date < ?", now),
		dal.WithOrder("id ASC"),
	)
}

func (r *repository) Transaction(ctx context.Context, fn func(repo Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
