package permission

import (
	"context"
	"sort"

	"github.com/esgdesk/pkg/dal"
	"github.com/esgdesk/services/team/internal/model"
	"gorm.io/gorm"
)

// Repository 权限记录仓储接口
type Repository interface {
	dal.Repository[model.PermissionRecord]
	FindByUser(ctx context.Context, userID int64) ([]model.PermissionRecord, error)
	ReplaceForUser(ctx context.Context, userID int64, state State) error
}

type repository struct {
	*dal.BaseRepository[model.PermissionRecord]
}

// NewRepository 创建权限记录仓储
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.PermissionRecord](db),
	}
}

// FindByUser 查询用户的全部权限记录
func (r *repository) FindByUser(ctx context.Context, userID int64) ([]model.PermissionRecord, error) {
	return r.FindAll(ctx, map[string]interface{}{"user_id": userID}, dal.WithOrder("id ASC"))
}

// ReplaceForUser 以给定状态整体替换用户权限
func (r *repository) ReplaceForUser(ctx context.Context, userID int64, state State) error {
	ids := make([]string, 0, len(state))
	for id := range state {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]model.PermissionRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, model.PermissionRecord{
			UserID:     userID,
			MenuItemID: id,
			Granted:    state[id],
		})
	}

	return r.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&model.PermissionRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, 100).Error
	})
}
