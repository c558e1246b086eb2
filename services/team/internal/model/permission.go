package model

import (
	"github.com/esgdesk/pkg/dal"
)

// PermissionRecord 子用户菜单权限记录
type PermissionRecord struct {
	dal.Model
	UserID     int64  `gorm:"not null;uniqueIndex:uk_user_menu" json:"userId"`
	MenuItemID string `gorm:"size:64;not null;uniqueIndex:uk_user_menu" json:"menuItemId"`
	Granted    bool   `gorm:"not null" json:"granted"`
}

// TableName 表名
func (PermissionRecord) TableName() string {
	return "team_permission"
}
