package model

import (
	"github.com/esgdesk/pkg/dal"
	"gorm.io/datatypes"
)

// 子用户状态
const (
	StatusInactive int8 = 0
	StatusActive   int8 = 1
)

// SubUser 团队成员(子用户)
type SubUser struct {
	dal.Model
	Name        string                      `gorm:"size:100;not null" json:"name"`
	Email       string                      `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Phone       string                      `gorm:"size:20" json:"phone"`
	Designation string                      `gorm:"size:100" json:"designation"`
	Department  string                      `gorm:"size:100" json:"department"`
	LocationID  int64                       `gorm:"index" json:"locationId"`
	Status      int8                        `gorm:"not null" json:"status"` // 1:启用 0:停用
	FeatureURLs datatypes.JSONSlice[string] `gorm:"type:json" json:"featureUrls"`
}

// TableName 表名
func (SubUser) TableName() string {
	return "team_subuser"
}

// Active 是否启用
func (u *SubUser) Active() bool {
	return u.Status == StatusActive
}
