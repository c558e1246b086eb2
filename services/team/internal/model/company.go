package model

import (
	"github.com/esgdesk/pkg/dal"
	"github.com/shopspring/decimal"
)

// FeatureAccess 公司级功能开关
type FeatureAccess struct {
	dal.Model
	Feature string `gorm:"size:100;uniqueIndex;not null" json:"feature"`
	Enabled bool   `gorm:"not null" json:"enabled"`
}

// TableName 表名
func (FeatureAccess) TableName() string {
	return "company_feature_access"
}

// 地点类型
const (
	LocationOffice    = "office"
	LocationPlant     = "plant"
	LocationWarehouse = "warehouse"
	LocationOther     = "other"
)

// Location 公司经营地点
type Location struct {
	dal.Model
	Name    string `gorm:"size:150;not null" json:"name"`
	Address string `gorm:"size:255" json:"address"`
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:100" json:"state"`
	Country string `gorm:"size:100" json:"country"`
	Pincode string `gorm:"size:20" json:"pincode"`
	Type    string `gorm:"size:20;not null" json:"type"`
}

// TableName 表名
func (Location) TableName() string {
	return "company_location"
}

// Subsidiary 子公司/关联公司
type Subsidiary struct {
	dal.Model
	Name             string          `gorm:"size:200;not null" json:"name"`
	CIN              string          `gorm:"column:cin;size:30" json:"cin"`
	Country          string          `gorm:"size:100" json:"country"`
	OwnershipPercent decimal.Decimal `gorm:"type:decimal(5,2)" json:"ownershipPercent"`
	Relationship     string          `gorm:"size:50" json:"relationship"` // subsidiary / associate / joint_venture
}

// TableName 表名
func (Subsidiary) TableName() string {
	return "company_subsidiary"
}
