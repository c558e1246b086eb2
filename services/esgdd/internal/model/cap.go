package model

import (
	"time"

	"github.com/esgdesk/pkg/dal"
	"gorm.io/datatypes"
)

// 整改计划状态
const (
	PlanDraft           = "draft"
	PlanChangeRequested = "change_requested"
	PlanAccepted        = "accepted"
)

// CapPlan ESG 整改计划(每个被尽调主体一份)
type CapPlan struct {
	dal.Model
	EntityID      string         `gorm:"size:64;uniqueIndex;not null" json:"entityId"`
	Status        string         `gorm:"size:32;not null" json:"status"`
	ChangeRequest string         `gorm:"type:text" json:"changeRequest"`
	Details       datatypes.JSON `json:"details"`
	AcceptedAt    *time.Time     `json:"acceptedAt"`
	Items         []CapItem      `gorm:"foreignKey:PlanID" json:"items,omitempty"`
}

func (CapPlan) TableName() string {
	return "esg_cap_plan"
}

// CapItem 整改事项
type CapItem struct {
	dal.Model
	PlanID     int64      `gorm:"index;not null" json:"planId"`
	Issue      string     `gorm:"size:500;not null" json:"issue"`
	Category   string     `gorm:"size:32;not null" json:"category"` // environmental / social / governance
	Priority   string     `gorm:"size:16" json:"priority"`
	Status     string     `gorm:"size:32;index;not null" json:"status"`
	TargetDate *time.Time `json:"targetDate"`
	ActualDate *time.Time `json:"actualDate"`
	CS         string     `gorm:"column:cs;size:8" json:"cs"` // CP / CS / none
	Owner      string     `gorm:"size:100" json:"owner"`
	Remarks    string     `gorm:"type:text" json:"remarks"`
}

func (CapItem) TableName() string {
	return "esg_cap_item"
}

// CapItemHistory 整改事项状态流转记录
type CapItemHistory struct {
	dal.Model
	ItemID     int64  `gorm:"index;not null" json:"itemId"`
	FromStatus string `gorm:"size:32" json:"fromStatus"`
	ToStatus   string `gorm:"size:32;not null" json:"toStatus"`
	Direction  string `gorm:"size:16;not null" json:"direction"`
	Actor      string `gorm:"size:100" json:"actor"`
	Note       string `gorm:"size:500" json:"note"`
}

func (CapItemHistory) TableName() string {
	return "esg_cap_item_history"
}
