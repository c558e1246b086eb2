package escap

import (
	"encoding/json"
	"time"

	"github.com/esgdesk/services/esgdd/internal/model"
)

// PlanView 计划详情
type PlanView struct {
	Plan     *model.CapPlan  `json:"plan"`
	Items    []model.CapItem `json:"items"`
	Progress float64         `json:"progress"`
	Summary  Summary         `json:"summary"`
}

// ChangeRequest 提交变更意见
type ChangeRequest struct {
	EntityID string `json:"entityId"`
	Comment  string `json:"comment"`
}

// AcceptRequest 接受计划
type AcceptRequest struct {
	EntityID string `json:"entityId"`
}

// ItemInput 事项新增或更新, ID 为 0 时新增
type ItemInput struct {
	ID         int64      `json:"id"`
	Issue      string     `json:"issue"`
	Category   string     `json:"category"`
	Priority   string     `json:"priority"`
	Status     string     `json:"status"`
	TargetDate *time.Time `json:"targetDate"`
	ActualDate *time.Time `json:"actualDate"`
	CS         string     `json:"cs"`
	Owner      string     `json:"owner"`
	Remarks    string     `json:"remarks"`
	Note       string     `json:"note"`
}

// UpdateDetailsRequest 更新计划明细
type UpdateDetailsRequest struct {
	EntityID string          `json:"entityId"`
	Details  json.RawMessage `json:"details"`
	Items    []ItemInput     `json:"items"`
}
