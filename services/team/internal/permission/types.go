package permission

import "github.com/esgdesk/services/team/internal/navigation"

// ToggleRequest 切换请求
type ToggleRequest struct {
	ItemID  string `json:"itemId"`
	Granted bool   `json:"granted"`
	State   State  `json:"state"`
}

// SaveRequest 保存请求
type SaveRequest struct {
	State State `json:"state"`
}

// PreviewRequest 预览请求, State 为空时使用已保存状态
type PreviewRequest struct {
	State State `json:"state"`
}

// StateResponse 权限状态响应
type StateResponse struct {
	UserID  int64    `json:"userId"`
	State   State    `json:"state"`
	Granted []string `json:"granted"`
}

// PreviewResponse 预览响应
type PreviewResponse struct {
	UserID int64              `json:"userId"`
	Menu   []*navigation.Item `json:"menu"`
}
