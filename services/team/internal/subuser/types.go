package subuser

import "github.com/esgdesk/pkg/dal"

// ListQuery 列表查询参数
type ListQuery struct {
	dal.Pagination
	Keyword string `query:"keyword"`
	Status  *int8  `query:"status"`
}

// ActivateRequest 新增/编辑/启停子用户
type ActivateRequest struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Designation string   `json:"designation"`
	Department  string   `json:"department"`
	LocationID  int64    `json:"locationId"`
	Status      *int8    `json:"status"`
	FeatureURLs []string `json:"featureUrls"`
}
