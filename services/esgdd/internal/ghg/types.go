package ghg

import (
	"github.com/esgdesk/services/esgdd/internal/model"
	"github.com/shopspring/decimal"
)

// ListQuery 查询条件
type ListQuery struct {
	Period   string `query:"period"`
	Category string `query:"category"`
}

// EntryInput 单条活动数据
type EntryInput struct {
	ID             int64            `json:"id"`
	Category       string           `json:"category"`
	Period         string           `json:"period"`
	Activity       string           `json:"activity"`
	Quantity       *decimal.Decimal `json:"quantity"`
	Unit           string           `json:"unit"`
	EmissionFactor *decimal.Decimal `json:"emissionFactor"`
}

// CollectRequest 批量提交
type CollectRequest struct {
	TemplateID string       `json:"templateId"`
	Entries    []EntryInput `json:"entries"`
}

// PeriodTotal 期间汇总
type PeriodTotal struct {
	Period    string          `json:"period"`
	Entries   int             `json:"entries"`
	Emissions decimal.Decimal `json:"emissions"`
}

// Collection 数据与汇总
type Collection struct {
	TemplateID string           `json:"templateId"`
	Entries    []model.GhgEntry `json:"entries"`
	Totals     []PeriodTotal    `json:"totals"`
	Total      decimal.Decimal  `json:"total"`
}

// RowError 导入行错误, Row 为表格行号(从 1 开始, 含表头)
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult 导入结果
type ImportResult struct {
	BatchID  string     `json:"batchId"`
	Imported int        `json:"imported"`
	Errors   []RowError `json:"errors"`
	Archive  string     `json:"archive,omitempty"`
}
