package model

import (
	"github.com/esgdesk/pkg/dal"
	"github.com/shopspring/decimal"
)

// GHG 数据来源
const (
	SourceManual = "manual"
	SourceImport = "import"
)

// GhgEntry 范围三活动数据
type GhgEntry struct {
	dal.Model
	TemplateID         string          `gorm:"size:64;index:idx_ghg_template_period;not null" json:"templateId"`
	Category           string          `gorm:"size:64;not null" json:"category"`
	Period             string          `gorm:"size:7;index:idx_ghg_template_period;not null" json:"period"` // YYYY-MM
	Activity           string          `gorm:"size:255" json:"activity"`
	Quantity           decimal.Decimal `gorm:"type:decimal(20,6)" json:"quantity"`
	Unit               string          `gorm:"size:16" json:"unit"`
	NormalizedQuantity decimal.Decimal `gorm:"type:decimal(24,6)" json:"normalizedQuantity"`
	BaseUnit           string          `gorm:"size:16" json:"baseUnit"`
	EmissionFactor     decimal.Decimal `gorm:"type:decimal(20,6)" json:"emissionFactor"`
	Emissions          decimal.Decimal `gorm:"type:decimal(24,6)" json:"emissions"` // kgCO2e
	Source             string          `gorm:"size:16;not null" json:"source"`
	BatchID            string          `gorm:"size:36;index" json:"batchId,omitempty"`
}

func (GhgEntry) TableName() string {
	return "ghg_data_entry"
}
