package ghg

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/esgdesk/services/esgdd/internal/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// 表格列
const (
	colCategory       = "category"
	colPeriod         = "period"
	colActivity       = "activity"
	colQuantity       = "quantity"
	colUnit           = "unit"
	colEmissionFactor = "emissionFactor"
)

var headerAliases = map[string]string{
	"category":            colCategory,
	"scope3category":      colCategory,
	"period":              colPeriod,
	"month":               colPeriod,
	"reportingperiod":     colPeriod,
	"activity":            colActivity,
	"description":         colActivity,
	"activitydescription": colActivity,
	"quantity":            colQuantity,
	"qty":                 colQuantity,
	"amount":              colQuantity,
	"activitydata":        colQuantity,
	"unit":                colUnit,
	"units":               colUnit,
	"uom":                 colUnit,
	"emissionfactor":      colEmissionFactor,
	"factor":              colEmissionFactor,
	"ef":                  colEmissionFactor,
}

var requiredColumns = []string{colCategory, colPeriod, colQuantity, colUnit, colEmissionFactor}

var (
	parenthetical = regexp.MustCompile(`\(.*?\)`)
	nonAlnum      = regexp.MustCompile(`[^a-z0-9]+`)
)

// ExportSheet 导出工作表名
const ExportSheet = "GHG Data"

// ParsedRow 解析出的一行
type ParsedRow struct {
	Row   int
	Input EntryInput
}

func normalizeHeader(h string) string {
	h = strings.ToLower(parenthetical.ReplaceAllString(h, ""))
	return nonAlnum.ReplaceAllString(h, "")
}

// MatchHeaders 将表头映射到列, 返回列名到下标的映射及缺失的必填列
func MatchHeaders(header []string) (map[string]int, []string) {
	idx := make(map[string]int)
	for i, h := range header {
		col, ok := headerAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, dup := idx[col]; !dup {
			idx[col] = i
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	return idx, missing
}

// ParseWorkbook 读取第一个工作表, 表头按别名匹配, 空行跳过
func ParseWorkbook(r io.Reader) ([]ParsedRow, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("无法读取表格: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("读取工作表失败: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("工作表为空")
	}

	idx, missing := MatchHeaders(rows[0])
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("缺少必填列: %s", strings.Join(missing, ", "))
	}

	var (
		parsed []ParsedRow
		errs   []RowError
	)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blank(row) {
			continue
		}
		in, err := parseRow(row, idx)
		if err != nil {
			errs = append(errs, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		parsed = append(parsed, ParsedRow{Row: rowNum, Input: in})
	}
	return parsed, errs, nil
}

func cell(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseNumber(raw, name string) (*decimal.Decimal, error) {
	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" {
		return nil, fmt.Errorf("%s 不能为空", name)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s 不是有效数字: %s", name, raw)
	}
	return &v, nil
}

func parseRow(row []string, idx map[string]int) (EntryInput, error) {
	period, err := NormalizePeriod(cell(row, idx, colPeriod))
	if err != nil {
		return EntryInput{}, err
	}
	qty, err := parseNumber(cell(row, idx, colQuantity), "quantity")
	if err != nil {
		return EntryInput{}, err
	}
	factor, err := parseNumber(cell(row, idx, colEmissionFactor), "emissionFactor")
	if err != nil {
		return EntryInput{}, err
	}
	return EntryInput{
		Category:       strings.ToLower(cell(row, idx, colCategory)),
		Period:         period,
		Activity:       cell(row, idx, colActivity),
		Quantity:       qty,
		Unit:           cell(row, idx, colUnit),
		EmissionFactor: factor,
	}, nil
}

var exportHeader = []interface{}{
	"Category", "Period", "Activity", "Quantity", "Unit",
	"Normalized Quantity", "Base Unit", "Emission Factor", "Emissions (kgCO2e)", "Source",
}

// WriteWorkbook 导出为 xlsx, 表头可被 ParseWorkbook 识别
func WriteWorkbook(entries []model.GhgEntry) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	for i, e := range entries {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			e.Category, e.Period, e.Activity, e.Quantity.String(), e.Unit,
			e.NormalizedQuantity.String(), e.BaseUnit, e.EmissionFactor.String(), e.Emissions.String(), e.Source,
		}
		if err := f.SetSheetRow(ExportSheet, axis, &row); err != nil {
			return nil, err
		}
	}
	return f.WriteToBuffer()
}
