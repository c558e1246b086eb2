package ghg

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// 范围三类别
var Categories = []string{
	"purchased-goods-services",
	"capital-goods",
	"fuel-energy-activities",
	"upstream-transportation",
	"waste-generated",
	"business-travel",
	"employee-commuting",
	"upstream-leased-assets",
	"downstream-transportation",
	"processing-sold-products",
	"use-of-sold-products",
	"end-of-life-treatment",
	"downstream-leased-assets",
	"franchises",
	"investments",
}

var categorySet = func() map[string]bool {
	m := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

// ValidCategory 是否为已知类别
func ValidCategory(c string) bool {
	return categorySet[c]
}

const periodLayout = "2006-01"

// ValidPeriod 严格校验 YYYY-MM
func ValidPeriod(p string) bool {
	if len(p) != len(periodLayout) {
		return false
	}
	_, err := time.Parse(periodLayout, p)
	return err == nil
}

var periodLayouts = []string{periodLayout, "2006/01", "2006-01-02", "01-02-06", "Jan 2006", "January 2006", "Jan-06", "Jan-2006"}

// NormalizePeriod 宽松解析表格中的期间并转为 YYYY-MM
func NormalizePeriod(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(periodLayout), nil
		}
	}
	return "", fmt.Errorf("无法识别的期间: %s", raw)
}

type unitDef struct {
	base   string
	factor decimal.Decimal
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// 单位换算到基准单位: 质量 kg, 能量 kWh, 体积 L, 距离 km
var units = map[string]unitDef{
	"kg":     {"kg", d("1")},
	"g":      {"kg", d("0.001")},
	"t":      {"kg", d("1000")},
	"tonne":  {"kg", d("1000")},
	"mt":     {"kg", d("1000")},
	"lb":     {"kg", d("0.45359237")},
	"kwh":    {"kWh", d("1")},
	"mwh":    {"kWh", d("1000")},
	"gwh":    {"kWh", d("1000000")},
	"mj":     {"kWh", d("1").Div(d("3.6"))},
	"gj":     {"kWh", d("1000").Div(d("3.6"))},
	"l":      {"L", d("1")},
	"ml":     {"L", d("0.001")},
	"kl":     {"L", d("1000")},
	"m3":     {"L", d("1000")},
	"gal":    {"L", d("3.785411784")},
	"km":     {"km", d("1")},
	"m":      {"km", d("0.001")},
	"mi":     {"km", d("1.609344")},
	"pkm":    {"pkm", d("1")},
	"tkm":    {"tkm", d("1")},
	"inr":    {"INR", d("1")},
	"usd":    {"USD", d("1")},
	"eur":    {"EUR", d("1")},
	"unit":   {"unit", d("1")},
	"nos":    {"unit", d("1")},
	"kgs":    {"kg", d("1")},
	"tonnes": {"kg", d("1000")},
	"litre":  {"L", d("1")},
	"liter":  {"L", d("1")},
}

// UnitInfo 单位及其基准单位
type UnitInfo struct {
	Unit string `json:"unit"`
	Base string `json:"base"`
}

// Units 支持的单位, 按名称排序
func Units() []UnitInfo {
	out := make([]UnitInfo, 0, len(units))
	for u, def := range units {
		out = append(out, UnitInfo{Unit: u, Base: def.base})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Unit < out[j].Unit })
	return out
}

// Normalize 将数量换算到基准单位
func Normalize(qty decimal.Decimal, unit string) (decimal.Decimal, string, error) {
	def, ok := units[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return decimal.Zero, "", fmt.Errorf("不支持的单位: %s", unit)
	}
	return qty.Mul(def.factor).Round(6), def.base, nil
}

// Emissions 排放量(kgCO2e) = 基准数量 × 排放因子
func Emissions(normalized, factor decimal.Decimal) decimal.Decimal {
	return normalized.Mul(factor).Round(6)
}
