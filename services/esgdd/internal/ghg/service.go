package ghg

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/esgdesk/pkg/errors"
	"github.com/esgdesk/pkg/logger"
	"github.com/esgdesk/pkg/metrics"
	"github.com/esgdesk/pkg/storage"
	"github.com/esgdesk/services/esgdd/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Service GHG 数据采集服务
type Service struct {
	repo    Repository
	store   storage.Store
	metrics *metrics.Metrics
}

// NewService 创建 GHG 服务, store 为空时不归档导入文件
func NewService(repo Repository, store storage.Store, m *metrics.Metrics) *Service {
	return &Service{repo: repo, store: store, metrics: m}
}

func requireTemplate(templateID string) error {
	if strings.TrimSpace(templateID) == "" {
		return errors.Validation("templateId 不能为空")
	}
	return nil
}

// build 校验输入并计算换算数量与排放量
func build(templateID string, in *EntryInput, source string) (*model.GhgEntry, error) {
	if !ValidCategory(in.Category) {
		return nil, fmt.Errorf("未知的类别: %s", in.Category)
	}
	if !ValidPeriod(in.Period) {
		return nil, fmt.Errorf("period 需为 YYYY-MM: %s", in.Period)
	}
	if in.Quantity == nil {
		return nil, fmt.Errorf("quantity 不能为空")
	}
	if in.Quantity.IsNegative() {
		return nil, fmt.Errorf("quantity 不能为负数")
	}
	if in.EmissionFactor == nil {
		return nil, fmt.Errorf("emissionFactor 不能为空")
	}
	if in.EmissionFactor.IsNegative() {
		return nil, fmt.Errorf("emissionFactor 不能为负数")
	}
	normalized, base, err := Normalize(*in.Quantity, in.Unit)
	if err != nil {
		return nil, err
	}
	return &model.GhgEntry{
		TemplateID:         templateID,
		Category:           in.Category,
		Period:             in.Period,
		Activity:           strings.TrimSpace(in.Activity),
		Quantity:           *in.Quantity,
		Unit:               in.Unit,
		NormalizedQuantity: normalized,
		BaseUnit:           base,
		EmissionFactor:     *in.EmissionFactor,
		Emissions:          Emissions(normalized, *in.EmissionFactor),
		Source:             source,
	}, nil
}

func (s *Service) save(ctx context.Context, repo Repository, templateID string, in *EntryInput, source string) (*model.GhgEntry, error) {
	entry, err := build(templateID, in, source)
	if err != nil {
		return nil, errors.Validation(err.Error())
	}
	if in.ID == 0 {
		if err := repo.Create(ctx, entry); err != nil {
			return nil, err
		}
		return entry, nil
	}

	existing, err := repo.FindEntry(ctx, templateID, in.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.NotFound("GHG 数据")
	}
	entry.Model = existing.Model
	entry.BatchID = existing.BatchID
	if err := repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Save 新增或更新单条数据
func (s *Service) Save(ctx context.Context, templateID string, in *EntryInput) (*model.GhgEntry, error) {
	if err := requireTemplate(templateID); err != nil {
		return nil, err
	}
	entry, err := s.save(ctx, s.repo, templateID, in, model.SourceManual)
	if err != nil {
		return nil, err
	}
	s.metrics.Inc("ghg_entry_saved")
	return entry, nil
}

// Collect 批量提交, 任一条失败则整体回滚
func (s *Service) Collect(ctx context.Context, req *CollectRequest) ([]model.GhgEntry, error) {
	if err := requireTemplate(req.TemplateID); err != nil {
		return nil, err
	}
	if len(req.Entries) == 0 {
		return nil, errors.Validation("entries 不能为空")
	}

	saved := make([]model.GhgEntry, 0, len(req.Entries))
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for i := range req.Entries {
			entry, err := s.save(ctx, repo, req.TemplateID, &req.Entries[i], model.SourceManual)
			if err != nil {
				var appErr *errors.AppError
				if errors.As(err, &appErr) {
					return errors.New(appErr.Code, fmt.Sprintf("第 %d 条: %s", i+1, appErr.Message))
				}
				return err
			}
			saved = append(saved, *entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.Add("ghg_entry_saved", float64(len(saved)))
	logger.Info("GHG 数据已批量保存", zap.String("templateId", req.TemplateID), zap.Int("count", len(saved)))
	return saved, nil
}

// List 查询数据并按期间汇总排放量
func (s *Service) List(ctx context.Context, templateID string, q *ListQuery) (*Collection, error) {
	if err := requireTemplate(templateID); err != nil {
		return nil, err
	}
	if q != nil && q.Period != "" && !ValidPeriod(q.Period) {
		return nil, errors.Validation("period 需为 YYYY-MM")
	}
	entries, err := s.repo.List(ctx, templateID, q)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.GhgEntry{}
	}
	totals, total := Totals(entries)
	return &Collection{TemplateID: templateID, Entries: entries, Totals: totals, Total: total}, nil
}

// Totals 按期间汇总, 期间升序
func Totals(entries []model.GhgEntry) ([]PeriodTotal, decimal.Decimal) {
	byPeriod := make(map[string]*PeriodTotal)
	total := decimal.Zero
	for _, e := range entries {
		pt, ok := byPeriod[e.Period]
		if !ok {
			pt = &PeriodTotal{Period: e.Period, Emissions: decimal.Zero}
			byPeriod[e.Period] = pt
		}
		pt.Entries++
		pt.Emissions = pt.Emissions.Add(e.Emissions)
		total = total.Add(e.Emissions)
	}
	out := make([]PeriodTotal, 0, len(byPeriod))
	for _, pt := range byPeriod {
		out = append(out, *pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, total
}

// Import 导入 xlsx, 合法行入库, 非法行在结果中返回; 原始文件归档到对象存储
func (s *Service) Import(ctx context.Context, templateID, filename string, data []byte) (*ImportResult, error) {
	if err := requireTemplate(templateID); err != nil {
		return nil, err
	}
	rows, rowErrs, err := ParseWorkbook(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Validation(err.Error())
	}

	result := &ImportResult{BatchID: uuid.NewString(), Errors: rowErrs}
	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, row := range rows {
			entry, err := build(templateID, &row.Input, model.SourceImport)
			if err != nil {
				result.Errors = append(result.Errors, RowError{Row: row.Row, Message: err.Error()})
				continue
			}
			entry.BatchID = result.BatchID
			if err := repo.Create(ctx, entry); err != nil {
				return err
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, 500, "导入 GHG 数据失败")
	}
	if result.Errors == nil {
		result.Errors = []RowError{}
	}
	sort.Slice(result.Errors, func(i, j int) bool { return result.Errors[i].Row < result.Errors[j].Row })

	if s.store != nil {
		name := fmt.Sprintf("ghg-imports/%s/%s.xlsx", templateID, result.BatchID)
		location, err := s.store.Put(ctx, name, bytes.NewReader(data), int64(len(data)), xlsxContentType)
		if err != nil {
			logger.Warn("归档导入文件失败", zap.String("file", filename), zap.Error(err))
		} else {
			result.Archive = location
		}
	}

	s.metrics.Add("ghg_rows_imported", float64(result.Imported))
	s.metrics.Add("ghg_rows_rejected", float64(len(result.Errors)))
	logger.Info("GHG 数据导入完成",
		zap.String("templateId", templateID),
		zap.String("batchId", result.BatchID),
		zap.String("file", filename),
		zap.Int("imported", result.Imported),
		zap.Int("rejected", len(result.Errors)),
	)
	return result, nil
}

// Export 导出为 xlsx
func (s *Service) Export(ctx context.Context, templateID string, q *ListQuery) ([]byte, error) {
	c, err := s.List(ctx, templateID, q)
	if err != nil {
		return nil, err
	}
	buf, err := WriteWorkbook(c.Entries)
	if err != nil {
		return nil, errors.Wrap(err, 500, "生成表格失败")
	}
	return buf.Bytes(), nil
}
