package escap

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/esgdesk/pkg/errors"
	"github.com/esgdesk/pkg/logger"
	"github.com/esgdesk/pkg/metrics"
	"github.com/esgdesk/services/esgdd/internal/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ActorSystem 定时任务触发的流转记录操作人
const ActorSystem = "system"

var (
	validCategories = map[string]bool{CategoryEnvironmental: true, CategorySocial: true, CategoryGovernance: true}
	validCS         = map[string]bool{"CP": true, "CS": true, "none": true}
)

// Service 整改计划服务
type Service struct {
	repo    Repository
	machine *Machine
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService 创建整改计划服务
func NewService(repo Repository, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		machine: DefaultMachine(),
		metrics: m,
		now:     time.Now,
	}
}

func (s *Service) requirePlan(ctx context.Context, repo Repository, entityID string) (*model.CapPlan, error) {
	if strings.TrimSpace(entityID) == "" {
		return nil, errors.Validation("entityId 不能为空")
	}
	plan, err := repo.FindPlan(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.NotFound("整改计划")
	}
	return plan, nil
}

// Get 读取计划、事项、进度与统计
func (s *Service) Get(ctx context.Context, entityID string) (*PlanView, error) {
	plan, err := s.requirePlan(ctx, s.repo, entityID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, s.repo, plan)
}

func (s *Service) view(ctx context.Context, repo Repository, plan *model.CapPlan) (*PlanView, error) {
	items, err := repo.Items(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.CapItem{}
	}
	return &PlanView{
		Plan:     plan,
		Items:    items,
		Progress: roundPercent(Progress(items)),
		Summary:  Summarize(items, s.now()),
	}, nil
}

// RequestChange 审核人对计划提出变更意见
func (s *Service) RequestChange(ctx context.Context, req *ChangeRequest) (*model.CapPlan, error) {
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return nil, errors.Validation("comment 不能为空")
	}
	plan, err := s.requirePlan(ctx, s.repo, req.EntityID)
	if err != nil {
		return nil, err
	}
	if plan.Status == model.PlanAccepted {
		return nil, errors.Conflict("计划已接受, 不能再提出变更")
	}
	plan.Status = model.PlanChangeRequested
	plan.ChangeRequest = comment
	if err := s.repo.SavePlan(ctx, plan); err != nil {
		return nil, errors.Wrap(err, 500, "保存整改计划失败")
	}
	s.metrics.Inc("cap_change_requested")
	logger.Info("整改计划已提出变更", zap.String("entityId", plan.EntityID))
	return plan, nil
}

// Accept 接受计划
func (s *Service) Accept(ctx context.Context, req *AcceptRequest) (*model.CapPlan, error) {
	plan, err := s.requirePlan(ctx, s.repo, req.EntityID)
	if err != nil {
		return nil, err
	}
	if plan.Status == model.PlanAccepted {
		return nil, errors.Conflict("计划已接受")
	}
	now := s.now()
	plan.Status = model.PlanAccepted
	plan.AcceptedAt = &now
	if err := s.repo.SavePlan(ctx, plan); err != nil {
		return nil, errors.Wrap(err, 500, "保存整改计划失败")
	}
	s.metrics.Inc("cap_plan_accepted")
	logger.Info("整改计划已接受", zap.String("entityId", plan.EntityID))
	return plan, nil
}

// UpdateDetails 更新计划明细与事项, 计划不存在时创建草稿; 状态变更经状态机校验并记录
func (s *Service) UpdateDetails(ctx context.Context, req *UpdateDetailsRequest, actor string) (*PlanView, error) {
	if strings.TrimSpace(req.EntityID) == "" {
		return nil, errors.Validation("entityId 不能为空")
	}
	for i := range req.Items {
		if err := validateItem(&req.Items[i]); err != nil {
			return nil, err
		}
	}

	var view *PlanView
	err := s.repo.Transaction(ctx, func(repo Repository) error {
		plan, err := repo.FindPlan(ctx, req.EntityID)
		if err != nil {
			return err
		}
		if plan == nil {
			plan = &model.CapPlan{EntityID: req.EntityID, Status: model.PlanDraft}
		}
		if len(req.Details) > 0 {
			plan.Details = datatypes.JSON(req.Details)
		}
		// 处理完变更意见后回到草稿
		if plan.Status == model.PlanChangeRequested {
			plan.Status = model.PlanDraft
		}
		if err := repo.SavePlan(ctx, plan); err != nil {
			return err
		}

		for i := range req.Items {
			if err := s.applyItem(ctx, repo, plan.ID, &req.Items[i], actor); err != nil {
				return err
			}
		}

		view, err = s.view(ctx, repo, plan)
		return err
	})
	if err != nil {
		var appErr *errors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, errors.Wrap(err, 500, "更新整改计划失败")
	}
	return view, nil
}

func validateItem(in *ItemInput) error {
	in.Issue = strings.TrimSpace(in.Issue)
	if in.ID == 0 && in.Issue == "" {
		return errors.Validation("新增事项的 issue 不能为空")
	}
	if in.Category != "" && !validCategories[in.Category] {
		return errors.Validation("未知的类别: " + in.Category)
	}
	if in.ID == 0 && in.Category == "" {
		return errors.Validation("新增事项的 category 不能为空")
	}
	if in.Priority != "" {
		if _, ok := priorityMultiplier[in.Priority]; !ok {
			return errors.Validation("未知的优先级: " + in.Priority)
		}
	}
	if in.Status != "" && !ValidStatus(in.Status) {
		return errors.Validation("未知的状态: " + in.Status)
	}
	if in.CS != "" && !validCS[in.CS] {
		return errors.Validation("CS 只能为 CP、CS 或 none")
	}
	return nil
}

func (s *Service) applyItem(ctx context.Context, repo Repository, planID int64, in *ItemInput, actor string) error {
	var item *model.CapItem
	if in.ID == 0 {
		item = &model.CapItem{PlanID: planID, Status: StatusPending, Priority: PriorityMedium, CS: "none"}
	} else {
		found, err := repo.FindItem(ctx, planID, in.ID)
		if err != nil {
			return err
		}
		if found == nil {
			return errors.NotFound(fmt.Sprintf("整改事项(%d)", in.ID))
		}
		item = found
	}

	if in.Issue != "" {
		item.Issue = in.Issue
	}
	if in.Category != "" {
		item.Category = in.Category
	}
	if in.Priority != "" {
		item.Priority = in.Priority
	}
	if in.CS != "" {
		item.CS = in.CS
	}
	if in.Owner != "" {
		item.Owner = in.Owner
	}
	if in.Remarks != "" {
		item.Remarks = in.Remarks
	}
	if in.TargetDate != nil {
		item.TargetDate = in.TargetDate
	}
	if in.ActualDate != nil {
		item.ActualDate = in.ActualDate
	}

	created := item.ID == 0
	from := item.Status
	var transition *model.CapItemHistory
	if in.Status != "" && in.Status != from {
		if created {
			// 新事项直接以给定状态创建
			item.Status = in.Status
		} else {
			direction, err := s.machine.Transition(from, in.Status)
			if err != nil {
				return err
			}
			item.Status = in.Status
			transition = &model.CapItemHistory{
				FromStatus: from,
				ToStatus:   in.Status,
				Direction:  direction,
				Actor:      actor,
				Note:       in.Note,
			}
		}
	}
	if item.Status == StatusCompleted && item.ActualDate == nil {
		now := s.now()
		item.ActualDate = &now
	}

	if err := repo.SaveItem(ctx, item); err != nil {
		return err
	}
	if created {
		transition = &model.CapItemHistory{ToStatus: item.Status, Direction: DirectionLateral, Actor: actor, Note: "created"}
	}
	if transition == nil {
		return nil
	}
	transition.ItemID = item.ID
	if err := repo.AddHistory(ctx, transition); err != nil {
		return err
	}
	s.metrics.Inc("cap_status_" + transition.Direction)
	return nil
}

// History 事项流转记录
func (s *Service) History(ctx context.Context, entityID string, itemID int64) ([]model.CapItemHistory, error) {
	plan, err := s.requirePlan(ctx, s.repo, entityID)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindItem(ctx, plan.ID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.NotFound("整改事项")
	}
	return s.repo.History(ctx, itemID)
}

// MarkOverdue 将已逾期的 pending / in_progress 事项流转为 delayed, 返回处理条数
func (s *Service) MarkOverdue(ctx context.Context) (int, error) {
	now := s.now()
	items, err := s.repo.OverdueItems(ctx, now)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range items {
		item := items[i]
		err := s.repo.Transaction(ctx, func(repo Repository) error {
			direction, err := s.machine.Transition(item.Status, StatusDelayed)
			if err != nil {
				return err
			}
			from := item.Status
			item.Status = StatusDelayed
			if err := repo.SaveItem(ctx, &item); err != nil {
				return err
			}
			return repo.AddHistory(ctx, &model.CapItemHistory{
				ItemID:     item.ID,
				FromStatus: from,
				ToStatus:   StatusDelayed,
				Direction:  direction,
				Actor:      ActorSystem,
				Note:       "target date passed",
			})
		})
		if err != nil {
			logger.Warn("整改事项逾期标记失败", zap.Int64("itemId", item.ID), zap.Error(err))
			continue
		}
		count++
	}
	if count > 0 {
		s.metrics.Add("cap_item_delayed", float64(count))
		logger.Info("整改事项逾期标记完成", zap.Int("count", count))
	}
	return count, nil
}

func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
