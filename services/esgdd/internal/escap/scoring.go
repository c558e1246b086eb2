package escap

import (
	"time"

	"github.com/esgdesk/services/esgdd/internal/model"
)

// 优先级
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// 问题类别
const (
	CategoryEnvironmental = "environmental"
	CategorySocial        = "social"
	CategoryGovernance    = "governance"
)

var priorityMultiplier = map[string]float64{
	PriorityHigh:   2,
	PriorityMedium: 1,
	PriorityLow:    0.5,
}

// multiplier 未知或缺省优先级按 medium 计
func multiplier(priority string) float64 {
	if m, ok := priorityMultiplier[priority]; ok {
		return m
	}
	return priorityMultiplier[PriorityMedium]
}

// Progress 按优先级加权的完成百分比, 空列表为 0
func Progress(items []model.CapItem) float64 {
	if len(items) == 0 {
		return 0
	}
	base := 100 / float64(len(items))

	var done, total float64
	for _, item := range items {
		w := base * multiplier(item.Priority)
		total += w
		if item.Status == StatusCompleted {
			done += w
		}
	}
	if total == 0 {
		return 0
	}
	return done / total * 100
}

// Summary 计划统计
type Summary struct {
	Total      int            `json:"total"`
	Completed  int            `json:"completed"`
	Overdue    int            `json:"overdue"`
	ByStatus   map[string]int `json:"byStatus"`
	ByCategory map[string]int `json:"byCategory"`
	ByPriority map[string]int `json:"byPriority"`
}

// Summarize 按状态、类别、优先级计数; Overdue 为已过目标日期且未完成的事项
func Summarize(items []model.CapItem, now time.Time) Summary {
	s := Summary{
		Total:      len(items),
		ByStatus:   make(map[string]int),
		ByCategory: make(map[string]int),
		ByPriority: make(map[string]int),
	}
	for _, item := range items {
		s.ByStatus[item.Status]++
		s.ByCategory[item.Category]++
		p := item.Priority
		if _, ok := priorityMultiplier[p]; !ok {
			p = PriorityMedium
		}
		s.ByPriority[p]++
		if item.Status == StatusCompleted {
			s.Completed++
		}
		if isOverdue(item, now) {
			s.Overdue++
		}
	}
	return s
}

func isOverdue(item model.CapItem, now time.Time) bool {
	if item.TargetDate == nil || !item.TargetDate.Before(now) {
		return false
	}
	return item.Status == StatusPending || item.Status == StatusInProgress || item.Status == StatusDelayed
}
