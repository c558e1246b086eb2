package escap

import (
	"testing"
	"time"

	"github.com/esgdesk/services/esgdd/internal/model"
	"github.com/stretchr/testify/assert"
)

func item(priority, status string) model.CapItem {
	return model.CapItem{Priority: priority, Status: status, Category: CategoryEnvironmental}
}

func TestProgressEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Progress(nil))
	assert.Equal(t, 0.0, Progress([]model.CapItem{}))
}

func TestProgressAllCompletedIsHundred(t *testing.T) {
	items := []model.CapItem{
		item(PriorityHigh, StatusCompleted),
		item(PriorityLow, StatusCompleted),
		item("", StatusCompleted),
		item("urgent", StatusCompleted),
	}
	assert.InDelta(t, 100.0, Progress(items), 1e-9)
}

func TestProgressWeighsByPriority(t *testing.T) {
	done := []model.CapItem{
		item(PriorityLow, StatusCompleted),
		item(PriorityLow, StatusCompleted),
		item(PriorityLow, StatusCompleted),
	}
	withHigh := append(append([]model.CapItem{}, done...), item(PriorityHigh, StatusPending))
	withLow := append(append([]model.CapItem{}, done...), item(PriorityLow, StatusPending))

	// 1.5 / 3.5 与 1.5 / 2.0
	assert.InDelta(t, 1.5/3.5*100, Progress(withHigh), 1e-9)
	assert.InDelta(t, 75.0, Progress(withLow), 1e-9)
	assert.Less(t, Progress(withHigh), Progress(withLow))
}

func TestProgressUnknownPriorityCountsAsMedium(t *testing.T) {
	a := []model.CapItem{item("whatever", StatusCompleted), item(PriorityMedium, StatusPending)}
	assert.InDelta(t, 50.0, Progress(a), 1e-9)
}

func TestProgressOnlyCountsCompleted(t *testing.T) {
	items := []model.CapItem{item(PriorityMedium, StatusAccepted), item(PriorityMedium, StatusCompleted)}
	assert.InDelta(t, 50.0, Progress(items), 1e-9)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)

	items := []model.CapItem{
		{Category: CategoryEnvironmental, Priority: PriorityHigh, Status: StatusPending, TargetDate: &past},
		{Category: CategorySocial, Priority: PriorityLow, Status: StatusCompleted, TargetDate: &past},
		{Category: CategorySocial, Status: StatusDelayed, TargetDate: &past},
		{Category: CategoryGovernance, Priority: PriorityMedium, Status: StatusInProgress, TargetDate: &future},
	}
	s := Summarize(items, now)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 2, s.Overdue)
	assert.Equal(t, 2, s.ByCategory[CategorySocial])
	assert.Equal(t, 2, s.ByPriority[PriorityMedium])
	assert.Equal(t, 1, s.ByStatus[StatusDelayed])
}
