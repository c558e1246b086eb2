package escap

import (
	"testing"

	"github.com/esgdesk/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMachineTransitions(t *testing.T) {
	m := DefaultMachine()
	tests := []struct {
		from, to  string
		allowed   bool
		direction string
	}{
		{StatusPending, StatusInProgress, true, DirectionProgressed},
		{StatusPending, StatusDelayed, true, DirectionLateral},
		{StatusPending, StatusInReview, true, DirectionProgressed},
		{StatusPending, StatusCompleted, false, ""},
		{StatusPending, StatusAccepted, false, ""},
		{StatusInProgress, StatusCompleted, true, DirectionProgressed},
		{StatusInProgress, StatusPending, true, DirectionRegressed},
		{StatusInProgress, StatusDelayed, true, DirectionRegressed},
		{StatusInProgress, StatusAccepted, false, ""},
		{StatusDelayed, StatusInProgress, true, DirectionProgressed},
		{StatusDelayed, StatusCompleted, false, ""},
		{StatusInReview, StatusAccepted, true, DirectionProgressed},
		{StatusInReview, StatusInProgress, true, DirectionRegressed},
		{StatusInReview, StatusPending, false, ""},
		{StatusCompleted, StatusAccepted, true, DirectionProgressed},
		{StatusCompleted, StatusInReview, true, DirectionRegressed},
		{StatusCompleted, StatusDelayed, false, ""},
		{StatusAccepted, StatusInReview, true, DirectionRegressed},
		{StatusAccepted, StatusCompleted, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.allowed, m.CanTransition(tt.from, tt.to))
			dir, err := m.Transition(tt.from, tt.to)
			if !tt.allowed {
				require.Error(t, err)
				assert.Equal(t, 409, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.direction, dir)
		})
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	_, err := DefaultMachine().Transition(StatusPending, "archived")
	require.Error(t, err)
	assert.Equal(t, 422, errors.GetCode(err))
}

func TestEveryStatusHasAWayOut(t *testing.T) {
	m := DefaultMachine()
	for status := range statusRank {
		assert.NotEmpty(t, m.Next(status), status)
	}
}

func TestAllowIgnoresDuplicates(t *testing.T) {
	m := NewMachine().Allow("a", "b", "b").Allow("a", "b")
	assert.Equal(t, []string{"b"}, m.Next("a"))
}
