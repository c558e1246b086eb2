package escap

import (
	"fmt"
	"slices"

	"github.com/esgdesk/pkg/errors"
)

// 整改事项状态
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusInReview   = "in_review"
	StatusCompleted  = "completed"
	StatusAccepted   = "accepted"
	StatusDelayed    = "delayed"
)

// 流转方向
const (
	DirectionProgressed = "progressed"
	DirectionRegressed  = "regressed"
	DirectionLateral    = "lateral"
)

// statusRank 用于判断流转方向, pending 与 delayed 同级
var statusRank = map[string]int{
	StatusPending:    0,
	StatusDelayed:    0,
	StatusInProgress: 1,
	StatusInReview:   2,
	StatusCompleted:  3,
	StatusAccepted:   4,
}

// ValidStatus 是否为已知状态
func ValidStatus(s string) bool {
	_, ok := statusRank[s]
	return ok
}

// Machine 整改事项状态机
type Machine struct {
	transitions map[string][]string
}

// NewMachine 创建空状态机
func NewMachine() *Machine {
	return &Machine{transitions: make(map[string][]string)}
}

// Allow 注册 from 可流转到的状态
func (m *Machine) Allow(from string, to ...string) *Machine {
	for _, target := range to {
		if !slices.Contains(m.transitions[from], target) {
			m.transitions[from] = append(m.transitions[from], target)
		}
	}
	return m
}

// CanTransition 是否允许流转
func (m *Machine) CanTransition(from, to string) bool {
	return slices.Contains(m.transitions[from], to)
}

// Next 可流转到的状态
func (m *Machine) Next(from string) []string {
	return slices.Clone(m.transitions[from])
}

// Transition 校验流转并返回方向, 不允许时返回 409
func (m *Machine) Transition(from, to string) (string, error) {
	if !ValidStatus(to) {
		return "", errors.Validation(fmt.Sprintf("未知的状态: %s", to))
	}
	if !m.CanTransition(from, to) {
		return "", errors.Conflict(fmt.Sprintf("不允许的状态流转: %s -> %s", from, to))
	}
	return Direction(from, to), nil
}

// Direction 根据状态级别判断流转方向
func Direction(from, to string) string {
	rf, rt := statusRank[from], statusRank[to]
	switch {
	case rt > rf:
		return DirectionProgressed
	case rt < rf:
		return DirectionRegressed
	default:
		return DirectionLateral
	}
}

// DefaultMachine 整改事项的标准流转表
func DefaultMachine() *Machine {
	return NewMachine().
		Allow(StatusPending, StatusInProgress, StatusDelayed, StatusInReview).
		Allow(StatusInProgress, StatusInReview, StatusCompleted, StatusDelayed, StatusPending).
		Allow(StatusDelayed, StatusInProgress, StatusInReview, StatusPending).
		Allow(StatusInReview, StatusCompleted, StatusInProgress, StatusAccepted).
		Allow(StatusCompleted, StatusAccepted, StatusInReview, StatusInProgress).
		Allow(StatusAccepted, StatusInReview)
}
