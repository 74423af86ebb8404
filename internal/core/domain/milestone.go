package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMilestoneTitleEmpty = errors.New("milestone title cannot be empty")
	ErrMilestoneNotFound   = errors.New("milestone not found")
	ErrMilestoneConflict   = errors.New("milestone version conflict")
)

// dueSoonDays is the inclusive days-remaining window for DueSoon.
const dueSoonDays = 3

type Milestone struct {
	ID     string `json:"id" db:"id"`
	GoalID string `json:"goal_id" db:"goal_id"`
	UserID string `json:"user_id" db:"user_id"`

	Title     string     `json:"title" db:"title"`
	Points    int        `json:"points" db:"points"`
	SortOrder int        `json:"sort_order" db:"sort_order"`
	TargetAt  *time.Time `json:"target_at,omitempty" db:"target_at"`

	IsCompleted bool       `json:"is_completed" db:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewMilestone(goalID, userID, title string, points, sortOrder int) (*Milestone, error) {
	if goalID == "" || userID == "" {
		return nil, ErrGoalInvalidUserID
	}

	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil, ErrMilestoneTitleEmpty
	}

	if points < 0 {
		points = 0
	}

	now := time.Now().UTC()

	return &Milestone{
		ID:        uuid.NewString(),
		GoalID:    goalID,
		UserID:    userID,
		Title:     trimmed,
		Points:    points,
		SortOrder: sortOrder,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ToggleCompletion flips the completion flag, timestamping on completion.
func (m *Milestone) ToggleCompletion(now time.Time) {
	now = now.UTC()
	if m.IsCompleted {
		m.IsCompleted = false
		m.CompletedAt = nil
	} else {
		m.IsCompleted = true
		m.CompletedAt = &now
	}
	m.UpdatedAt = now
}

// DaysRemaining is negative when the target date is in the past.
func (m *Milestone) DaysRemaining(now time.Time) (int, bool) {
	if m.TargetAt == nil {
		return 0, false
	}
	return int(m.TargetAt.Sub(now).Hours() / 24), true
}

// MilestoneList aggregates the milestones of a single goal.
type MilestoneList []*Milestone

func (l MilestoneList) CompletedCount() int {
	count := 0
	for _, m := range l {
		if m.IsCompleted {
			count++
		}
	}
	return count
}

// Progress is completed/total, 0 for an empty list.
func (l MilestoneList) Progress() float64 {
	if len(l) == 0 {
		return 0
	}
	return float64(l.CompletedCount()) / float64(len(l))
}

func (l MilestoneList) ProgressString() string {
	return fmt.Sprintf("%d/%d", l.CompletedCount(), len(l))
}

func (l MilestoneList) TotalPointsValue() int {
	total := 0
	for _, m := range l {
		total += m.Points
	}
	return total
}

func (l MilestoneList) EarnedPoints() int {
	earned := 0
	for _, m := range l {
		if m.IsCompleted {
			earned += m.Points
		}
	}
	return earned
}

// Sorted returns a stable copy ordered by explicit sort order.
func (l MilestoneList) Sorted() MilestoneList {
	out := make(MilestoneList, len(l))
	copy(out, l)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}

// NextMilestone is the first incomplete milestone in sort order, nil if all done.
func (l MilestoneList) NextMilestone() *Milestone {
	for _, m := range l.Sorted() {
		if !m.IsCompleted {
			return m
		}
	}
	return nil
}

// Overdue returns incomplete milestones whose target date has passed.
func (l MilestoneList) Overdue(now time.Time) MilestoneList {
	var out MilestoneList
	for _, m := range l {
		if !m.IsCompleted && m.TargetAt != nil && m.TargetAt.Before(now) {
			out = append(out, m)
		}
	}
	return out
}

// DueSoon returns incomplete milestones with 0-3 days remaining.
func (l MilestoneList) DueSoon(now time.Time) MilestoneList {
	var out MilestoneList
	for _, m := range l {
		if m.IsCompleted {
			continue
		}
		days, ok := m.DaysRemaining(now)
		if ok && days >= 0 && days <= dueSoonDays {
			out = append(out, m)
		}
	}
	return out
}
