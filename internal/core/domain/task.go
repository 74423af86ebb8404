package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTaskTitleEmpty      = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong    = errors.New("task title is too long (max 200 chars)")
	ErrTaskInvalidUserID   = errors.New("invalid user id")
	ErrTaskNegativeMinutes = errors.New("estimated minutes cannot be negative")
	ErrTaskAlreadyDone     = errors.New("task is already completed")
	ErrTaskNotRecurring    = errors.New("task has no recurrence rule")
	ErrTaskNotFound        = errors.New("task not found")
	ErrTaskConflict        = errors.New("task version conflict")
)

const (
	MaxTaskTitleLen = 200

	basePoints       = 10
	minPoints        = 10
	maxPoints        = 100
	aiBonus          = 5
	scheduleBonus    = 5
	onTimeBonus      = 10
	overduePenalty   = 10
	durationBonusCap = 20
)

type Task struct {
	ID     string  `json:"id" db:"id"`
	UserID string  `json:"user_id" db:"user_id"`
	GoalID *string `json:"goal_id,omitempty" db:"goal_id"`

	Title    string   `json:"title" db:"title"`
	Notes    string   `json:"notes,omitempty" db:"notes"`
	Category Category `json:"category" db:"category"`

	// Priority is the 1-3 star tier.
	Priority    int     `json:"priority" db:"priority"`
	AIProcessed bool    `json:"ai_processed" db:"ai_processed"`
	AILabel     *string `json:"ai_label,omitempty" db:"ai_label"`

	EstimatedMinutes int        `json:"estimated_minutes" db:"estimated_minutes"`
	ScheduledAt      *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`

	Recurrence       RecurrenceRule `json:"recurrence" db:"recurrence"`
	RecurrenceDays   []int          `json:"recurrence_days,omitempty" db:"-"`
	RecurrenceEndsAt *time.Time     `json:"recurrence_ends_at,omitempty" db:"recurrence_ends_at"`
	ParentTaskID     *string        `json:"parent_task_id,omitempty" db:"parent_task_id"`

	IsCompleted  bool       `json:"is_completed" db:"is_completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	PointsEarned int        `json:"points_earned" db:"points_earned"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewTask(userID, title string, category Category, priority int) (*Task, error) {
	if userID == "" {
		return nil, ErrTaskInvalidUserID
	}

	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil, ErrTaskTitleEmpty
	}
	if len(trimmed) > MaxTaskTitleLen {
		return nil, ErrTaskTitleTooLong
	}

	if priority < 1 || priority > 3 {
		return nil, ErrInvalidPriority
	}

	now := time.Now().UTC()

	return &Task{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      trimmed,
		Category:   category,
		Priority:   priority,
		Recurrence: RecurrenceNone,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// IsOverdue reports whether the scheduled time is in the past for an
// uncompleted task.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.IsCompleted || t.ScheduledAt == nil {
		return false
	}
	return t.ScheduledAt.Before(now)
}

// PotentialPoints estimates the task's reward before completion.
// The result is always within [10, 100]; all inputs saturate rather
// than error so a displayable value always exists.
func (t *Task) PotentialPoints(now time.Time) int {
	points := basePoints

	switch t.Priority {
	case 3:
		points += 15
	case 2:
		points += 5
	}
	points += t.Priority * 5

	if t.AIProcessed {
		points += aiBonus
	}
	if t.ScheduledAt != nil {
		points += scheduleBonus
	}

	durationBonus := t.EstimatedMinutes / 10
	if durationBonus > durationBonusCap {
		durationBonus = durationBonusCap
	}
	if durationBonus > 0 {
		points += durationBonus
	}

	if t.IsOverdue(now) {
		points -= overduePenalty
		if points < minPoints {
			points = minPoints
		}
	}

	if points > maxPoints {
		points = maxPoints
	}
	return points
}

// Complete freezes the earned points snapshot. An on-time bonus applies
// when a schedule existed and completion happened at or before it.
func (t *Task) Complete(now time.Time) error {
	if t.IsCompleted {
		return ErrTaskAlreadyDone
	}

	now = now.UTC()
	earned := t.PotentialPoints(now)
	if t.ScheduledAt != nil && !now.After(*t.ScheduledAt) {
		earned += onTimeBonus
	}

	t.IsCompleted = true
	t.CompletedAt = &now
	t.PointsEarned = earned
	t.UpdatedAt = now
	return nil
}

// Reopen clears completion state, discarding the frozen snapshot.
func (t *Task) Reopen() {
	if !t.IsCompleted {
		return
	}
	t.IsCompleted = false
	t.CompletedAt = nil
	t.PointsEarned = 0
	t.UpdatedAt = time.Now().UTC()
}

func (t *Task) Energy(now time.Time) EnergyState {
	return EnergyForPoints(t.PotentialPoints(now))
}
