package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrChallengeNotFound = errors.New("challenge not found")

type DailyChallenge struct {
	ID     string  `json:"id" db:"id"`
	UserID string  `json:"user_id" db:"user_id"`
	GoalID *string `json:"goal_id,omitempty" db:"goal_id"`

	Kind        ChallengeKind `json:"kind" db:"kind"`
	Title       string        `json:"title" db:"title"`
	Description string        `json:"description" db:"description"`

	TargetValue  int `json:"target_value" db:"target_value"`
	CurrentValue int `json:"current_value" db:"current_value"`
	XPReward     int `json:"xp_reward" db:"xp_reward"`

	IsCompleted bool       `json:"is_completed" db:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`

	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewDailyChallenge creates a day-scoped objective expiring at end of the
// calendar day of now.
func NewDailyChallenge(userID string, kind ChallengeKind, title, description string, target, xp int, now time.Time) *DailyChallenge {
	now = now.UTC()
	if target < 1 {
		target = 1
	}

	year, month, day := now.Date()
	endOfDay := time.Date(year, month, day, 23, 59, 59, 0, time.UTC)

	return &DailyChallenge{
		ID:          uuid.NewString(),
		UserID:      userID,
		Kind:        kind,
		Title:       title,
		Description: description,
		TargetValue: target,
		XPReward:    xp,
		ExpiresAt:   endOfDay,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UpdateProgress clamps the stored value to [0, target]. Crossing the target
// marks completion and timestamps it exactly once; later updates never clear
// or re-trigger it.
func (c *DailyChallenge) UpdateProgress(value int, now time.Time) {
	if value < 0 {
		value = 0
	}
	if value > c.TargetValue {
		value = c.TargetValue
	}

	c.CurrentValue = value
	c.UpdatedAt = now.UTC()

	if !c.IsCompleted && c.CurrentValue >= c.TargetValue {
		c.IsCompleted = true
		ts := now.UTC()
		c.CompletedAt = &ts
	}
}

// Increment advances progress by n (n may be negative; the clamp still holds).
func (c *DailyChallenge) Increment(n int, now time.Time) {
	c.UpdateProgress(c.CurrentValue+n, now)
}

func (c *DailyChallenge) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
