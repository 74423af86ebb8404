package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrGoalTitleEmpty    = errors.New("goal title cannot be empty")
	ErrGoalTitleTooLong  = errors.New("goal title is too long (max 150 chars)")
	ErrGoalInvalidUserID = errors.New("invalid user id")
	ErrGoalNotFound      = errors.New("goal not found")
	ErrGoalConflict      = errors.New("goal version conflict")
)

const MaxGoalTitleLen = 150

type Goal struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`

	Title     string     `json:"title" db:"title"`
	Category  Category   `json:"category" db:"category"`
	Timeframe Timeframe  `json:"timeframe" db:"timeframe"`
	TargetAt  *time.Time `json:"target_at,omitempty" db:"target_at"`

	// Progress is the stored fraction in [0,1]. It is authoritative only for
	// goals without milestones; see MilestoneList.Progress.
	Progress float64 `json:"progress" db:"progress"`

	CheckinStreak  int        `json:"checkin_streak" db:"checkin_streak"`
	LongestStreak  int        `json:"longest_streak" db:"longest_streak"`
	LastCheckinAt  *time.Time `json:"last_checkin_at,omitempty" db:"last_checkin_at"`
	WeeklyTarget   int        `json:"weekly_target" db:"weekly_target"`
	MilestoneCount int        `json:"milestone_count" db:"milestone_count"`
	MilestonesDone int        `json:"milestones_done" db:"milestones_done"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewGoal(userID, title string, category Category, timeframe Timeframe) (*Goal, error) {
	if userID == "" {
		return nil, ErrGoalInvalidUserID
	}

	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil, ErrGoalTitleEmpty
	}
	if len(trimmed) > MaxGoalTitleLen {
		return nil, ErrGoalTitleTooLong
	}

	now := time.Now().UTC()

	return &Goal{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     trimmed,
		Category:  category,
		Timeframe: timeframe,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetProgress clamps to [0,1].
func (g *Goal) SetProgress(p float64) {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	g.Progress = p
	g.UpdatedAt = time.Now().UTC()
}

// CheckIn advances the daily check-in streak. A second check-in on the same
// calendar day is a no-op; a gap of more than one day resets the streak.
func (g *Goal) CheckIn(now time.Time) {
	now = now.UTC()
	today := now.Truncate(24 * time.Hour)

	if g.LastCheckinAt != nil {
		last := g.LastCheckinAt.UTC().Truncate(24 * time.Hour)
		switch {
		case last.Equal(today):
			return
		case today.Sub(last) == 24*time.Hour:
			g.CheckinStreak++
		default:
			g.CheckinStreak = 1
		}
	} else {
		g.CheckinStreak = 1
	}

	if g.CheckinStreak > g.LongestStreak {
		g.LongestStreak = g.CheckinStreak
	}
	g.LastCheckinAt = &now
	g.UpdatedAt = now
}

// IsActive reports whether the goal still has work left.
func (g *Goal) IsActive() bool {
	return g.Progress < 1
}

// DisplayProgress picks the source of truth: milestone-derived progress wins
// whenever milestones exist, otherwise the stored fraction.
func (g *Goal) DisplayProgress(milestones MilestoneList) float64 {
	if len(milestones) > 0 {
		return milestones.Progress()
	}
	return g.Progress
}

// SyncMilestoneCounts refreshes the denormalized counters.
func (g *Goal) SyncMilestoneCounts(milestones MilestoneList) {
	g.MilestoneCount = len(milestones)
	g.MilestonesDone = milestones.CompletedCount()
	g.UpdatedAt = time.Now().UTC()
}
