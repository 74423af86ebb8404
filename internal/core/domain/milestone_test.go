package domain_test

import (
	"testing"
	"time"

	"github.com/strivehq/strive-engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func buildList(t *testing.T) domain.MilestoneList {
	t.Helper()

	m1, _ := domain.NewMilestone("g1", "u1", "Outline", 10, 1)
	m2, _ := domain.NewMilestone("g1", "u1", "Draft", 20, 2)
	m3, _ := domain.NewMilestone("g1", "u1", "Publish", 30, 3)

	m1.ToggleCompletion(time.Now())

	return domain.MilestoneList{m3, m1, m2}
}

func TestNewMilestone(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		m, err := domain.NewMilestone("g1", "u1", "Outline", 10, 1)

		assert.Nil(t, err)
		assert.NotEmpty(t, m.ID)
		assert.Equal(t, 1, m.Version)
		assert.False(t, m.IsCompleted)
	})

	t.Run("Error: Empty Title", func(t *testing.T) {
		_, err := domain.NewMilestone("g1", "u1", "  ", 10, 1)
		assert.Equal(t, domain.ErrMilestoneTitleEmpty, err)
	})

	t.Run("Negative points clamp to zero", func(t *testing.T) {
		m, _ := domain.NewMilestone("g1", "u1", "M", -5, 1)
		assert.Equal(t, 0, m.Points)
	})
}

func TestMilestone_ToggleCompletion(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	m, _ := domain.NewMilestone("g1", "u1", "M", 10, 1)

	m.ToggleCompletion(now)
	assert.True(t, m.IsCompleted)
	assert.Equal(t, now, *m.CompletedAt)

	m.ToggleCompletion(now)
	assert.False(t, m.IsCompleted)
	assert.Nil(t, m.CompletedAt)
}

func TestMilestoneList_Aggregates(t *testing.T) {
	t.Run("Empty list has zero progress, no division by zero", func(t *testing.T) {
		var empty domain.MilestoneList

		assert.Equal(t, 0, empty.CompletedCount())
		assert.Equal(t, 0.0, empty.Progress())
		assert.Equal(t, "0/0", empty.ProgressString())
		assert.Nil(t, empty.NextMilestone())
	})

	t.Run("Counts, progress and points", func(t *testing.T) {
		list := buildList(t)

		assert.Equal(t, 1, list.CompletedCount())
		assert.InDelta(t, 1.0/3.0, list.Progress(), 1e-9)
		assert.Equal(t, "1/3", list.ProgressString())
		assert.Equal(t, 60, list.TotalPointsValue())
		assert.Equal(t, 10, list.EarnedPoints())
		assert.LessOrEqual(t, list.EarnedPoints(), list.TotalPointsValue())
	})

	t.Run("Sorted orders by sort order without mutating the source", func(t *testing.T) {
		list := buildList(t)
		firstBefore := list[0]

		sorted := list.Sorted()

		assert.Equal(t, "Outline", sorted[0].Title)
		assert.Equal(t, "Draft", sorted[1].Title)
		assert.Equal(t, "Publish", sorted[2].Title)
		assert.Same(t, firstBefore, list[0], "source list must not be reordered")
	})

	t.Run("NextMilestone is the first incomplete in sort order", func(t *testing.T) {
		list := buildList(t)

		next := list.NextMilestone()

		assert.NotNil(t, next)
		assert.Equal(t, "Draft", next.Title)
	})

	t.Run("NextMilestone nil when all complete", func(t *testing.T) {
		list := buildList(t)
		for _, m := range list {
			if !m.IsCompleted {
				m.ToggleCompletion(time.Now())
			}
		}

		assert.Nil(t, list.NextMilestone())
	})
}

func TestMilestoneList_Deadlines(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	withTarget := func(title string, target time.Time, done bool) *domain.Milestone {
		m, _ := domain.NewMilestone("g1", "u1", title, 10, 1)
		m.TargetAt = &target
		if done {
			m.ToggleCompletion(now)
		}
		return m
	}

	list := domain.MilestoneList{
		withTarget("past", now.AddDate(0, 0, -2), false),
		withTarget("past-done", now.AddDate(0, 0, -2), true),
		withTarget("today", now.Add(6*time.Hour), false),
		withTarget("in-three-days", now.AddDate(0, 0, 3), false),
		withTarget("next-week", now.AddDate(0, 0, 7), false),
	}

	t.Run("Overdue excludes completed milestones", func(t *testing.T) {
		overdue := list.Overdue(now)

		assert.Len(t, overdue, 1)
		assert.Equal(t, "past", overdue[0].Title)
	})

	t.Run("DueSoon covers the 0-3 day window inclusive", func(t *testing.T) {
		dueSoon := list.DueSoon(now)

		titles := make([]string, 0, len(dueSoon))
		for _, m := range dueSoon {
			titles = append(titles, m.Title)
		}

		assert.ElementsMatch(t, []string{"today", "in-three-days"}, titles)
	})
}
