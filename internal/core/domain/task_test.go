package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/strivehq/strive-engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T {
	return &v
}

func TestNewTask(t *testing.T) {
	t.Run("Success: Creates valid task with defaults", func(t *testing.T) {
		task, err := domain.NewTask("u1", "Write report", domain.CategoryCareer, 2)

		assert.Nil(t, err)
		assert.NotNil(t, task)
		assert.Equal(t, "Write report", task.Title)
		assert.Equal(t, "u1", task.UserID)
		assert.NotEmpty(t, task.ID)
		assert.Equal(t, 2, task.Priority)
		assert.Equal(t, domain.RecurrenceNone, task.Recurrence)
		assert.False(t, task.IsCompleted)
		assert.Equal(t, 1, task.Version, "New tasks MUST start at Version 1 for Optimistic Locking")
		assert.Nil(t, task.DeletedAt)
		assert.WithinDuration(t, time.Now().UTC(), task.CreatedAt, 2*time.Second)
	})

	t.Run("Error: Empty Title", func(t *testing.T) {
		_, err := domain.NewTask("u1", "   ", domain.CategoryPersonal, 1)
		assert.Equal(t, domain.ErrTaskTitleEmpty, err)
	})

	t.Run("Error: Title Too Long", func(t *testing.T) {
		_, err := domain.NewTask("u1", strings.Repeat("a", 201), domain.CategoryPersonal, 1)
		assert.Equal(t, domain.ErrTaskTitleTooLong, err)
	})

	t.Run("Error: Invalid UserID", func(t *testing.T) {
		_, err := domain.NewTask("", "Title", domain.CategoryPersonal, 1)
		assert.Equal(t, domain.ErrTaskInvalidUserID, err)
	})

	t.Run("Error: Priority out of range", func(t *testing.T) {
		_, err := domain.NewTask("u1", "Title", domain.CategoryPersonal, 0)
		assert.Equal(t, domain.ErrInvalidPriority, err)

		_, err = domain.NewTask("u1", "Title", domain.CategoryPersonal, 4)
		assert.Equal(t, domain.ErrInvalidPriority, err)
	})
}

func TestTask_PotentialPoints(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	future := now.Add(4 * time.Hour)
	past := now.Add(-4 * time.Hour)

	newTask := func(priority int) *domain.Task {
		task, _ := domain.NewTask("u1", "T", domain.CategoryPersonal, priority)
		return task
	}

	tests := []struct {
		name       string
		setup      func() *domain.Task
		wantPoints int
	}{
		{
			name: "Bare tier 1 task earns base plus flat tier bonus",
			setup: func() *domain.Task {
				return newTask(1)
			},
			wantPoints: 10 + 0 + 5,
		},
		{
			name: "Tier 2 adds priority bonus",
			setup: func() *domain.Task {
				return newTask(2)
			},
			wantPoints: 10 + 5 + 10,
		},
		{
			name: "Fully loaded tier 3: AI, scheduled, 50 minutes",
			setup: func() *domain.Task {
				task := newTask(3)
				task.AIProcessed = true
				task.ScheduledAt = ptr(future)
				task.EstimatedMinutes = 50
				return task
			},
			// 10 base + 15 priority + 15 flat + 5 AI + 5 schedule + 5 duration
			wantPoints: 55,
		},
		{
			name: "Duration bonus caps at 20",
			setup: func() *domain.Task {
				task := newTask(3)
				task.EstimatedMinutes = 500
				return task
			},
			wantPoints: 10 + 15 + 15 + 20,
		},
		{
			name: "Overdue penalty applies",
			setup: func() *domain.Task {
				task := newTask(3)
				task.ScheduledAt = ptr(past)
				task.EstimatedMinutes = 50
				return task
			},
			wantPoints: 10 + 15 + 15 + 5 + 5 - 10,
		},
		{
			name: "Overdue penalty floors at 10",
			setup: func() *domain.Task {
				task := newTask(1)
				task.ScheduledAt = ptr(past)
				return task
			},
			// 10 + 0 + 5 + 5(schedule) - 10 = 10, still at the floor
			wantPoints: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := tt.setup()
			points := task.PotentialPoints(now)

			assert.Equal(t, tt.wantPoints, points)
			assert.GreaterOrEqual(t, points, 10, "points must never drop below 10")
			assert.LessOrEqual(t, points, 100, "points must never exceed 100")
		})
	}

	t.Run("Property: Monotonic in priority tier", func(t *testing.T) {
		p1 := newTask(1).PotentialPoints(now)
		p2 := newTask(2).PotentialPoints(now)
		p3 := newTask(3).PotentialPoints(now)

		assert.Less(t, p1, p2)
		assert.Less(t, p2, p3)
	})

	t.Run("Property: Monotonic in estimated minutes up to the cap", func(t *testing.T) {
		prev := 0
		for _, minutes := range []int{0, 30, 90, 200, 1000} {
			task := newTask(2)
			task.EstimatedMinutes = minutes
			points := task.PotentialPoints(now)
			assert.GreaterOrEqual(t, points, prev)
			prev = points
		}
	})

	t.Run("Completed task is never overdue", func(t *testing.T) {
		task := newTask(2)
		task.ScheduledAt = ptr(past)
		assert.True(t, task.IsOverdue(now))

		assert.Nil(t, task.Complete(now))
		assert.False(t, task.IsOverdue(now))
	})
}

func TestTask_Complete(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("Success: Freezes earned points snapshot", func(t *testing.T) {
		task, _ := domain.NewTask("u1", "T", domain.CategoryHealth, 2)
		task.EstimatedMinutes = 40
		expected := task.PotentialPoints(now)

		err := task.Complete(now)

		assert.Nil(t, err)
		assert.True(t, task.IsCompleted)
		assert.NotNil(t, task.CompletedAt)
		assert.Equal(t, expected, task.PointsEarned)
	})

	t.Run("Success: On-time bonus when completed at or before schedule", func(t *testing.T) {
		task, _ := domain.NewTask("u1", "T", domain.CategoryHealth, 2)
		task.ScheduledAt = ptr(now.Add(1 * time.Hour))
		expected := task.PotentialPoints(now) + 10

		_ = task.Complete(now)

		assert.Equal(t, expected, task.PointsEarned)
	})

	t.Run("No on-time bonus when completed late", func(t *testing.T) {
		task, _ := domain.NewTask("u1", "T", domain.CategoryHealth, 2)
		task.ScheduledAt = ptr(now.Add(-1 * time.Hour))
		expected := task.PotentialPoints(now)

		_ = task.Complete(now)

		assert.Equal(t, expected, task.PointsEarned)
	})

	t.Run("Error: Completing twice", func(t *testing.T) {
		task, _ := domain.NewTask("u1", "T", domain.CategoryHealth, 1)
		_ = task.Complete(now)
		first := *task.CompletedAt

		err := task.Complete(now.Add(1 * time.Hour))

		assert.Equal(t, domain.ErrTaskAlreadyDone, err)
		assert.Equal(t, first, *task.CompletedAt)
	})

	t.Run("Reopen clears the snapshot", func(t *testing.T) {
		task, _ := domain.NewTask("u1", "T", domain.CategoryHealth, 1)
		_ = task.Complete(now)

		task.Reopen()

		assert.False(t, task.IsCompleted)
		assert.Nil(t, task.CompletedAt)
		assert.Equal(t, 0, task.PointsEarned)
	})
}

func TestEnergyForPoints(t *testing.T) {
	tests := []struct {
		points int
		band   domain.EnergyBand
		fill   float64
	}{
		{10, domain.EnergyLow, 0.25},
		{39, domain.EnergyLow, 0.25},
		{40, domain.EnergyMedium, 0.5},
		{59, domain.EnergyMedium, 0.5},
		{60, domain.EnergyHigh, 0.75},
		{79, domain.EnergyHigh, 0.75},
		{80, domain.EnergyMax, 1.0},
		{100, domain.EnergyMax, 1.0},
	}

	for _, tt := range tests {
		state := domain.EnergyForPoints(tt.points)
		assert.Equal(t, tt.band, state.Band, "points=%d", tt.points)
		assert.Equal(t, tt.fill, state.Fill, "points=%d", tt.points)
	}

	t.Run("Max band enables all animation flags", func(t *testing.T) {
		state := domain.EnergyForPoints(95)
		assert.True(t, state.Breathing)
		assert.True(t, state.Pulsing)
		assert.True(t, state.Particles)
		assert.Equal(t, 1.0, state.Glow)
	})

	t.Run("Low band is static", func(t *testing.T) {
		state := domain.EnergyForPoints(15)
		assert.False(t, state.Breathing)
		assert.False(t, state.Pulsing)
		assert.False(t, state.Particles)
	})
}
