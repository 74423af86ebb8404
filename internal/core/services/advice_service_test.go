package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/strivehq/strive-engine/internal/core/domain"
	"github.com/strivehq/strive-engine/internal/core/services"
	"github.com/stretchr/testify/assert"
)

type stubAdviceClient struct {
	advice *domain.TaskAdvice
	err    error
}

func (s *stubAdviceClient) GetTaskAdvice(ctx context.Context, task *domain.Task) (*domain.TaskAdvice, error) {
	return s.advice, s.err
}

func TestAdviceService_GetAdvice(t *testing.T) {
	ctx := context.Background()

	seed := func(repo *MockTaskRepo) *domain.Task {
		task, _ := domain.NewTask("u1", "Learn sqlx", domain.CategoryLearning, 2)
		task.EstimatedMinutes = 90
		_ = repo.Create(ctx, task)
		return task
	}

	t.Run("Success: Remote advice wins", func(t *testing.T) {
		repo := NewMockTaskRepo()
		task := seed(repo)

		remote := &domain.TaskAdvice{Overview: "Start with the docs"}
		svc := services.NewAdviceService(repo, &stubAdviceClient{advice: remote})

		advice, err := svc.GetAdvice(ctx, task.ID, "u1")

		assert.Nil(t, err)
		assert.Equal(t, "Start with the docs", advice.Overview)
	})

	t.Run("Remote failure degrades to the fallback", func(t *testing.T) {
		repo := NewMockTaskRepo()
		task := seed(repo)

		svc := services.NewAdviceService(repo, &stubAdviceClient{err: errors.New("timeout")})

		advice, err := svc.GetAdvice(ctx, task.ID, "u1")

		assert.Nil(t, err)
		assert.Contains(t, advice.Overview, "Learn sqlx")
		assert.NotEmpty(t, advice.ActionableSteps)
		assert.Equal(t, "1 h 30 min", *advice.TimeEstimate)
	})

	t.Run("Empty remote payload degrades to the fallback", func(t *testing.T) {
		repo := NewMockTaskRepo()
		task := seed(repo)

		svc := services.NewAdviceService(repo, &stubAdviceClient{advice: &domain.TaskAdvice{}})

		advice, err := svc.GetAdvice(ctx, task.ID, "u1")

		assert.Nil(t, err)
		assert.Contains(t, advice.Overview, "Learn sqlx")
	})

	t.Run("Nil client serves the fallback directly", func(t *testing.T) {
		repo := NewMockTaskRepo()
		task := seed(repo)

		svc := services.NewAdviceService(repo, nil)

		advice, err := svc.GetAdvice(ctx, task.ID, "u1")

		assert.Nil(t, err)
		assert.NotEmpty(t, advice.KeyPoints)
	})

	t.Run("Error: Intruder", func(t *testing.T) {
		repo := NewMockTaskRepo()
		task := seed(repo)

		svc := services.NewAdviceService(repo, nil)

		_, err := svc.GetAdvice(ctx, task.ID, "intruder")
		assert.Equal(t, domain.ErrTaskNotFound, err)
	})
}
