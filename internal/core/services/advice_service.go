package services

import (
	"context"
	"log"

	"github.com/strivehq/strive-engine/internal/core/domain"
)

// AdviceClient is the remote coaching backend.
type AdviceClient interface {
	GetTaskAdvice(ctx context.Context, task *domain.Task) (*domain.TaskAdvice, error)
}

type AdviceService struct {
	taskRepo domain.TaskRepository
	client   AdviceClient
}

// NewAdviceService accepts a nil client; the local fallback then serves every
// request.
func NewAdviceService(taskRepo domain.TaskRepository, client AdviceClient) *AdviceService {
	return &AdviceService{
		taskRepo: taskRepo,
		client:   client,
	}
}

// GetAdvice fetches coaching advice for a task, degrading to the local
// category-keyed fallback on any remote failure.
func (s *AdviceService) GetAdvice(ctx context.Context, taskID, userID string) (*domain.TaskAdvice, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}

	if s.client != nil {
		advice, err := s.client.GetTaskAdvice(ctx, task)
		if err == nil && advice != nil && advice.Overview != "" {
			return advice, nil
		}
		if err != nil {
			log.Printf("Advice client failed for task %s, using fallback: %v", task.ID, err)
		}
	}

	return domain.FallbackAdvice(task), nil
}
