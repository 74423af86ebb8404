package services

import (
	"context"
	"fmt"
	"time"

	"github.com/strivehq/strive-engine/internal/core/domain"
	"github.com/strivehq/strive-engine/internal/core/workers"
)

type TaskService struct {
	repo   domain.TaskRepository
	worker *workers.RewardWorker
}

func NewTaskService(repo domain.TaskRepository, worker *workers.RewardWorker) *TaskService {
	return &TaskService{
		repo:   repo,
		worker: worker,
	}
}

type CreateTaskInput struct {
	UserID           string
	Title            string
	Notes            string
	Category         domain.Category
	Priority         int
	GoalID           *string
	EstimatedMinutes int
	ScheduledAt      *time.Time
	Recurrence       domain.RecurrenceRule
	RecurrenceDays   []int
	RecurrenceEndsAt *time.Time
}

type UpdateTaskInput struct {
	ID               string
	UserID           string
	Title            string
	Notes            *string
	Category         domain.Category
	Priority         int
	GoalID           *string
	EstimatedMinutes *int
	ScheduledAt      *time.Time
	Recurrence       domain.RecurrenceRule
	RecurrenceDays   []int
	RecurrenceEndsAt *time.Time
	Version          int
}

func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	if input.EstimatedMinutes < 0 {
		return nil, domain.ErrTaskNegativeMinutes
	}

	task, err := domain.NewTask(input.UserID, input.Title, input.Category, input.Priority)
	if err != nil {
		return nil, err
	}

	task.Notes = input.Notes
	task.GoalID = input.GoalID
	task.EstimatedMinutes = input.EstimatedMinutes
	task.ScheduledAt = input.ScheduledAt
	if input.Recurrence != "" {
		task.Recurrence = input.Recurrence
	}
	task.RecurrenceDays = input.RecurrenceDays
	task.RecurrenceEndsAt = input.RecurrenceEndsAt

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *TaskService) GetByID(ctx context.Context, id, userID string) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}

	return task, nil
}

func (s *TaskService) ListByUserID(ctx context.Context, userID string) ([]*domain.Task, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *TaskService) GetDelta(ctx context.Context, userID string, lastSync time.Time) ([]*domain.Task, error) {
	return s.repo.GetChanges(ctx, userID, lastSync)
}

func (s *TaskService) Update(ctx context.Context, input UpdateTaskInput) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if task.UserID != input.UserID {
		return nil, domain.ErrTaskNotFound
	}

	if input.Version > 0 && task.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrTaskConflict, input.Version, task.Version)
	}

	if input.Title != "" {
		task.Title = input.Title
	}
	if input.Notes != nil {
		task.Notes = *input.Notes
	}
	if input.Category != "" {
		task.Category = input.Category
	}
	if input.Priority >= 1 && input.Priority <= 3 {
		task.Priority = input.Priority
	}
	if input.GoalID != nil {
		task.GoalID = input.GoalID
	}
	if input.EstimatedMinutes != nil {
		if *input.EstimatedMinutes < 0 {
			return nil, domain.ErrTaskNegativeMinutes
		}
		task.EstimatedMinutes = *input.EstimatedMinutes
	}
	if input.ScheduledAt != nil {
		task.ScheduledAt = input.ScheduledAt
	}
	if input.Recurrence != "" {
		task.Recurrence = input.Recurrence
	}
	if input.RecurrenceDays != nil {
		task.RecurrenceDays = input.RecurrenceDays
	}
	if input.RecurrenceEndsAt != nil {
		task.RecurrenceEndsAt = input.RecurrenceEndsAt
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// CompletionResult reports a completion together with the successor instance
// spawned for recurring tasks (nil otherwise).
type CompletionResult struct {
	Task *domain.Task `json:"task"`
	Next *domain.Task `json:"next_occurrence,omitempty"`
}

func (s *TaskService) Complete(ctx context.Context, id, userID string) (*CompletionResult, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}

	now := time.Now().UTC()
	if err := task.Complete(now); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	result := &CompletionResult{Task: task}

	if task.Recurrence != domain.RecurrenceNone {
		next, err := task.SpawnNext(now)
		if err != nil {
			return nil, fmt.Errorf("task service: failed to spawn next occurrence: %w", err)
		}
		if next != nil {
			if err := s.repo.Create(ctx, next); err != nil {
				return nil, fmt.Errorf("task service: failed to persist next occurrence: %w", err)
			}
			result.Next = next
		}
	}

	s.worker.Enqueue(workers.RewardJob{
		UserID:  userID,
		Kind:    workers.RewardTask,
		Points:  task.PointsEarned,
		Minutes: task.EstimatedMinutes,
		GoalID:  task.GoalID,
	})

	return result, nil
}

func (s *TaskService) Reopen(ctx context.Context, id, userID string) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}

	task.Reopen()

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id, userID string) error {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if task.UserID != userID {
		return domain.ErrTaskNotFound
	}

	return s.repo.Delete(ctx, id)
}
