package services

import (
	"context"
	"fmt"
	"time"

	"github.com/strivehq/strive-engine/internal/core/domain"
	"github.com/strivehq/strive-engine/internal/core/workers"
)

type GoalService struct {
	repo          domain.GoalRepository
	milestoneRepo domain.MilestoneRepository
	worker        *workers.RewardWorker
}

func NewGoalService(repo domain.GoalRepository, milestoneRepo domain.MilestoneRepository, worker *workers.RewardWorker) *GoalService {
	return &GoalService{
		repo:          repo,
		milestoneRepo: milestoneRepo,
		worker:        worker,
	}
}

type CreateGoalInput struct {
	UserID       string
	Title        string
	Category     domain.Category
	Timeframe    domain.Timeframe
	TargetAt     *time.Time
	WeeklyTarget int
}

type UpdateGoalInput struct {
	ID           string
	UserID       string
	Title        string
	Category     domain.Category
	Timeframe    domain.Timeframe
	TargetAt     *time.Time
	Progress     *float64
	WeeklyTarget *int
	Version      int
}

func (s *GoalService) Create(ctx context.Context, input CreateGoalInput) (*domain.Goal, error) {
	goal, err := domain.NewGoal(input.UserID, input.Title, input.Category, input.Timeframe)
	if err != nil {
		return nil, err
	}

	goal.TargetAt = input.TargetAt
	if input.WeeklyTarget > 0 {
		goal.WeeklyTarget = input.WeeklyTarget
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, err
	}

	return goal, nil
}

func (s *GoalService) GetByID(ctx context.Context, id, userID string) (*domain.Goal, error) {
	goal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}

	return goal, nil
}

func (s *GoalService) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *GoalService) GetDelta(ctx context.Context, userID string, lastSync time.Time) ([]*domain.Goal, error) {
	return s.repo.GetChanges(ctx, userID, lastSync)
}

func (s *GoalService) Update(ctx context.Context, input UpdateGoalInput) (*domain.Goal, error) {
	goal, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if goal.UserID != input.UserID {
		return nil, domain.ErrGoalNotFound
	}

	if input.Version > 0 && goal.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrGoalConflict, input.Version, goal.Version)
	}

	if input.Title != "" {
		goal.Title = input.Title
	}
	if input.Category != "" {
		goal.Category = input.Category
	}
	if input.Timeframe != "" {
		goal.Timeframe = input.Timeframe
	}
	if input.TargetAt != nil {
		goal.TargetAt = input.TargetAt
	}
	if input.Progress != nil {
		goal.SetProgress(*input.Progress)
	}
	if input.WeeklyTarget != nil && *input.WeeklyTarget > 0 {
		goal.WeeklyTarget = *input.WeeklyTarget
	}
	goal.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, err
	}

	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, id, userID string) error {
	goal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if goal.UserID != userID {
		return domain.ErrGoalNotFound
	}

	return s.repo.Delete(ctx, id)
}

// CheckIn advances the daily streak. A same-day repeat returns the goal
// unchanged and enqueues nothing.
func (s *GoalService) CheckIn(ctx context.Context, id, userID string) (*domain.Goal, error) {
	goal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}

	before := goal.LastCheckinAt
	goal.CheckIn(time.Now().UTC())

	if before != nil && goal.LastCheckinAt.Equal(*before) {
		return goal, nil
	}

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, err
	}

	s.worker.Enqueue(workers.RewardJob{
		UserID: userID,
		Kind:   workers.RewardCheckin,
		GoalID: &goal.ID,
	})

	return goal, nil
}

type CreateMilestoneInput struct {
	GoalID    string
	UserID    string
	Title     string
	Points    int
	SortOrder int
	TargetAt  *time.Time
}

func (s *GoalService) AddMilestone(ctx context.Context, input CreateMilestoneInput) (*domain.Milestone, error) {
	goal, err := s.GetByID(ctx, input.GoalID, input.UserID)
	if err != nil {
		return nil, err
	}

	milestone, err := domain.NewMilestone(goal.ID, input.UserID, input.Title, input.Points, input.SortOrder)
	if err != nil {
		return nil, err
	}
	milestone.TargetAt = input.TargetAt

	if err := s.milestoneRepo.Create(ctx, milestone); err != nil {
		return nil, err
	}

	if err := s.refreshMilestoneCounts(ctx, goal); err != nil {
		return nil, err
	}

	return milestone, nil
}

func (s *GoalService) ListMilestones(ctx context.Context, goalID, userID string) (domain.MilestoneList, error) {
	if _, err := s.GetByID(ctx, goalID, userID); err != nil {
		return nil, err
	}

	milestones, err := s.milestoneRepo.ListByGoalID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	return milestones.Sorted(), nil
}

// ToggleMilestone flips completion and refreshes the goal's denormalized
// counters. Completing (not un-completing) emits a critical-hit reward.
func (s *GoalService) ToggleMilestone(ctx context.Context, id, userID string) (*domain.Milestone, error) {
	milestone, err := s.milestoneRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if milestone.UserID != userID {
		return nil, domain.ErrMilestoneNotFound
	}

	goal, err := s.GetByID(ctx, milestone.GoalID, userID)
	if err != nil {
		return nil, err
	}

	milestone.ToggleCompletion(time.Now().UTC())

	if err := s.milestoneRepo.Update(ctx, milestone); err != nil {
		return nil, err
	}

	if err := s.refreshMilestoneCounts(ctx, goal); err != nil {
		return nil, err
	}

	if milestone.IsCompleted {
		s.worker.Enqueue(workers.RewardJob{
			UserID: userID,
			Kind:   workers.RewardMilestone,
			Points: milestone.Points,
			GoalID: &goal.ID,
		})
	}

	return milestone, nil
}

func (s *GoalService) refreshMilestoneCounts(ctx context.Context, goal *domain.Goal) error {
	milestones, err := s.milestoneRepo.ListByGoalID(ctx, goal.ID)
	if err != nil {
		return err
	}

	goal.SyncMilestoneCounts(milestones)
	goal.SetProgress(goal.DisplayProgress(milestones))

	return s.repo.Update(ctx, goal)
}
