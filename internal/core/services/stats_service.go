package services

import (
	"context"
	"time"

	"github.com/strivehq/strive-engine/internal/core/domain"
)

type StatsService struct {
	taskRepo      domain.TaskRepository
	goalRepo      domain.GoalRepository
	bossRepo      domain.BossRepository
	challengeRepo domain.ChallengeRepository
}

func NewStatsService(taskRepo domain.TaskRepository, goalRepo domain.GoalRepository, bossRepo domain.BossRepository, challengeRepo domain.ChallengeRepository) *StatsService {
	return &StatsService{
		taskRepo:      taskRepo,
		goalRepo:      goalRepo,
		bossRepo:      bossRepo,
		challengeRepo: challengeRepo,
	}
}

// GetMomentum aggregates the user's progress over the requested window.
func (s *StatsService) GetMomentum(ctx context.Context, input domain.StatsInput) (*domain.MomentumStats, error) {
	stats := &domain.MomentumStats{
		StartDate: input.StartDate.Format("2006-01-02"),
		EndDate:   input.EndDate.Format("2006-01-02"),
	}

	tasks, err := s.taskRepo.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	for _, t := range tasks {
		if !t.IsCompleted || t.CompletedAt == nil {
			continue
		}
		done := *t.CompletedAt
		if done.Before(input.StartDate) || done.After(input.EndDate) {
			continue
		}
		stats.TasksCompleted++
		stats.PointsEarned += t.PointsEarned
	}

	goals, err := s.goalRepo.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	progressSum := 0.0
	for _, g := range goals {
		if !g.IsActive() {
			continue
		}
		stats.ActiveGoals++
		progressSum += g.Progress
		if g.LongestStreak > stats.LongestStreak {
			stats.LongestStreak = g.LongestStreak
		}
	}
	if stats.ActiveGoals > 0 {
		stats.AvgGoalProgress = progressSum / float64(stats.ActiveGoals)
	}

	now := time.Now().UTC()

	boss, err := s.bossRepo.GetActiveByUserID(ctx, input.UserID, now)
	switch err {
	case nil:
		stats.BossDefeated = boss.IsDefeated
	case domain.ErrBossNotFound:
	default:
		return nil, err
	}

	challenges, err := s.challengeRepo.ListActiveByUserID(ctx, input.UserID, now)
	if err != nil {
		return nil, err
	}
	for _, c := range challenges {
		if c.IsCompleted {
			stats.ChallengesDone++
		} else {
			stats.ChallengesActive++
		}
	}

	return stats, nil
}
