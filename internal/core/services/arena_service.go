package services

import (
	"context"
	"fmt"
	"time"

	"github.com/strivehq/strive-engine/internal/core/domain"
)

const (
	bossBaseXP          = 100
	bossMinHealth       = 10
	bossXPPerTarget     = 5
	sprintTarget        = 2
	earlyBirdCutoffHour = 12
)

// ArenaService owns the gamification surface: daily challenges, the weekly
// boss fight and the power-up inventory.
type ArenaService struct {
	challengeRepo domain.ChallengeRepository
	bossRepo      domain.BossRepository
	powerUpRepo   domain.PowerUpRepository
	goalRepo      domain.GoalRepository
}

func NewArenaService(challengeRepo domain.ChallengeRepository, bossRepo domain.BossRepository, powerUpRepo domain.PowerUpRepository, goalRepo domain.GoalRepository) *ArenaService {
	return &ArenaService{
		challengeRepo: challengeRepo,
		bossRepo:      bossRepo,
		powerUpRepo:   powerUpRepo,
		goalRepo:      goalRepo,
	}
}

// TodayChallenges returns the active set, generating the daily trio on the
// first call of the day.
func (s *ArenaService) TodayChallenges(ctx context.Context, userID string) ([]*domain.DailyChallenge, error) {
	now := time.Now().UTC()

	active, err := s.challengeRepo.ListActiveByUserID(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if len(active) > 0 {
		return active, nil
	}

	generated, err := s.generateDaily(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	for _, c := range generated {
		if err := s.challengeRepo.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("arena service: failed to persist challenge: %w", err)
		}
	}

	return generated, nil
}

// generateDaily builds the day's three challenges from the user's goal state.
func (s *ArenaService) generateDaily(ctx context.Context, userID string, now time.Time) ([]*domain.DailyChallenge, error) {
	goals, err := s.goalRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var focus *domain.Goal
	bestStreak := 0
	for _, g := range goals {
		if !g.IsActive() {
			continue
		}
		if focus == nil {
			focus = g
		}
		if g.CheckinStreak > bestStreak {
			bestStreak = g.CheckinStreak
		}
	}

	var challenges []*domain.DailyChallenge

	if focus != nil {
		c := domain.NewDailyChallenge(userID, domain.ChallengeGoalSprint,
			"Goal Sprint",
			fmt.Sprintf("Complete %d tasks linked to %q", sprintTarget, focus.Title),
			sprintTarget, 40, now)
		c.GoalID = &focus.ID
		challenges = append(challenges, c)
	} else {
		challenges = append(challenges, domain.NewDailyChallenge(userID, domain.ChallengeTaskCount,
			"Steady Hands",
			"Complete 3 tasks today",
			3, 30, now))
	}

	if now.Hour() < earlyBirdCutoffHour {
		challenges = append(challenges, domain.NewDailyChallenge(userID, domain.ChallengeEarlyBird,
			"Early Bird",
			"Complete a task before noon",
			1, 25, now))
	} else {
		challenges = append(challenges, domain.NewDailyChallenge(userID, domain.ChallengeFocusDuration,
			"Deep Focus",
			"Put in 30 minutes of estimated work",
			30, 25, now))
	}

	if bestStreak > 0 {
		challenges = append(challenges, domain.NewDailyChallenge(userID, domain.ChallengeStreakKeeper,
			"Keep the Flame",
			"Check in on a goal to keep your streak alive",
			1, 30+bestStreak*2, now))
	} else {
		challenges = append(challenges, domain.NewDailyChallenge(userID, domain.ChallengeMomentum,
			"Build Momentum",
			"Complete 2 tasks to get rolling",
			2, 20, now))
	}

	return challenges, nil
}

// GetBoss returns the undefeated boss of the current week.
func (s *ArenaService) GetBoss(ctx context.Context, userID string) (*domain.WeeklyBoss, error) {
	return s.bossRepo.GetActiveByUserID(ctx, userID, time.Now().UTC())
}

type GenerateBossInput struct {
	UserID     string
	GoalID     *string
	Difficulty domain.Difficulty
}

// GenerateBoss spawns this week's boss sized by the linked goal's weekly
// target. At most one undefeated boss exists per week.
func (s *ArenaService) GenerateBoss(ctx context.Context, input GenerateBossInput) (*domain.WeeklyBoss, error) {
	now := time.Now().UTC()

	if existing, err := s.bossRepo.GetActiveByUserID(ctx, input.UserID, now); err == nil {
		return existing, nil
	} else if err != domain.ErrBossNotFound {
		return nil, err
	}

	category := domain.CategoryPersonal
	weeklyTarget := 0

	if input.GoalID != nil {
		goal, err := s.goalRepo.GetByID(ctx, *input.GoalID)
		if err != nil {
			return nil, err
		}
		if goal.UserID != input.UserID {
			return nil, domain.ErrGoalNotFound
		}
		category = goal.Category
		weeklyTarget = goal.WeeklyTarget
	}

	baseHealth := weeklyTarget
	if baseHealth < bossMinHealth {
		baseHealth = bossMinHealth
	}
	baseXP := bossBaseXP + weeklyTarget*bossXPPerTarget

	difficulty := input.Difficulty
	if difficulty == "" {
		difficulty = domain.DifficultyNormal
	}

	boss := domain.NewWeeklyBoss(input.UserID, input.GoalID, category, difficulty, baseHealth, baseXP, now)

	if err := s.bossRepo.Create(ctx, boss); err != nil {
		return nil, err
	}

	return boss, nil
}

// Inventory returns the user's power-ups after lazily expiring stale windows.
func (s *ArenaService) Inventory(ctx context.Context, userID string) (domain.Inventory, error) {
	inv, err := s.powerUpRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, p := range inv {
		if p.CheckExpiration(now) {
			if err := s.powerUpRepo.Upsert(ctx, p); err != nil {
				return nil, err
			}
		}
	}

	return inv, nil
}

// ActivatePowerUp opens the type's activation window. Activation with an empty
// inventory or an already-open window changes nothing; the current row is
// returned either way.
func (s *ArenaService) ActivatePowerUp(ctx context.Context, userID string, pType domain.PowerUpType) (*domain.PowerUp, error) {
	powerUp, err := s.powerUpRepo.GetByType(ctx, userID, pType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	powerUp.CheckExpiration(now)

	before := powerUp.Quantity
	powerUp.Activate(now)

	if powerUp.Quantity == before {
		return powerUp, nil
	}

	if err := s.powerUpRepo.Upsert(ctx, powerUp); err != nil {
		return nil, err
	}

	return powerUp, nil
}

// GrantPowerUp tops up the inventory row for the type, creating it on first
// grant. Quantities cap at the per-type maximum.
func (s *ArenaService) GrantPowerUp(ctx context.Context, userID string, pType domain.PowerUpType, quantity int) (*domain.PowerUp, error) {
	powerUp, err := s.powerUpRepo.GetByType(ctx, userID, pType)
	if err == domain.ErrPowerUpNotFound {
		powerUp = domain.NewPowerUp(userID, pType, quantity)
	} else if err != nil {
		return nil, err
	} else {
		powerUp.AddQuantity(quantity)
	}

	if err := s.powerUpRepo.Upsert(ctx, powerUp); err != nil {
		return nil, err
	}

	return powerUp, nil
}
