package workers

import (
	"context"
	"log"
	"time"

	"github.com/strivehq/strive-engine/internal/core/domain"
)

type ChallengeRepository interface {
	ListActiveByUserID(ctx context.Context, userID string, now time.Time) ([]*domain.DailyChallenge, error)
	Update(ctx context.Context, challenge *domain.DailyChallenge) error
}

type BossRepository interface {
	GetActiveByUserID(ctx context.Context, userID string, now time.Time) (*domain.WeeklyBoss, error)
	Update(ctx context.Context, boss *domain.WeeklyBoss) error
}

type RewardKind string

const (
	RewardTask      RewardKind = "task"
	RewardMilestone RewardKind = "milestone"
	RewardCheckin   RewardKind = "checkin"
)

// RewardJob carries one completion event from the write path to the
// gamification state.
type RewardJob struct {
	UserID  string
	Kind    RewardKind
	Points  int
	Minutes int
	GoalID  *string
}

type RewardWorker struct {
	challengeRepo ChallengeRepository
	bossRepo      BossRepository
	jobs          chan RewardJob
}

func NewRewardWorker(cRepo ChallengeRepository, bRepo BossRepository) *RewardWorker {
	return &RewardWorker{
		challengeRepo: cRepo,
		bossRepo:      bRepo,
		jobs:          make(chan RewardJob, 100),
	}
}

func (w *RewardWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Reward Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Reward Worker shutting down...")
				return
			}
		}
	}()
}

func (w *RewardWorker) Enqueue(job RewardJob) {
	select {
	case w.jobs <- job:
	default:
		log.Printf("Reward Worker queue full! Dropping %s job for user %s", job.Kind, job.UserID)
	}
}

func (w *RewardWorker) processJob(ctx context.Context, job RewardJob) {
	now := time.Now().UTC()

	w.applyToChallenges(ctx, job, now)
	w.applyToBoss(ctx, job, now)
}

func (w *RewardWorker) applyToChallenges(ctx context.Context, job RewardJob, now time.Time) {
	challenges, err := w.challengeRepo.ListActiveByUserID(ctx, job.UserID, now)
	if err != nil {
		log.Printf("Worker Error fetching challenges for %s: %v", job.UserID, err)
		return
	}

	for _, c := range challenges {
		if c.IsCompleted || !challengeAdvances(c, job, now) {
			continue
		}

		step := 1
		if c.Kind == domain.ChallengeFocusDuration {
			step = job.Minutes
		}
		c.Increment(step, now)

		if err := w.challengeRepo.Update(ctx, c); err != nil {
			log.Printf("Worker Failed to update challenge %s: %v", c.ID, err)
		} else if c.IsCompleted {
			log.Printf("Challenge completed: %s (+%d XP) for user %s", c.Title, c.XPReward, job.UserID)
		}
	}
}

// challengeAdvances decides whether a completion event counts toward a
// challenge kind.
func challengeAdvances(c *domain.DailyChallenge, job RewardJob, now time.Time) bool {
	switch c.Kind {
	case domain.ChallengeTaskCount, domain.ChallengeMomentum:
		return job.Kind == RewardTask
	case domain.ChallengeEarlyBird:
		return job.Kind == RewardTask && now.Hour() < 12
	case domain.ChallengeFocusDuration:
		return job.Kind == RewardTask && job.Minutes > 0
	case domain.ChallengeGoalSprint:
		if job.Kind != RewardTask || c.GoalID == nil || job.GoalID == nil {
			return false
		}
		return *c.GoalID == *job.GoalID
	case domain.ChallengeStreakKeeper:
		return job.Kind == RewardCheckin
	}
	return false
}

func (w *RewardWorker) applyToBoss(ctx context.Context, job RewardJob, now time.Time) {
	if job.Kind == RewardCheckin || job.Points <= 0 {
		return
	}

	boss, err := w.bossRepo.GetActiveByUserID(ctx, job.UserID, now)
	if err != nil {
		if err != domain.ErrBossNotFound {
			log.Printf("Worker Error fetching boss for %s: %v", job.UserID, err)
		}
		return
	}
	if boss.IsDefeated {
		return
	}

	if job.Kind == RewardMilestone {
		boss.DealCriticalHit(job.Points, now)
	} else {
		boss.DealDamage(job.Points, now)
	}

	if err := w.bossRepo.Update(ctx, boss); err != nil {
		log.Printf("Worker Failed to update boss %s: %v", boss.ID, err)
	} else if boss.IsDefeated && boss.DefeatedAt != nil && now.Sub(*boss.DefeatedAt) < time.Second {
		log.Printf("Boss defeated: %s (+%d XP, +%d bonus) for user %s", boss.Name, boss.XPReward, boss.BonusXP(), job.UserID)
	}
}
