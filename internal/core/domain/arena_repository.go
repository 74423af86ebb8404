package domain

import (
	"context"
	"time"
)

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *DailyChallenge) error
	GetByID(ctx context.Context, id string) (*DailyChallenge, error)

	// ListActiveByUserID returns challenges that have not yet expired at 'now'.
	ListActiveByUserID(ctx context.Context, userID string, now time.Time) ([]*DailyChallenge, error)

	Update(ctx context.Context, challenge *DailyChallenge) error
}

type BossRepository interface {
	Create(ctx context.Context, boss *WeeklyBoss) error

	// GetActiveByUserID returns the boss whose week covers 'now', defeated
	// or not, or ErrBossNotFound.
	GetActiveByUserID(ctx context.Context, userID string, now time.Time) (*WeeklyBoss, error)

	Update(ctx context.Context, boss *WeeklyBoss) error
}

type PowerUpRepository interface {
	// Upsert inserts or replaces the per-type inventory row.
	Upsert(ctx context.Context, powerUp *PowerUp) error

	GetByType(ctx context.Context, userID string, pType PowerUpType) (*PowerUp, error)
	ListByUserID(ctx context.Context, userID string) (Inventory, error)
}

type PactRepository interface {
	Create(ctx context.Context, pact *Pact) error
	GetByID(ctx context.Context, id string) (*Pact, error)

	// ListByUserID returns pacts where the user is either party.
	ListByUserID(ctx context.Context, userID string) ([]*Pact, error)

	Update(ctx context.Context, pact *Pact) error
}
