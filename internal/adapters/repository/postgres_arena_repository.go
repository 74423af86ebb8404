package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/strivehq/strive-engine/internal/core/domain"
)

type PostgresChallengeRepository struct {
	db *sqlx.DB
}

func NewPostgresChallengeRepository(db *sqlx.DB) *PostgresChallengeRepository {
	return &PostgresChallengeRepository{db: db}
}

const challengeColumns = `
	id, user_id, goal_id, kind, title, description,
	target_value, current_value, xp_reward,
	is_completed, completed_at, expires_at, created_at, updated_at`

func (r *PostgresChallengeRepository) scanRow(row scannable) (*domain.DailyChallenge, error) {
	var c domain.DailyChallenge

	err := row.Scan(
		&c.ID, &c.UserID, &c.GoalID, &c.Kind, &c.Title, &c.Description,
		&c.TargetValue, &c.CurrentValue, &c.XPReward,
		&c.IsCompleted, &c.CompletedAt, &c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *PostgresChallengeRepository) Create(ctx context.Context, c *domain.DailyChallenge) error {
	query := `
        INSERT INTO daily_challenges (
            id, user_id, goal_id, kind, title, description,
            target_value, current_value, xp_reward,
            is_completed, completed_at, expires_at, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6,
            $7, $8, $9,
            $10, $11, $12, $13, $14
        )`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.GoalID, c.Kind, c.Title, c.Description,
		c.TargetValue, c.CurrentValue, c.XPReward,
		c.IsCompleted, c.CompletedAt, c.ExpiresAt, c.CreatedAt, c.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert challenge: %w", err)
	}

	return nil
}

func (r *PostgresChallengeRepository) GetByID(ctx context.Context, id string) (*domain.DailyChallenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM daily_challenges WHERE id = $1`

	c, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return c, nil
}

func (r *PostgresChallengeRepository) ListActiveByUserID(ctx context.Context, userID string, now time.Time) ([]*domain.DailyChallenge, error) {
	query := `
        SELECT ` + challengeColumns + ` FROM daily_challenges
        WHERE user_id = $1 AND expires_at >= $2
        ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, now)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var challenges []*domain.DailyChallenge

	for rows.Next() {
		c, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		challenges = append(challenges, c)
	}

	return challenges, nil
}

func (r *PostgresChallengeRepository) Update(ctx context.Context, c *domain.DailyChallenge) error {
	query := `
        UPDATE daily_challenges SET
            current_value=$1, is_completed=$2, completed_at=$3, updated_at=NOW()
        WHERE id=$4`

	res, err := r.db.ExecContext(ctx, query,
		c.CurrentValue, c.IsCompleted, c.CompletedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrChallengeNotFound
	}

	return nil
}

type PostgresBossRepository struct {
	db *sqlx.DB
}

func NewPostgresBossRepository(db *sqlx.DB) *PostgresBossRepository {
	return &PostgresBossRepository{db: db}
}

const bossColumns = `
	id, user_id, goal_id, name, difficulty,
	total_health, current_health, total_damage,
	critical_hits, task_hits, xp_reward,
	week_start, week_end, is_defeated, defeated_at,
	created_at, updated_at`

func (r *PostgresBossRepository) scanRow(row scannable) (*domain.WeeklyBoss, error) {
	var b domain.WeeklyBoss

	err := row.Scan(
		&b.ID, &b.UserID, &b.GoalID, &b.Name, &b.Difficulty,
		&b.TotalHealth, &b.CurrentHealth, &b.TotalDamage,
		&b.CriticalHits, &b.TaskHits, &b.XPReward,
		&b.WeekStart, &b.WeekEnd, &b.IsDefeated, &b.DefeatedAt,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *PostgresBossRepository) Create(ctx context.Context, b *domain.WeeklyBoss) error {
	query := `
        INSERT INTO weekly_bosses (
            id, user_id, goal_id, name, difficulty,
            total_health, current_health, total_damage,
            critical_hits, task_hits, xp_reward,
            week_start, week_end, is_defeated, defeated_at,
            created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5,
            $6, $7, $8,
            $9, $10, $11,
            $12, $13, $14, $15,
            $16, $17
        )`

	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.UserID, b.GoalID, b.Name, b.Difficulty,
		b.TotalHealth, b.CurrentHealth, b.TotalDamage,
		b.CriticalHits, b.TaskHits, b.XPReward,
		b.WeekStart, b.WeekEnd, b.IsDefeated, b.DefeatedAt,
		b.CreatedAt, b.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert boss: %w", err)
	}

	return nil
}

func (r *PostgresBossRepository) GetActiveByUserID(ctx context.Context, userID string, now time.Time) (*domain.WeeklyBoss, error) {
	query := `
        SELECT ` + bossColumns + ` FROM weekly_bosses
        WHERE user_id = $1 AND week_start <= $2 AND week_end > $2
        ORDER BY created_at DESC
        LIMIT 1`

	b, err := r.scanRow(r.db.QueryRowContext(ctx, query, userID, now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBossNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return b, nil
}

func (r *PostgresBossRepository) Update(ctx context.Context, b *domain.WeeklyBoss) error {
	query := `
        UPDATE weekly_bosses SET
            current_health=$1, total_damage=$2, critical_hits=$3, task_hits=$4,
            is_defeated=$5, defeated_at=$6, updated_at=NOW()
        WHERE id=$7`

	res, err := r.db.ExecContext(ctx, query,
		b.CurrentHealth, b.TotalDamage, b.CriticalHits, b.TaskHits,
		b.IsDefeated, b.DefeatedAt, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrBossNotFound
	}

	return nil
}

type PostgresPowerUpRepository struct {
	db *sqlx.DB
}

func NewPostgresPowerUpRepository(db *sqlx.DB) *PostgresPowerUpRepository {
	return &PostgresPowerUpRepository{db: db}
}

const powerUpColumns = `
	id, user_id, type, quantity,
	is_active, activated_at, expires_at,
	created_at, updated_at`

func (r *PostgresPowerUpRepository) scanRow(row scannable) (*domain.PowerUp, error) {
	var p domain.PowerUp

	err := row.Scan(
		&p.ID, &p.UserID, &p.Type, &p.Quantity,
		&p.IsActive, &p.ActivatedAt, &p.ExpiresAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// Upsert keys on (user_id, type) so the inventory stays one row per type.
func (r *PostgresPowerUpRepository) Upsert(ctx context.Context, p *domain.PowerUp) error {
	query := `
        INSERT INTO power_ups (
            id, user_id, type, quantity,
            is_active, activated_at, expires_at,
            created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4,
            $5, $6, $7,
            $8, $9
        )
        ON CONFLICT (user_id, type) DO UPDATE SET
            quantity = EXCLUDED.quantity,
            is_active = EXCLUDED.is_active,
            activated_at = EXCLUDED.activated_at,
            expires_at = EXCLUDED.expires_at,
            updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.Type, p.Quantity,
		p.IsActive, p.ActivatedAt, p.ExpiresAt,
		p.CreatedAt, p.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert power-up: %w", err)
	}

	return nil
}

func (r *PostgresPowerUpRepository) GetByType(ctx context.Context, userID string, pType domain.PowerUpType) (*domain.PowerUp, error) {
	query := `SELECT ` + powerUpColumns + ` FROM power_ups WHERE user_id = $1 AND type = $2`

	p, err := r.scanRow(r.db.QueryRowContext(ctx, query, userID, pType))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPowerUpNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return p, nil
}

func (r *PostgresPowerUpRepository) ListByUserID(ctx context.Context, userID string) (domain.Inventory, error) {
	query := `
        SELECT ` + powerUpColumns + ` FROM power_ups
        WHERE user_id = $1
        ORDER BY type ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var inv domain.Inventory

	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		inv = append(inv, p)
	}

	return inv, nil
}
