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

const goalColumns = `
	id, user_id, title, category, timeframe, target_at, progress,
	checkin_streak, longest_streak, last_checkin_at, weekly_target,
	milestone_count, milestones_done,
	version, created_at, updated_at, deleted_at`

type PostgresGoalRepository struct {
	db *sqlx.DB
}

func NewPostgresGoalRepository(db *sqlx.DB) *PostgresGoalRepository {
	return &PostgresGoalRepository{db: db}
}

func (r *PostgresGoalRepository) scanRow(row scannable) (*domain.Goal, error) {
	var g domain.Goal

	err := row.Scan(
		&g.ID, &g.UserID, &g.Title, &g.Category, &g.Timeframe, &g.TargetAt, &g.Progress,
		&g.CheckinStreak, &g.LongestStreak, &g.LastCheckinAt, &g.WeeklyTarget,
		&g.MilestoneCount, &g.MilestonesDone,
		&g.Version, &g.CreatedAt, &g.UpdatedAt, &g.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	return &g, nil
}

func (r *PostgresGoalRepository) Create(ctx context.Context, g *domain.Goal) error {
	query := `
        INSERT INTO goals (
            id, user_id, title, category, timeframe, target_at, progress,
            checkin_streak, longest_streak, last_checkin_at, weekly_target,
            milestone_count, milestones_done,
            version, deleted_at, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7,
            $8, $9, $10, $11,
            $12, $13,
            1, NULL, $14, $15
        )`

	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.UserID, g.Title, g.Category, g.Timeframe, g.TargetAt, g.Progress,
		g.CheckinStreak, g.LongestStreak, g.LastCheckinAt, g.WeeklyTarget,
		g.MilestoneCount, g.MilestonesDone,
		g.CreatedAt, g.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	g.Version = 1
	return nil
}

func (r *PostgresGoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND deleted_at IS NULL`

	row := r.db.QueryRowContext(ctx, query, id)

	g, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return g, nil
}

func (r *PostgresGoalRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	query := `
        SELECT ` + goalColumns + ` FROM goals
        WHERE user_id = $1 AND deleted_at IS NULL
        ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var goals []*domain.Goal

	for rows.Next() {
		g, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		goals = append(goals, g)
	}

	return goals, nil
}

func (r *PostgresGoalRepository) Update(ctx context.Context, g *domain.Goal) error {
	query := `
        UPDATE goals SET
            title=$1, category=$2, timeframe=$3, target_at=$4, progress=$5,
            checkin_streak=$6, longest_streak=$7, last_checkin_at=$8, weekly_target=$9,
            milestone_count=$10, milestones_done=$11,
            updated_at=NOW(), version = version + 1
        WHERE id=$12 AND version=$13 AND deleted_at IS NULL
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		g.Title, g.Category, g.Timeframe, g.TargetAt, g.Progress,
		g.CheckinStreak, g.LongestStreak, g.LastCheckinAt, g.WeeklyTarget,
		g.MilestoneCount, g.MilestonesDone,
		g.ID, g.Version,
	)

	var newVersion int
	var newUpdatedAt time.Time

	err := row.Scan(&newVersion, &newUpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			existsQuery := `SELECT count(*) FROM goals WHERE id = $1`
			var count int
			if checkErr := r.db.QueryRowContext(ctx, existsQuery, g.ID).Scan(&count); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}

			if count == 0 {
				return domain.ErrGoalNotFound
			}
			return domain.ErrGoalConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	g.Version = newVersion
	g.UpdatedAt = newUpdatedAt

	return nil
}

func (r *PostgresGoalRepository) Delete(ctx context.Context, id string) error {
	query := `
        UPDATE goals
        SET deleted_at = NOW(), updated_at = NOW(), version = version + 1
        WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrGoalNotFound
	}

	return nil
}

func (r *PostgresGoalRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Goal, error) {
	query := `
        SELECT ` + goalColumns + ` FROM goals
        WHERE user_id = $1 AND updated_at > $2
        ORDER BY updated_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("sync query error: %w", err)
	}
	defer rows.Close()

	var goals []*domain.Goal

	for rows.Next() {
		g, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("sync row scan error: %w", err)
		}
		goals = append(goals, g)
	}

	return goals, nil
}
