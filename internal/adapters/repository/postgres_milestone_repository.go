package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/strivehq/strive-engine/internal/core/domain"
)

const milestoneColumns = `
	id, goal_id, user_id, title, points, sort_order, target_at,
	is_completed, completed_at,
	version, created_at, updated_at, deleted_at`

type PostgresMilestoneRepository struct {
	db *sqlx.DB
}

func NewPostgresMilestoneRepository(db *sqlx.DB) *PostgresMilestoneRepository {
	return &PostgresMilestoneRepository{db: db}
}

func (r *PostgresMilestoneRepository) scanRow(row scannable) (*domain.Milestone, error) {
	var m domain.Milestone

	err := row.Scan(
		&m.ID, &m.GoalID, &m.UserID, &m.Title, &m.Points, &m.SortOrder, &m.TargetAt,
		&m.IsCompleted, &m.CompletedAt,
		&m.Version, &m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *PostgresMilestoneRepository) Create(ctx context.Context, m *domain.Milestone) error {
	query := `
        INSERT INTO milestones (
            id, goal_id, user_id, title, points, sort_order, target_at,
            is_completed, completed_at,
            version, deleted_at, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7,
            $8, $9,
            1, NULL, $10, $11
        )`

	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.GoalID, m.UserID, m.Title, m.Points, m.SortOrder, m.TargetAt,
		m.IsCompleted, m.CompletedAt,
		m.CreatedAt, m.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return domain.ErrGoalNotFound
		}
		return fmt.Errorf("failed to insert milestone: %w", err)
	}

	m.Version = 1
	return nil
}

func (r *PostgresMilestoneRepository) GetByID(ctx context.Context, id string) (*domain.Milestone, error) {
	query := `SELECT ` + milestoneColumns + ` FROM milestones WHERE id = $1 AND deleted_at IS NULL`

	row := r.db.QueryRowContext(ctx, query, id)

	m, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return m, nil
}

func (r *PostgresMilestoneRepository) ListByGoalID(ctx context.Context, goalID string) (domain.MilestoneList, error) {
	query := `
        SELECT ` + milestoneColumns + ` FROM milestones
        WHERE goal_id = $1 AND deleted_at IS NULL
        ORDER BY sort_order ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, goalID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var milestones domain.MilestoneList

	for rows.Next() {
		m, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		milestones = append(milestones, m)
	}

	return milestones, nil
}

func (r *PostgresMilestoneRepository) Update(ctx context.Context, m *domain.Milestone) error {
	query := `
        UPDATE milestones SET
            title=$1, points=$2, sort_order=$3, target_at=$4,
            is_completed=$5, completed_at=$6,
            updated_at=NOW(), version = version + 1
        WHERE id=$7 AND version=$8 AND deleted_at IS NULL
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		m.Title, m.Points, m.SortOrder, m.TargetAt,
		m.IsCompleted, m.CompletedAt,
		m.ID, m.Version,
	)

	var newVersion int
	var newUpdatedAt time.Time

	err := row.Scan(&newVersion, &newUpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			existsQuery := `SELECT count(*) FROM milestones WHERE id = $1`
			var count int
			if checkErr := r.db.QueryRowContext(ctx, existsQuery, m.ID).Scan(&count); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}

			if count == 0 {
				return domain.ErrMilestoneNotFound
			}
			return domain.ErrMilestoneConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	m.Version = newVersion
	m.UpdatedAt = newUpdatedAt

	return nil
}

func (r *PostgresMilestoneRepository) Delete(ctx context.Context, id string) error {
	query := `
        UPDATE milestones
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
		return domain.ErrMilestoneNotFound
	}

	return nil
}
