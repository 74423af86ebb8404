package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/strivehq/strive-engine/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const taskColumns = `
	id, user_id, goal_id, title, notes, category,
	priority, ai_processed, ai_label,
	estimated_minutes, scheduled_at,
	recurrence, recurrence_days, recurrence_ends_at, parent_task_id,
	is_completed, completed_at, points_earned,
	version, created_at, updated_at, deleted_at`

type PostgresTaskRepository struct {
	db *sqlx.DB
}

func NewPostgresTaskRepository(db *sqlx.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresTaskRepository) scanRow(row scannable) (*domain.Task, error) {
	var t domain.Task
	var daysJSON []byte

	err := row.Scan(
		&t.ID, &t.UserID, &t.GoalID, &t.Title, &t.Notes, &t.Category,
		&t.Priority, &t.AIProcessed, &t.AILabel,
		&t.EstimatedMinutes, &t.ScheduledAt,
		&t.Recurrence, &daysJSON, &t.RecurrenceEndsAt, &t.ParentTaskID,
		&t.IsCompleted, &t.CompletedAt, &t.PointsEarned,
		&t.Version, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(daysJSON) > 0 {
		if err := json.Unmarshal(daysJSON, &t.RecurrenceDays); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recurrence days: %w", err)
		}
	}

	return &t, nil
}

func (r *PostgresTaskRepository) Create(ctx context.Context, t *domain.Task) error {
	daysJSON, err := json.Marshal(t.RecurrenceDays)
	if err != nil {
		return fmt.Errorf("failed to marshal recurrence days: %w", err)
	}

	query := `
        INSERT INTO tasks (
            id, user_id, goal_id, title, notes, category,
            priority, ai_processed, ai_label,
            estimated_minutes, scheduled_at,
            recurrence, recurrence_days, recurrence_ends_at, parent_task_id,
            is_completed, completed_at, points_earned,
            version, deleted_at, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6,
            $7, $8, $9,
            $10, $11,
            $12, $13, $14, $15,
            $16, $17, $18,
            1, NULL, $19, $20
        )`

	_, err = r.db.ExecContext(ctx, query,
		t.ID, t.UserID, t.GoalID, t.Title, t.Notes, t.Category,
		t.Priority, t.AIProcessed, t.AILabel,
		t.EstimatedMinutes, t.ScheduledAt,
		t.Recurrence, daysJSON, t.RecurrenceEndsAt, t.ParentTaskID,
		t.IsCompleted, t.CompletedAt, t.PointsEarned,
		t.CreatedAt, t.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	t.Version = 1
	return nil
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND deleted_at IS NULL`

	row := r.db.QueryRowContext(ctx, query, id)

	t, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return t, nil
}

func (r *PostgresTaskRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Task, error) {
	query := `
        SELECT ` + taskColumns + ` FROM tasks
        WHERE user_id = $1 AND deleted_at IS NULL
        ORDER BY is_completed ASC, scheduled_at ASC NULLS LAST, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task

	for rows.Next() {
		t, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, nil
}

func (r *PostgresTaskRepository) Update(ctx context.Context, t *domain.Task) error {
	daysJSON, err := json.Marshal(t.RecurrenceDays)
	if err != nil {
		return err
	}

	query := `
        UPDATE tasks SET
            goal_id=$1, title=$2, notes=$3, category=$4,
            priority=$5, ai_processed=$6, ai_label=$7,
            estimated_minutes=$8, scheduled_at=$9,
            recurrence=$10, recurrence_days=$11, recurrence_ends_at=$12,
            is_completed=$13, completed_at=$14, points_earned=$15,
            updated_at=NOW(), version = version + 1
        WHERE id=$16 AND version=$17 AND deleted_at IS NULL
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		t.GoalID, t.Title, t.Notes, t.Category,
		t.Priority, t.AIProcessed, t.AILabel,
		t.EstimatedMinutes, t.ScheduledAt,
		t.Recurrence, daysJSON, t.RecurrenceEndsAt,
		t.IsCompleted, t.CompletedAt, t.PointsEarned,
		t.ID, t.Version,
	)

	var newVersion int
	var newUpdatedAt time.Time

	err = row.Scan(&newVersion, &newUpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			existsQuery := `SELECT count(*) FROM tasks WHERE id = $1`
			var count int
			if checkErr := r.db.QueryRowContext(ctx, existsQuery, t.ID).Scan(&count); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}

			if count == 0 {
				return domain.ErrTaskNotFound
			}
			return domain.ErrTaskConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	t.Version = newVersion
	t.UpdatedAt = newUpdatedAt

	return nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id string) error {
	query := `
        UPDATE tasks
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
		return domain.ErrTaskNotFound
	}

	return nil
}

func (r *PostgresTaskRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Task, error) {
	query := `
        SELECT ` + taskColumns + ` FROM tasks
        WHERE user_id = $1 AND updated_at > $2
        ORDER BY updated_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("sync query error: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task

	for rows.Next() {
		t, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("sync row scan error: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, nil
}
