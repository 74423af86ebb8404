package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type TaskRepository interface {
	// Create persists a new task.
	Create(ctx context.Context, task *Task) error

	// GetByID retrieves a single active (non-deleted) task.
	GetByID(ctx context.Context, id string) (*Task, error)

	// ListByUserID retrieves all active tasks of a user.
	ListByUserID(ctx context.Context, userID string) ([]*Task, error)

	// Update modifies an existing task.
	// Implementations must enforce optimistic locking on the version column.
	Update(ctx context.Context, task *Task) error

	// Delete performs a soft delete.
	Delete(ctx context.Context, id string) error

	// GetChanges [SYNC] returns all deltas occurring after 'since',
	// soft-deletes included, for offline-first clients.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*Task, error)
}

type GoalRepository interface {
	Create(ctx context.Context, goal *Goal) error
	GetByID(ctx context.Context, id string) (*Goal, error)
	ListByUserID(ctx context.Context, userID string) ([]*Goal, error)
	Update(ctx context.Context, goal *Goal) error
	Delete(ctx context.Context, id string) error
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*Goal, error)
}

type MilestoneRepository interface {
	Create(ctx context.Context, milestone *Milestone) error
	GetByID(ctx context.Context, id string) (*Milestone, error)

	// ListByGoalID retrieves the goal's milestones ordered by sort order.
	ListByGoalID(ctx context.Context, goalID string) (MilestoneList, error)

	Update(ctx context.Context, milestone *Milestone) error
	Delete(ctx context.Context, id string) error
}
