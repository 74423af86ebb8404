package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/strivehq/strive-engine/internal/core/domain"
)

const pactColumns = `
	id, initiator_id, partner_id, title, commitment, state,
	initiator_done, partner_done,
	current_streak, longest_streak, shield_available,
	broken_at, broken_by,
	created_at, updated_at`

type PostgresPactRepository struct {
	db *sqlx.DB
}

func NewPostgresPactRepository(db *sqlx.DB) *PostgresPactRepository {
	return &PostgresPactRepository{db: db}
}

func (r *PostgresPactRepository) scanRow(row scannable) (*domain.Pact, error) {
	var p domain.Pact

	err := row.Scan(
		&p.ID, &p.InitiatorID, &p.PartnerID, &p.Title, &p.Commitment, &p.State,
		&p.InitiatorDone, &p.PartnerDone,
		&p.CurrentStreak, &p.LongestStreak, &p.ShieldAvailable,
		&p.BrokenAt, &p.BrokenBy,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *PostgresPactRepository) Create(ctx context.Context, p *domain.Pact) error {
	query := `
        INSERT INTO pacts (
            id, initiator_id, partner_id, title, commitment, state,
            initiator_done, partner_done,
            current_streak, longest_streak, shield_available,
            broken_at, broken_by,
            created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6,
            $7, $8,
            $9, $10, $11,
            $12, $13,
            $14, $15
        )`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.InitiatorID, p.PartnerID, p.Title, p.Commitment, p.State,
		p.InitiatorDone, p.PartnerDone,
		p.CurrentStreak, p.LongestStreak, p.ShieldAvailable,
		p.BrokenAt, p.BrokenBy,
		p.CreatedAt, p.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert pact: %w", err)
	}

	return nil
}

func (r *PostgresPactRepository) GetByID(ctx context.Context, id string) (*domain.Pact, error) {
	query := `SELECT ` + pactColumns + ` FROM pacts WHERE id = $1`

	p, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPactNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return p, nil
}

func (r *PostgresPactRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Pact, error) {
	query := `
        SELECT ` + pactColumns + ` FROM pacts
        WHERE initiator_id = $1 OR partner_id = $1
        ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var pacts []*domain.Pact

	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		pacts = append(pacts, p)
	}

	return pacts, nil
}

func (r *PostgresPactRepository) Update(ctx context.Context, p *domain.Pact) error {
	query := `
        UPDATE pacts SET
            state=$1, initiator_done=$2, partner_done=$3,
            current_streak=$4, longest_streak=$5, shield_available=$6,
            broken_at=$7, broken_by=$8, updated_at=NOW()
        WHERE id=$9`

	res, err := r.db.ExecContext(ctx, query,
		p.State, p.InitiatorDone, p.PartnerDone,
		p.CurrentStreak, p.LongestStreak, p.ShieldAvailable,
		p.BrokenAt, p.BrokenBy, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrPactNotFound
	}

	return nil
}
