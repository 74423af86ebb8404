package services

import (
	"context"
	"time"

	"github.com/strivehq/strive-engine/internal/core/domain"
)

type PactService struct {
	repo     domain.PactRepository
	userRepo domain.UserRepository
}

func NewPactService(repo domain.PactRepository, userRepo domain.UserRepository) *PactService {
	return &PactService{
		repo:     repo,
		userRepo: userRepo,
	}
}

type CreatePactInput struct {
	InitiatorID  string
	PartnerEmail string
	Title        string
	Commitment   string
}

// Create proposes a pact to the partner identified by email. The pact stays
// pending until the partner accepts.
func (s *PactService) Create(ctx context.Context, input CreatePactInput) (*domain.Pact, error) {
	partner, err := s.userRepo.GetByEmail(ctx, input.PartnerEmail)
	if err != nil {
		return nil, err
	}

	pact, err := domain.NewPact(input.InitiatorID, partner.ID, input.Title, input.Commitment)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, pact); err != nil {
		return nil, err
	}

	return pact, nil
}

func (s *PactService) ListByUserID(ctx context.Context, userID string) ([]*domain.Pact, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *PactService) GetByID(ctx context.Context, id, userID string) (*domain.Pact, error) {
	pact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !pact.IsMember(userID) {
		return nil, domain.ErrPactNotFound
	}

	return pact, nil
}

// Accept activates a pending pact. Only the invited partner may accept.
func (s *PactService) Accept(ctx context.Context, id, userID string) (*domain.Pact, error) {
	pact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if pact.PartnerID != userID {
		return nil, domain.ErrPactNotFound
	}

	pact.Accept()

	if err := s.repo.Update(ctx, pact); err != nil {
		return nil, err
	}

	return pact, nil
}

// CheckIn marks the caller's daily flag.
func (s *PactService) CheckIn(ctx context.Context, id, userID string) (*domain.Pact, error) {
	pact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !pact.IsMember(userID) {
		return nil, domain.ErrPactNotFound
	}

	if err := pact.MarkCompleted(userID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, pact); err != nil {
		return nil, err
	}

	return pact, nil
}

// EvaluateDay closes out the day for one pact, typically driven by a
// scheduled rollover at midnight UTC.
func (s *PactService) EvaluateDay(ctx context.Context, id string, now time.Time) (*domain.Pact, error) {
	pact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pact.EvaluateDay(now)

	if err := s.repo.Update(ctx, pact); err != nil {
		return nil, err
	}

	return pact, nil
}
