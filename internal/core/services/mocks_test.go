package services_test

import (
	"context"
	"time"

	"github.com/strivehq/strive-engine/internal/core/domain"
)

func ptr[T any](v T) *T {
	return &v
}

type MockUserRepo struct {
	store         map[string]*domain.User
	simulateError error
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{store: make(map[string]*domain.User)}
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	for _, u := range m.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	clone := *user
	m.store[user.ID] = &clone
	return nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.store {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type MockTaskRepo struct {
	store         map[string]*domain.Task
	simulateError error
}

func NewMockTaskRepo() *MockTaskRepo {
	return &MockTaskRepo{store: make(map[string]*domain.Task)}
}

func (m *MockTaskRepo) Create(ctx context.Context, task *domain.Task) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	clone := *task
	m.store[task.ID] = &clone
	return nil
}

func (m *MockTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	t, ok := m.store[id]
	if !ok || t.DeletedAt != nil {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (m *MockTaskRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Task, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var list []*domain.Task
	for _, t := range m.store {
		if t.UserID == userID && t.DeletedAt == nil {
			clone := *t
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *MockTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.store[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	task.Version++
	clone := *task
	m.store[task.ID] = &clone
	return nil
}

func (m *MockTaskRepo) Delete(ctx context.Context, id string) error {
	t, ok := m.store[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	now := time.Now().UTC()
	t.DeletedAt = &now
	t.Version++
	t.UpdatedAt = now
	return nil
}

func (m *MockTaskRepo) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Task, error) {
	var changes []*domain.Task
	for _, t := range m.store {
		if t.UserID == userID && t.UpdatedAt.After(since) {
			clone := *t
			changes = append(changes, &clone)
		}
	}
	return changes, nil
}

type MockGoalRepo struct {
	store         map[string]*domain.Goal
	simulateError error
}

func NewMockGoalRepo() *MockGoalRepo {
	return &MockGoalRepo{store: make(map[string]*domain.Goal)}
}

func (m *MockGoalRepo) Create(ctx context.Context, goal *domain.Goal) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	clone := *goal
	m.store[goal.ID] = &clone
	return nil
}

func (m *MockGoalRepo) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	g, ok := m.store[id]
	if !ok || g.DeletedAt != nil {
		return nil, domain.ErrGoalNotFound
	}
	clone := *g
	return &clone, nil
}

func (m *MockGoalRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	var list []*domain.Goal
	for _, g := range m.store {
		if g.UserID == userID && g.DeletedAt == nil {
			clone := *g
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *MockGoalRepo) Update(ctx context.Context, goal *domain.Goal) error {
	if _, ok := m.store[goal.ID]; !ok {
		return domain.ErrGoalNotFound
	}
	goal.Version++
	clone := *goal
	m.store[goal.ID] = &clone
	return nil
}

func (m *MockGoalRepo) Delete(ctx context.Context, id string) error {
	g, ok := m.store[id]
	if !ok {
		return domain.ErrGoalNotFound
	}
	now := time.Now().UTC()
	g.DeletedAt = &now
	g.Version++
	g.UpdatedAt = now
	return nil
}

func (m *MockGoalRepo) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Goal, error) {
	var changes []*domain.Goal
	for _, g := range m.store {
		if g.UserID == userID && g.UpdatedAt.After(since) {
			clone := *g
			changes = append(changes, &clone)
		}
	}
	return changes, nil
}

type MockMilestoneRepo struct {
	store map[string]*domain.Milestone
}

func NewMockMilestoneRepo() *MockMilestoneRepo {
	return &MockMilestoneRepo{store: make(map[string]*domain.Milestone)}
}

func (m *MockMilestoneRepo) Create(ctx context.Context, milestone *domain.Milestone) error {
	clone := *milestone
	m.store[milestone.ID] = &clone
	return nil
}

func (m *MockMilestoneRepo) GetByID(ctx context.Context, id string) (*domain.Milestone, error) {
	ms, ok := m.store[id]
	if !ok || ms.DeletedAt != nil {
		return nil, domain.ErrMilestoneNotFound
	}
	clone := *ms
	return &clone, nil
}

func (m *MockMilestoneRepo) ListByGoalID(ctx context.Context, goalID string) (domain.MilestoneList, error) {
	var list domain.MilestoneList
	for _, ms := range m.store {
		if ms.GoalID == goalID && ms.DeletedAt == nil {
			clone := *ms
			list = append(list, &clone)
		}
	}
	return list.Sorted(), nil
}

func (m *MockMilestoneRepo) Update(ctx context.Context, milestone *domain.Milestone) error {
	if _, ok := m.store[milestone.ID]; !ok {
		return domain.ErrMilestoneNotFound
	}
	milestone.Version++
	clone := *milestone
	m.store[milestone.ID] = &clone
	return nil
}

func (m *MockMilestoneRepo) Delete(ctx context.Context, id string) error {
	ms, ok := m.store[id]
	if !ok {
		return domain.ErrMilestoneNotFound
	}
	now := time.Now().UTC()
	ms.DeletedAt = &now
	return nil
}

type MockChallengeRepo struct {
	store map[string]*domain.DailyChallenge
}

func NewMockChallengeRepo() *MockChallengeRepo {
	return &MockChallengeRepo{store: make(map[string]*domain.DailyChallenge)}
}

func (m *MockChallengeRepo) Create(ctx context.Context, c *domain.DailyChallenge) error {
	clone := *c
	m.store[c.ID] = &clone
	return nil
}

func (m *MockChallengeRepo) GetByID(ctx context.Context, id string) (*domain.DailyChallenge, error) {
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrChallengeNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *MockChallengeRepo) ListActiveByUserID(ctx context.Context, userID string, now time.Time) ([]*domain.DailyChallenge, error) {
	var list []*domain.DailyChallenge
	for _, c := range m.store {
		if c.UserID == userID && !c.IsExpired(now) {
			clone := *c
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *MockChallengeRepo) Update(ctx context.Context, c *domain.DailyChallenge) error {
	if _, ok := m.store[c.ID]; !ok {
		return domain.ErrChallengeNotFound
	}
	clone := *c
	m.store[c.ID] = &clone
	return nil
}

type MockBossRepo struct {
	store map[string]*domain.WeeklyBoss
}

func NewMockBossRepo() *MockBossRepo {
	return &MockBossRepo{store: make(map[string]*domain.WeeklyBoss)}
}

func (m *MockBossRepo) Create(ctx context.Context, b *domain.WeeklyBoss) error {
	clone := *b
	m.store[b.ID] = &clone
	return nil
}

func (m *MockBossRepo) GetActiveByUserID(ctx context.Context, userID string, now time.Time) (*domain.WeeklyBoss, error) {
	for _, b := range m.store {
		if b.UserID == userID && !now.Before(b.WeekStart) && now.Before(b.WeekEnd) {
			clone := *b
			return &clone, nil
		}
	}
	return nil, domain.ErrBossNotFound
}

func (m *MockBossRepo) Update(ctx context.Context, b *domain.WeeklyBoss) error {
	if _, ok := m.store[b.ID]; !ok {
		return domain.ErrBossNotFound
	}
	clone := *b
	m.store[b.ID] = &clone
	return nil
}

type MockPowerUpRepo struct {
	store map[string]*domain.PowerUp
}

func NewMockPowerUpRepo() *MockPowerUpRepo {
	return &MockPowerUpRepo{store: make(map[string]*domain.PowerUp)}
}

func (m *MockPowerUpRepo) Upsert(ctx context.Context, p *domain.PowerUp) error {
	clone := *p
	m.store[p.UserID+"/"+string(p.Type)] = &clone
	return nil
}

func (m *MockPowerUpRepo) GetByType(ctx context.Context, userID string, pType domain.PowerUpType) (*domain.PowerUp, error) {
	p, ok := m.store[userID+"/"+string(pType)]
	if !ok {
		return nil, domain.ErrPowerUpNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *MockPowerUpRepo) ListByUserID(ctx context.Context, userID string) (domain.Inventory, error) {
	var inv domain.Inventory
	for _, p := range m.store {
		if p.UserID == userID {
			clone := *p
			inv = append(inv, &clone)
		}
	}
	return inv, nil
}

type MockPactRepo struct {
	store map[string]*domain.Pact
}

func NewMockPactRepo() *MockPactRepo {
	return &MockPactRepo{store: make(map[string]*domain.Pact)}
}

func (m *MockPactRepo) Create(ctx context.Context, p *domain.Pact) error {
	clone := *p
	m.store[p.ID] = &clone
	return nil
}

func (m *MockPactRepo) GetByID(ctx context.Context, id string) (*domain.Pact, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrPactNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *MockPactRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Pact, error) {
	var list []*domain.Pact
	for _, p := range m.store {
		if p.IsMember(userID) {
			clone := *p
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *MockPactRepo) Update(ctx context.Context, p *domain.Pact) error {
	if _, ok := m.store[p.ID]; !ok {
		return domain.ErrPactNotFound
	}
	clone := *p
	m.store[p.ID] = &clone
	return nil
}
