package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	adapterHTTP "github.com/strivehq/strive-engine/internal/adapters/handler/http"
	"github.com/strivehq/strive-engine/internal/adapters/handler/http/middleware"
	"github.com/strivehq/strive-engine/internal/core/domain"
	"github.com/strivehq/strive-engine/internal/core/services"
	"github.com/strivehq/strive-engine/internal/core/workers"
)

type mockUserRepo struct {
	store map[string]*domain.User
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range m.store {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	m.store[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.store {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type mockTaskRepo struct {
	store map[string]*domain.Task
}

func (m *mockTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	m.store[t.ID] = t
	return nil
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	t, ok := m.store[id]
	if !ok || t.DeletedAt != nil {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (m *mockTaskRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Task, error) {
	var list []*domain.Task
	for _, t := range m.store {
		if t.UserID == userID && t.DeletedAt == nil {
			list = append(list, t)
		}
	}
	return list, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	stored, ok := m.store[t.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrTaskNotFound
	}
	if stored.Version != t.Version {
		return domain.ErrTaskConflict
	}
	t.Version++
	t.UpdatedAt = time.Now().UTC()
	m.store[t.ID] = t
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, id string) error {
	t, ok := m.store[id]
	if !ok || t.DeletedAt != nil {
		return domain.ErrTaskNotFound
	}
	now := time.Now().UTC()
	t.DeletedAt = &now
	t.UpdatedAt = now
	return nil
}

func (m *mockTaskRepo) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Task, error) {
	var list []*domain.Task
	for _, t := range m.store {
		if t.UserID == userID && t.UpdatedAt.After(since) {
			list = append(list, t)
		}
	}
	return list, nil
}

type mockGoalRepo struct {
	store map[string]*domain.Goal
}

func (m *mockGoalRepo) Create(ctx context.Context, g *domain.Goal) error {
	m.store[g.ID] = g
	return nil
}

func (m *mockGoalRepo) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	g, ok := m.store[id]
	if !ok || g.DeletedAt != nil {
		return nil, domain.ErrGoalNotFound
	}
	return g, nil
}

func (m *mockGoalRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	var list []*domain.Goal
	for _, g := range m.store {
		if g.UserID == userID && g.DeletedAt == nil {
			list = append(list, g)
		}
	}
	return list, nil
}

func (m *mockGoalRepo) Update(ctx context.Context, g *domain.Goal) error {
	stored, ok := m.store[g.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrGoalNotFound
	}
	if stored.Version != g.Version {
		return domain.ErrGoalConflict
	}
	g.Version++
	g.UpdatedAt = time.Now().UTC()
	m.store[g.ID] = g
	return nil
}

func (m *mockGoalRepo) Delete(ctx context.Context, id string) error {
	g, ok := m.store[id]
	if !ok || g.DeletedAt != nil {
		return domain.ErrGoalNotFound
	}
	now := time.Now().UTC()
	g.DeletedAt = &now
	g.UpdatedAt = now
	return nil
}

func (m *mockGoalRepo) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Goal, error) {
	var list []*domain.Goal
	for _, g := range m.store {
		if g.UserID == userID && g.UpdatedAt.After(since) {
			list = append(list, g)
		}
	}
	return list, nil
}

type mockMilestoneRepo struct {
	store map[string]*domain.Milestone
}

func (m *mockMilestoneRepo) Create(ctx context.Context, ms *domain.Milestone) error {
	m.store[ms.ID] = ms
	return nil
}

func (m *mockMilestoneRepo) GetByID(ctx context.Context, id string) (*domain.Milestone, error) {
	ms, ok := m.store[id]
	if !ok {
		return nil, domain.ErrMilestoneNotFound
	}
	return ms, nil
}

func (m *mockMilestoneRepo) ListByGoalID(ctx context.Context, goalID string) (domain.MilestoneList, error) {
	var list domain.MilestoneList
	for _, ms := range m.store {
		if ms.GoalID == goalID {
			list = append(list, ms)
		}
	}
	return list.Sorted(), nil
}

func (m *mockMilestoneRepo) Update(ctx context.Context, ms *domain.Milestone) error {
	if _, ok := m.store[ms.ID]; !ok {
		return domain.ErrMilestoneNotFound
	}
	m.store[ms.ID] = ms
	return nil
}

func (m *mockMilestoneRepo) Delete(ctx context.Context, id string) error {
	delete(m.store, id)
	return nil
}

type mockChallengeRepo struct {
	store map[string]*domain.DailyChallenge
}

func (m *mockChallengeRepo) Create(ctx context.Context, c *domain.DailyChallenge) error {
	m.store[c.ID] = c
	return nil
}

func (m *mockChallengeRepo) GetByID(ctx context.Context, id string) (*domain.DailyChallenge, error) {
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrChallengeNotFound
	}
	return c, nil
}

func (m *mockChallengeRepo) ListActiveByUserID(ctx context.Context, userID string, now time.Time) ([]*domain.DailyChallenge, error) {
	var list []*domain.DailyChallenge
	for _, c := range m.store {
		if c.UserID == userID && !c.ExpiresAt.Before(now) {
			list = append(list, c)
		}
	}
	return list, nil
}

func (m *mockChallengeRepo) Update(ctx context.Context, c *domain.DailyChallenge) error {
	if _, ok := m.store[c.ID]; !ok {
		return domain.ErrChallengeNotFound
	}
	m.store[c.ID] = c
	return nil
}

type mockBossRepo struct {
	store map[string]*domain.WeeklyBoss
}

func (m *mockBossRepo) Create(ctx context.Context, b *domain.WeeklyBoss) error {
	m.store[b.ID] = b
	return nil
}

func (m *mockBossRepo) GetActiveByUserID(ctx context.Context, userID string, now time.Time) (*domain.WeeklyBoss, error) {
	for _, b := range m.store {
		if b.UserID == userID && !now.Before(b.WeekStart) && now.Before(b.WeekEnd) {
			return b, nil
		}
	}
	return nil, domain.ErrBossNotFound
}

func (m *mockBossRepo) Update(ctx context.Context, b *domain.WeeklyBoss) error {
	if _, ok := m.store[b.ID]; !ok {
		return domain.ErrBossNotFound
	}
	m.store[b.ID] = b
	return nil
}

type mockPowerUpRepo struct {
	store map[string]*domain.PowerUp
}

func powerUpKey(userID string, pType domain.PowerUpType) string {
	return userID + "/" + string(pType)
}

func (m *mockPowerUpRepo) Upsert(ctx context.Context, p *domain.PowerUp) error {
	m.store[powerUpKey(p.UserID, p.Type)] = p
	return nil
}

func (m *mockPowerUpRepo) GetByType(ctx context.Context, userID string, pType domain.PowerUpType) (*domain.PowerUp, error) {
	p, ok := m.store[powerUpKey(userID, pType)]
	if !ok {
		return nil, domain.ErrPowerUpNotFound
	}
	return p, nil
}

func (m *mockPowerUpRepo) ListByUserID(ctx context.Context, userID string) (domain.Inventory, error) {
	var inv domain.Inventory
	for _, p := range m.store {
		if p.UserID == userID {
			inv = append(inv, p)
		}
	}
	return inv, nil
}

type mockPactRepo struct {
	store map[string]*domain.Pact
}

func (m *mockPactRepo) Create(ctx context.Context, p *domain.Pact) error {
	m.store[p.ID] = p
	return nil
}

func (m *mockPactRepo) GetByID(ctx context.Context, id string) (*domain.Pact, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrPactNotFound
	}
	return p, nil
}

func (m *mockPactRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Pact, error) {
	var list []*domain.Pact
	for _, p := range m.store {
		if p.InitiatorID == userID || p.PartnerID == userID {
			list = append(list, p)
		}
	}
	return list, nil
}

func (m *mockPactRepo) Update(ctx context.Context, p *domain.Pact) error {
	if _, ok := m.store[p.ID]; !ok {
		return domain.ErrPactNotFound
	}
	m.store[p.ID] = p
	return nil
}

// testAuth replaces the JWT middleware in handler tests so a caller can
// impersonate any user via the X-User-ID header.
func testAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-User-ID")
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(middleware.ContextUserIDKey, id)
		c.Next()
	}
}

type fixture struct {
	router *gin.Engine

	users      *mockUserRepo
	tasks      *mockTaskRepo
	goals      *mockGoalRepo
	milestones *mockMilestoneRepo
	challenges *mockChallengeRepo
	bosses     *mockBossRepo
	powerUps   *mockPowerUpRepo
	pacts      *mockPactRepo

	arenaSvc *services.ArenaService
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)

	f := &fixture{
		users:      &mockUserRepo{store: make(map[string]*domain.User)},
		tasks:      &mockTaskRepo{store: make(map[string]*domain.Task)},
		goals:      &mockGoalRepo{store: make(map[string]*domain.Goal)},
		milestones: &mockMilestoneRepo{store: make(map[string]*domain.Milestone)},
		challenges: &mockChallengeRepo{store: make(map[string]*domain.DailyChallenge)},
		bosses:     &mockBossRepo{store: make(map[string]*domain.WeeklyBoss)},
		powerUps:   &mockPowerUpRepo{store: make(map[string]*domain.PowerUp)},
		pacts:      &mockPactRepo{store: make(map[string]*domain.Pact)},
	}

	worker := workers.NewRewardWorker(f.challenges, f.bosses)

	tokenService := services.NewTokenService("test-secret", "strive-engine", time.Hour, f.users)
	authService := services.NewAuthService(f.users)
	taskService := services.NewTaskService(f.tasks, worker)
	goalService := services.NewGoalService(f.goals, f.milestones, worker)
	f.arenaSvc = services.NewArenaService(f.challenges, f.bosses, f.powerUps, f.goals)
	pactService := services.NewPactService(f.pacts, f.users)
	adviceService := services.NewAdviceService(f.tasks, nil)
	statsService := services.NewStatsService(f.tasks, f.goals, f.bosses, f.challenges)

	r := gin.New()
	apiV1 := r.Group("/api/v1")

	adapterHTTP.NewAuthHandler(authService, tokenService).RegisterRoutes(apiV1)

	protected := apiV1.Group("")
	protected.Use(testAuth())
	{
		adapterHTTP.NewTaskHandler(taskService, adviceService).RegisterRoutes(protected)
		adapterHTTP.NewGoalHandler(goalService).RegisterRoutes(protected)
		adapterHTTP.NewArenaHandler(f.arenaSvc).RegisterRoutes(protected)
		adapterHTTP.NewPactHandler(pactService).RegisterRoutes(protected)
		adapterHTTP.NewStatsHandler(statsService).RegisterRoutes(protected)
	}

	f.router = r
	return f
}

func (f *fixture) do(t *testing.T, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) seedUser(t *testing.T, id, email string) *domain.User {
	t.Helper()

	u, err := domain.NewUser(id, email, "Test User")
	if err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	if err := u.SetPassword("password123"); err != nil {
		t.Fatalf("setting password: %v", err)
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("storing user: %v", err)
	}
	return u
}

func (f *fixture) seedTask(t *testing.T, userID, title string) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(userID, title, domain.CategoryHealth, 2)
	if err != nil {
		t.Fatalf("seeding task: %v", err)
	}
	f.tasks.store[task.ID] = task
	return task
}

func (f *fixture) seedGoal(t *testing.T, userID, title string) *domain.Goal {
	t.Helper()

	goal, err := domain.NewGoal(userID, title, domain.CategoryLearning, domain.TimeframeQuarterly)
	if err != nil {
		t.Fatalf("seeding goal: %v", err)
	}
	f.goals.store[goal.ID] = goal
	return goal
}
