package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrBossNotFound = errors.New("boss not found")

// Category-themed boss appearances with a single catch-all default.
var bossThemes = map[Category]string{
	CategoryHealth:   "The Sloth of Stagnation",
	CategoryCareer:   "The Deadline Hydra",
	CategoryLearning: "The Fog of Forgetting",
	CategoryFinance:  "The Debt Golem",
	CategoryCreative: "The Blank Page Wraith",
	CategorySocial:   "The Isolation Shade",
}

const defaultBossTheme = "The Procrastination Titan"

// BossThemeFor maps a goal category to its themed appearance.
func BossThemeFor(category Category) string {
	if theme, ok := bossThemes[category]; ok {
		return theme
	}
	return defaultBossTheme
}

type WeeklyBoss struct {
	ID     string  `json:"id" db:"id"`
	UserID string  `json:"user_id" db:"user_id"`
	GoalID *string `json:"goal_id,omitempty" db:"goal_id"`

	Name       string     `json:"name" db:"name"`
	Difficulty Difficulty `json:"difficulty" db:"difficulty"`

	TotalHealth   int `json:"total_health" db:"total_health"`
	CurrentHealth int `json:"current_health" db:"current_health"`
	TotalDamage   int `json:"total_damage" db:"total_damage"`

	// CriticalHits counts milestone completions, TaskHits regular tasks.
	CriticalHits int `json:"critical_hits" db:"critical_hits"`
	TaskHits     int `json:"task_hits" db:"task_hits"`

	XPReward int `json:"xp_reward" db:"xp_reward"`

	WeekStart time.Time `json:"week_start" db:"week_start"`
	WeekEnd   time.Time `json:"week_end" db:"week_end"`

	IsDefeated bool       `json:"is_defeated" db:"is_defeated"`
	DefeatedAt *time.Time `json:"defeated_at,omitempty" db:"defeated_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewWeeklyBoss derives health from the base pool times the difficulty
// multiplier at creation time; it is immutable afterwards except via damage.
func NewWeeklyBoss(userID string, goalID *string, category Category, difficulty Difficulty, baseHealth, baseXP int, weekStart time.Time) *WeeklyBoss {
	weekStart = weekStart.UTC()
	health := int(float64(baseHealth) * difficulty.Multiplier())
	xp := int(float64(baseXP) * difficulty.Multiplier())

	return &WeeklyBoss{
		ID:            uuid.NewString(),
		UserID:        userID,
		GoalID:        goalID,
		Name:          BossThemeFor(category),
		Difficulty:    difficulty,
		TotalHealth:   health,
		CurrentHealth: health,
		XPReward:      xp,
		WeekStart:     weekStart,
		WeekEnd:       weekStart.AddDate(0, 0, 7),
		CreatedAt:     weekStart,
		UpdatedAt:     weekStart,
	}
}

// DealDamage applies a regular task hit.
func (b *WeeklyBoss) DealDamage(n int, now time.Time) {
	b.TaskHits++
	b.applyDamage(n, now)
}

// DealCriticalHit applies a milestone-completion hit.
func (b *WeeklyBoss) DealCriticalHit(n int, now time.Time) {
	b.CriticalHits++
	b.applyDamage(n, now)
}

// applyDamage floors health at 0 and records the single active->defeated
// transition the first time health reaches zero.
func (b *WeeklyBoss) applyDamage(n int, now time.Time) {
	if n < 0 {
		n = 0
	}

	b.TotalDamage += n
	b.CurrentHealth -= n
	if b.CurrentHealth < 0 {
		b.CurrentHealth = 0
	}
	b.UpdatedAt = now.UTC()

	if b.CurrentHealth == 0 && !b.IsDefeated {
		b.IsDefeated = true
		ts := now.UTC()
		b.DefeatedAt = &ts
	}
}

// IsExpired reports whether the week ended with the boss still standing.
func (b *WeeklyBoss) IsExpired(now time.Time) bool {
	return !b.IsDefeated && now.After(b.WeekEnd)
}

// BonusXP rewards speed, criticals and overkill after defeat. Zero until the
// boss is actually down.
func (b *WeeklyBoss) BonusXP() int {
	if !b.IsDefeated || b.DefeatedAt == nil {
		return 0
	}

	bonus := 0

	days := b.DefeatedAt.Sub(b.WeekStart).Hours() / 24
	switch {
	case days < 3:
		bonus += 50
	case days < 5:
		bonus += 25
	}

	bonus += b.CriticalHits * 10

	overkill := b.TotalDamage - b.TotalHealth
	if overkill > 0 {
		overkillBonus := overkill * 5
		if overkillBonus > 100 {
			overkillBonus = 100
		}
		bonus += overkillBonus
	}

	return bonus
}
