package domain_test

import (
	"testing"
	"time"

	"github.com/strivehq/strive-engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewWeeklyBoss(t *testing.T) {
	weekStart := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	t.Run("Health scales with difficulty multiplier at creation", func(t *testing.T) {
		normal := domain.NewWeeklyBoss("u1", nil, domain.CategoryCareer, domain.DifficultyNormal, 100, 150, weekStart)
		hard := domain.NewWeeklyBoss("u1", nil, domain.CategoryCareer, domain.DifficultyHard, 100, 150, weekStart)
		nightmare := domain.NewWeeklyBoss("u1", nil, domain.CategoryCareer, domain.DifficultyNightmare, 100, 150, weekStart)

		assert.Equal(t, 100, normal.TotalHealth)
		assert.Equal(t, 150, hard.TotalHealth)
		assert.Equal(t, 200, nightmare.TotalHealth)
		assert.Equal(t, nightmare.TotalHealth, nightmare.CurrentHealth)
		assert.Equal(t, 300, nightmare.XPReward)
	})

	t.Run("Theme derives from category with a catch-all default", func(t *testing.T) {
		career := domain.NewWeeklyBoss("u1", nil, domain.CategoryCareer, domain.DifficultyNormal, 50, 100, weekStart)
		unknown := domain.NewWeeklyBoss("u1", nil, domain.Category("whatever"), domain.DifficultyNormal, 50, 100, weekStart)

		assert.Equal(t, "The Deadline Hydra", career.Name)
		assert.Equal(t, "The Procrastination Titan", unknown.Name)
	})

	t.Run("Week spans 7 days", func(t *testing.T) {
		boss := domain.NewWeeklyBoss("u1", nil, domain.CategoryHealth, domain.DifficultyNormal, 50, 100, weekStart)
		assert.Equal(t, weekStart.AddDate(0, 0, 7), boss.WeekEnd)
	})
}

func TestWeeklyBoss_Damage(t *testing.T) {
	weekStart := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	now := weekStart.Add(24 * time.Hour)

	newBoss := func() *domain.WeeklyBoss {
		return domain.NewWeeklyBoss("u1", nil, domain.CategoryHealth, domain.DifficultyNormal, 100, 150, weekStart)
	}

	t.Run("Damage reduces health and increments hit counters", func(t *testing.T) {
		boss := newBoss()

		boss.DealDamage(30, now)
		boss.DealCriticalHit(20, now)

		assert.Equal(t, 50, boss.CurrentHealth)
		assert.Equal(t, 50, boss.TotalDamage)
		assert.Equal(t, 1, boss.TaskHits)
		assert.Equal(t, 1, boss.CriticalHits)
		assert.False(t, boss.IsDefeated)
	})

	t.Run("Health is monotonically non-increasing and floors at zero", func(t *testing.T) {
		boss := newBoss()
		prev := boss.CurrentHealth

		for i := 0; i < 10; i++ {
			boss.DealDamage(17, now)
			assert.LessOrEqual(t, boss.CurrentHealth, prev)
			assert.GreaterOrEqual(t, boss.CurrentHealth, 0)
			prev = boss.CurrentHealth
		}

		assert.Equal(t, 0, boss.CurrentHealth)
	})

	t.Run("Negative damage is treated as zero", func(t *testing.T) {
		boss := newBoss()
		boss.DealDamage(-50, now)

		assert.Equal(t, 100, boss.CurrentHealth)
	})

	t.Run("Defeat transition fires exactly once", func(t *testing.T) {
		boss := newBoss()

		boss.DealDamage(100, now)
		assert.True(t, boss.IsDefeated)
		first := *boss.DefeatedAt

		boss.DealCriticalHit(50, now.Add(2*time.Hour))
		assert.True(t, boss.IsDefeated)
		assert.Equal(t, first, *boss.DefeatedAt, "defeat timestamp must not move")
		assert.Equal(t, 0, boss.CurrentHealth)
	})

	t.Run("Expired only when week ended undefeated", func(t *testing.T) {
		boss := newBoss()

		assert.False(t, boss.IsExpired(now))
		assert.True(t, boss.IsExpired(weekStart.AddDate(0, 0, 8)))

		boss.DealDamage(100, now)
		assert.False(t, boss.IsExpired(weekStart.AddDate(0, 0, 8)), "a defeated boss never expires")
	})
}

func TestWeeklyBoss_BonusXP(t *testing.T) {
	weekStart := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	newBoss := func() *domain.WeeklyBoss {
		return domain.NewWeeklyBoss("u1", nil, domain.CategoryHealth, domain.DifficultyNormal, 100, 150, weekStart)
	}

	t.Run("Zero until defeated", func(t *testing.T) {
		boss := newBoss()
		boss.DealDamage(50, weekStart.Add(24*time.Hour))

		assert.Equal(t, 0, boss.BonusXP())
	})

	t.Run("Speed, criticals and overkill stack", func(t *testing.T) {
		boss := newBoss()
		day2 := weekStart.Add(48 * time.Hour)

		boss.DealCriticalHit(40, day2)
		boss.DealCriticalHit(40, day2)
		boss.DealCriticalHit(50, day2) // 130 total damage, 30 overkill

		assert.True(t, boss.IsDefeated)
		// 50 speed (<3 days) + 3 crits * 10 + overkill 30*5 = 150
		assert.Equal(t, 50+30+100, boss.BonusXP(), "overkill bonus caps at 100")
	})

	t.Run("Mid-week defeat earns the smaller speed bonus", func(t *testing.T) {
		boss := newBoss()
		day4 := weekStart.Add(4 * 24 * time.Hour)

		boss.DealDamage(100, day4)

		assert.Equal(t, 25, boss.BonusXP())
	})

	t.Run("Late defeat earns no speed bonus", func(t *testing.T) {
		boss := newBoss()
		day6 := weekStart.Add(6 * 24 * time.Hour)

		boss.DealDamage(100, day6)

		assert.Equal(t, 0, boss.BonusXP())
	})
}
