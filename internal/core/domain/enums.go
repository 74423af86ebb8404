package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidPriority   = errors.New("invalid priority tier (must be 1-3)")
	ErrInvalidCategory   = errors.New("invalid goal category")
	ErrInvalidTimeframe  = errors.New("invalid timeframe bucket")
	ErrInvalidDifficulty = errors.New("invalid boss difficulty")
	ErrInvalidRecurrence = errors.New("invalid recurrence rule")
	ErrInvalidPowerUp    = errors.New("invalid power-up type")
)

type Category string

const (
	CategoryHealth   Category = "health"
	CategoryCareer   Category = "career"
	CategoryLearning Category = "learning"
	CategoryFinance  Category = "finance"
	CategoryCreative Category = "creative"
	CategorySocial   Category = "social"
	CategoryPersonal Category = "personal"
)

// ParseCategory rejects unknown values instead of substituting a default,
// so corrupted rows surface at the API boundary.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryHealth, CategoryCareer, CategoryLearning, CategoryFinance,
		CategoryCreative, CategorySocial, CategoryPersonal:
		return Category(s), nil
	}
	return "", ErrInvalidCategory
}

type Timeframe string

const (
	TimeframeWeekly    Timeframe = "weekly"
	TimeframeMonthly   Timeframe = "monthly"
	TimeframeQuarterly Timeframe = "quarterly"
	TimeframeYearly    Timeframe = "yearly"
)

func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TimeframeWeekly, TimeframeMonthly, TimeframeQuarterly, TimeframeYearly:
		return Timeframe(s), nil
	}
	return "", ErrInvalidTimeframe
}

type Difficulty string

const (
	DifficultyNormal    Difficulty = "normal"
	DifficultyHard      Difficulty = "hard"
	DifficultyNightmare Difficulty = "nightmare"
)

func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyNormal, DifficultyHard, DifficultyNightmare:
		return Difficulty(s), nil
	}
	return "", ErrInvalidDifficulty
}

// Multiplier scales a boss base health pool at creation time.
func (d Difficulty) Multiplier() float64 {
	switch d {
	case DifficultyHard:
		return 1.5
	case DifficultyNightmare:
		return 2.0
	default:
		return 1.0
	}
}

type RecurrenceRule string

const (
	RecurrenceNone     RecurrenceRule = "none"
	RecurrenceDaily    RecurrenceRule = "daily"
	RecurrenceWeekdays RecurrenceRule = "weekdays"
	RecurrenceWeekly   RecurrenceRule = "weekly"
	RecurrenceBiweekly RecurrenceRule = "biweekly"
	RecurrenceMonthly  RecurrenceRule = "monthly"
	RecurrenceCustom   RecurrenceRule = "custom"
)

func ParseRecurrenceRule(s string) (RecurrenceRule, error) {
	if s == "" {
		return RecurrenceNone, nil
	}
	switch RecurrenceRule(s) {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekdays, RecurrenceWeekly,
		RecurrenceBiweekly, RecurrenceMonthly, RecurrenceCustom:
		return RecurrenceRule(s), nil
	}
	return "", ErrInvalidRecurrence
}

type PowerUpType string

const (
	PowerUpDoubleXP     PowerUpType = "double_xp"
	PowerUpStreakShield PowerUpType = "streak_shield"
	PowerUpFocusBoost   PowerUpType = "focus_boost"
	PowerUpTimeFreeze   PowerUpType = "time_freeze"
)

func ParsePowerUpType(s string) (PowerUpType, error) {
	switch PowerUpType(s) {
	case PowerUpDoubleXP, PowerUpStreakShield, PowerUpFocusBoost, PowerUpTimeFreeze:
		return PowerUpType(s), nil
	}
	return "", ErrInvalidPowerUp
}

// Duration is the fixed activation window for the type.
func (t PowerUpType) Duration() time.Duration {
	switch t {
	case PowerUpDoubleXP:
		return 1 * time.Hour
	case PowerUpStreakShield:
		return 24 * time.Hour
	case PowerUpFocusBoost:
		return 30 * time.Minute
	case PowerUpTimeFreeze:
		return 12 * time.Hour
	default:
		return 1 * time.Hour
	}
}

// MaxQuantity is the inventory cap per type.
func (t PowerUpType) MaxQuantity() int {
	return 3
}

type ChallengeKind string

const (
	ChallengeGoalSprint    ChallengeKind = "goal_sprint"
	ChallengeTaskCount     ChallengeKind = "task_count"
	ChallengeEarlyBird     ChallengeKind = "early_bird"
	ChallengeFocusDuration ChallengeKind = "focus_duration"
	ChallengeStreakKeeper  ChallengeKind = "streak_keeper"
	ChallengeMomentum      ChallengeKind = "momentum"
)
