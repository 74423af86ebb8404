package domain

import "time"

// MomentumStats is the aggregate progress snapshot the client dashboard and
// widgets render.
type MomentumStats struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	TasksCompleted int `json:"tasks_completed"`
	PointsEarned   int `json:"points_earned"`

	ActiveGoals     int     `json:"active_goals"`
	AvgGoalProgress float64 `json:"avg_goal_progress"`
	LongestStreak   int     `json:"longest_streak"`

	BossDefeated     bool `json:"boss_defeated"`
	ChallengesDone   int  `json:"challenges_done"`
	ChallengesActive int  `json:"challenges_active"`
}

type StatsInput struct {
	UserID    string
	StartDate time.Time
	EndDate   time.Time
}
