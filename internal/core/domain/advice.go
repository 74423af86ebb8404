package domain

import "fmt"

// TaskAdvice is the coaching response shape, whether produced remotely or by
// the local fallback generator.
type TaskAdvice struct {
	Overview        string   `json:"overview"`
	KeyPoints       []string `json:"key_points"`
	ActionableSteps []string `json:"actionable_steps"`
	Obstacles       []string `json:"obstacles,omitempty"`
	TimeEstimate    *string  `json:"time_estimate,omitempty"`
	Reasoning       *string  `json:"reasoning,omitempty"`
}

// FallbackAdvice produces a static strategy keyed by task category, used when
// the remote advice API is unavailable or returns garbage.
func FallbackAdvice(t *Task) *TaskAdvice {
	advice := &TaskAdvice{
		Overview: "Break \"" + t.Title + "\" into small, concrete moves and start with the easiest one.",
		KeyPoints: []string{
			"Momentum beats motivation: starting is the hard part",
			"Timebox the first session to 25 minutes",
		},
		ActionableSteps: []string{
			"Write down the very first physical action",
			"Remove one distraction before starting",
			"Do a single focused session, then reassess",
		},
	}

	switch t.Category {
	case CategoryHealth:
		advice.KeyPoints = append(advice.KeyPoints, "Consistency matters more than intensity")
		advice.ActionableSteps = append(advice.ActionableSteps, "Schedule it at the same time tomorrow")
	case CategoryCareer, CategoryLearning:
		advice.KeyPoints = append(advice.KeyPoints, "Ship something reviewable, not something perfect")
		advice.Obstacles = []string{"Perfectionism", "Context switching"}
	case CategoryFinance:
		advice.ActionableSteps = append(advice.ActionableSteps, "Automate the recurring part if possible")
	case CategoryCreative:
		advice.KeyPoints = append(advice.KeyPoints, "Quantity of drafts drives quality")
		advice.Obstacles = []string{"The blank page"}
	}

	if t.EstimatedMinutes > 0 {
		est := formatMinutes(t.EstimatedMinutes)
		advice.TimeEstimate = &est
	}

	return advice
}

// formatMinutes renders a duration estimate as "45 min" or "1 h 30 min".
func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%d h", h)
	}
	return fmt.Sprintf("%d h %d min", h, m)
}
