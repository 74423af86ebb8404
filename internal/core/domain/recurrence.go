package domain

import (
	"sort"
	"time"
)

// customScanWindow bounds the forward day-by-day scan for custom rules.
const customScanWindow = 7

// NextOccurrence computes the next occurrence after base for the given rule.
// The boolean is false when the rule yields no next occurrence (RecurrenceNone,
// or a custom set with no matching weekday within the scan window).
func NextOccurrence(rule RecurrenceRule, days []int, base time.Time) (time.Time, bool) {
	switch rule {
	case RecurrenceDaily:
		return base.AddDate(0, 0, 1), true

	case RecurrenceWeekdays:
		next := base.AddDate(0, 0, 1)
		switch next.Weekday() {
		case time.Saturday:
			next = next.AddDate(0, 0, 2)
		case time.Sunday:
			next = next.AddDate(0, 0, 1)
		}
		return next, true

	case RecurrenceWeekly:
		return base.AddDate(0, 0, 7), true

	case RecurrenceBiweekly:
		return base.AddDate(0, 0, 14), true

	case RecurrenceMonthly:
		return base.AddDate(0, 1, 0), true

	case RecurrenceCustom:
		if len(days) == 0 {
			return time.Time{}, false
		}
		wanted := make(map[int]bool, len(days))
		for _, d := range days {
			wanted[d] = true
		}
		candidate := base
		for i := 0; i < customScanWindow; i++ {
			candidate = candidate.AddDate(0, 0, 1)
			if wanted[int(candidate.Weekday())] {
				return candidate, true
			}
		}
		return time.Time{}, false
	}

	return time.Time{}, false
}

// NextOccurrenceDate resolves the base date from completion state: a
// completed task recurs from its completion date, an open one from now.
func (t *Task) NextOccurrenceDate(now time.Time) (time.Time, bool) {
	base := now
	if t.CompletedAt != nil {
		base = *t.CompletedAt
	}
	return NextOccurrence(t.Recurrence, t.RecurrenceDays, base)
}

// SpawnNext generates the successor instance of a recurring task. It refuses
// once the computed next date exceeds the recurrence end date. The successor
// links back to the origin and inherits estimate, category and rule with
// completion state reset.
func (t *Task) SpawnNext(now time.Time) (*Task, error) {
	if t.Recurrence == RecurrenceNone {
		return nil, ErrTaskNotRecurring
	}

	nextDate, ok := t.NextOccurrenceDate(now)
	if !ok {
		return nil, ErrTaskNotRecurring
	}
	if t.RecurrenceEndsAt != nil && nextDate.After(*t.RecurrenceEndsAt) {
		return nil, nil
	}

	next, err := NewTask(t.UserID, t.Title, t.Category, t.Priority)
	if err != nil {
		return nil, err
	}

	parentID := t.ID
	if t.ParentTaskID != nil {
		parentID = *t.ParentTaskID
	}

	next.GoalID = t.GoalID
	next.Notes = t.Notes
	next.AIProcessed = t.AIProcessed
	next.AILabel = t.AILabel
	next.EstimatedMinutes = t.EstimatedMinutes
	next.ScheduledAt = &nextDate
	next.Recurrence = t.Recurrence
	next.RecurrenceDays = normalizeRecurrenceDays(t.RecurrenceDays)
	next.RecurrenceEndsAt = t.RecurrenceEndsAt
	next.ParentTaskID = &parentID

	return next, nil
}

func normalizeRecurrenceDays(days []int) []int {
	if len(days) == 0 {
		return nil
	}

	seen := make(map[int]bool)
	var unique []int
	for _, d := range days {
		if d < 0 || d > 6 {
			continue
		}
		if !seen[d] {
			seen[d] = true
			unique = append(unique, d)
		}
	}

	sort.Ints(unique)
	return unique
}
