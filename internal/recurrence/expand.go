package recurrence

import (
	"math/rand"
	"time"
)

// Assignment is a single generated obligation: one child owes the
// chore on one calendar date. The chore id is stamped when the batch
// is persisted alongside its chore row.
type Assignment struct {
	ChildID int64
	Date    time.Time
}

// Expand generates every assignment the rule produces, in ascending
// date order, walking day by day from the rule's start date through
// the horizon inclusive.
//
// The horizon is endDate when set. When absent it is one year from
// now — anchored to the current date, not the rule's start date, so a
// chore backdated six months still generates eighteen months of
// assignments. That matches the behavior households have relied on;
// see DESIGN.md before changing it.
//
// Each hit draws one child uniformly at random from the eligible set.
// Draws are independent per day: the same child can be picked on
// consecutive hits and no child is guaranteed a turn. The rng is
// injected so schedules are reproducible under test.
func Expand(rule Rule, endDate *time.Time, now time.Time, rng *rand.Rand) []Assignment {
	horizon := dateOnly(now).AddDate(1, 0, 0)
	if endDate != nil {
		horizon = dateOnly(*endDate)
	}

	var out []Assignment
	for day := dateOnly(rule.StartDate); !day.After(horizon); day = day.AddDate(0, 0, 1) {
		if !rule.matches(day) {
			continue
		}
		child := rule.Children[rng.Intn(len(rule.Children))]
		out = append(out, Assignment{ChildID: child, Date: day})
	}
	return out
}

// matches reports whether the rule fires on the given day.
func (r Rule) matches(day time.Time) bool {
	switch r.Frequency {
	case Daily:
		return true
	case Weekly:
		return day.Weekday() == r.DayOfWeek
	case BiWeekly:
		// Weekday match on an even week counted from the start date.
		return day.Weekday() == r.DayOfWeek && weeksSince(r.StartDate, day)%2 == 0
	case Monthly:
		// No clamping: day_of_month=31 simply skips 30-day months.
		return day.Day() == r.DayOfMonth
	}
	return false
}

func weeksSince(start, day time.Time) int {
	days := int(dateOnly(day).Sub(dateOnly(start)).Hours() / 24)
	return days / 7
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
