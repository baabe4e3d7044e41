package recurrence

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRule reports a recurrence payload that cannot be expanded:
// unknown frequency, missing selector, empty child set, bad dates.
// Callers should treat it as a validation failure and abort chore
// creation before anything is written.
var ErrInvalidRule = errors.New("invalid recurrence rule")

type Frequency int

const (
	Daily Frequency = iota
	Weekly
	BiWeekly
	Monthly
)

var freqNames = map[Frequency]string{
	Daily:    "daily",
	Weekly:   "weekly",
	BiWeekly: "bi-weekly",
	Monthly:  "monthly",
}

var freqFromName = map[string]Frequency{
	"daily":     Daily,
	"weekly":    Weekly,
	"bi-weekly": BiWeekly,
	"monthly":   Monthly,
}

func (f Frequency) String() string { return freqNames[f] }

// DateLayout is the calendar-date wire format used throughout:
// assignments, birth dates, end dates.
const DateLayout = "2006-01-02"

// Rule is a validated recurring schedule: how often, starting when,
// on which day, for which children. Built from the JSON payload via
// ParseRule so every Rule in circulation is well-formed.
type Rule struct {
	Frequency  Frequency
	StartDate  time.Time
	Children   []int64
	DayOfWeek  time.Weekday // weekly and bi-weekly only
	DayOfMonth int          // monthly only
}

// wire format of the recurring_details payload
type ruleJSON struct {
	Frequency  string  `json:"frequency"`
	Children   []int64 `json:"children"`
	StartDate  string  `json:"start_date"`
	DayOfWeek  *int    `json:"day_of_week,omitempty"`
	DayOfMonth *int    `json:"day_of_month,omitempty"`
}

// ParseRule parses and validates a recurring_details JSON payload.
// All errors wrap ErrInvalidRule.
func ParseRule(raw []byte) (Rule, error) {
	var w ruleJSON
	if err := json.Unmarshal(raw, &w); err != nil {
		return Rule{}, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	freq, ok := freqFromName[w.Frequency]
	if !ok {
		return Rule{}, fmt.Errorf("%w: unknown frequency %q", ErrInvalidRule, w.Frequency)
	}

	if len(w.Children) == 0 {
		return Rule{}, fmt.Errorf("%w: children must not be empty", ErrInvalidRule)
	}

	start, err := time.Parse(DateLayout, w.StartDate)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: start_date %q", ErrInvalidRule, w.StartDate)
	}

	r := Rule{
		Frequency: freq,
		StartDate: start,
		Children:  w.Children,
	}

	switch freq {
	case Weekly, BiWeekly:
		if w.DayOfWeek == nil {
			return Rule{}, fmt.Errorf("%w: day_of_week is required for %s", ErrInvalidRule, freq)
		}
		if *w.DayOfWeek < 0 || *w.DayOfWeek > 6 {
			return Rule{}, fmt.Errorf("%w: day_of_week %d out of range", ErrInvalidRule, *w.DayOfWeek)
		}
		r.DayOfWeek = time.Weekday(*w.DayOfWeek)
	case Monthly:
		if w.DayOfMonth == nil {
			return Rule{}, fmt.Errorf("%w: day_of_month is required for monthly", ErrInvalidRule)
		}
		if *w.DayOfMonth < 1 || *w.DayOfMonth > 31 {
			return Rule{}, fmt.Errorf("%w: day_of_month %d out of range", ErrInvalidRule, *w.DayOfMonth)
		}
		r.DayOfMonth = *w.DayOfMonth
	}

	return r, nil
}

// MarshalJSON re-serializes the rule in the wire format it was parsed
// from, so the stored recurring_details column round-trips.
func (r Rule) MarshalJSON() ([]byte, error) {
	w := ruleJSON{
		Frequency: r.Frequency.String(),
		Children:  r.Children,
		StartDate: r.StartDate.Format(DateLayout),
	}
	switch r.Frequency {
	case Weekly, BiWeekly:
		d := int(r.DayOfWeek)
		w.DayOfWeek = &d
	case Monthly:
		d := r.DayOfMonth
		w.DayOfMonth = &d
	}
	return json.Marshal(w)
}
