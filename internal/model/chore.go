package model

import (
	"encoding/json"
	"time"
)

// Chore belongs to one household. For recurring chores Frequency holds
// the tag (daily, weekly, bi-weekly, monthly) and RecurringDetails the
// serialized schedule payload; both are NULL for one-off chores.
type Chore struct {
	ID               int64           `json:"id"`
	HouseholdID      int64           `json:"household_id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Points           int             `json:"points"`
	Recurring        bool            `json:"recurring"`
	Frequency        *string         `json:"frequency"`
	RecurringDetails json.RawMessage `json:"recurring_details,omitempty"`
	EndDate          *string         `json:"end_date"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ChoreAssignment is one dated obligation: this child owes this chore
// on this date. AssignedDate is a bare calendar date (YYYY-MM-DD).
// (child, chore, date) is deliberately not unique; the schedule
// generator's random draw may land on the same child repeatedly.
type ChoreAssignment struct {
	ID           int64     `json:"id"`
	ChildID      int64     `json:"child_id"`
	ChoreID      int64     `json:"chore_id"`
	AssignedDate string    `json:"assigned_date"`
	Completed    bool      `json:"completed"`
	CreatedAt    time.Time `json:"created_at"`
}

// AssignmentDetail is the joined listing row: assignment plus the
// child and chore names for display.
type AssignmentDetail struct {
	ID           int64  `json:"id"`
	ChildName    string `json:"child_name"`
	ChoreName    string `json:"chore_name"`
	AssignedDate string `json:"assigned_date"`
}

// TodayChore is one row of the today view: an incomplete assignment
// dated today, joined to its chore and child.
type TodayChore struct {
	AssignmentID int64  `json:"assignment_id"`
	ChoreName    string `json:"chore_name"`
	ChildName    string `json:"child_name"`
	Points       int    `json:"points"`
	AssignedDate string `json:"assigned_date"`
	Completed    bool   `json:"completed"`
}
