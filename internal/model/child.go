package model

import "time"

// Child belongs to one household. Points is a running display counter
// bumped at completion time; prize progress is tracked separately on
// each prize row.
type Child struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	FirstName   string    `json:"first_name"`
	BirthDate   string    `json:"birth_date"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
