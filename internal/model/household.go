package model

import "time"

// Household is the top-level account. Everything else — children,
// chores, assignments, prizes — belongs to exactly one household and is
// removed when the household is deleted.
type Household struct {
	ID           int64     `json:"id"`
	Name         string    `json:"household_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PIN          int       `json:"pin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
