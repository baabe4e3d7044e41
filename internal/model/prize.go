package model

import "time"

// Prize is a point-threshold reward. ChildID nil means household-wide:
// every completed assignment in the household credits it. A child-scoped
// prize only accumulates points from that child's completions.
// PointsAwarded only ever grows; nothing in the settlement path resets it.
type Prize struct {
	ID             int64     `json:"id"`
	HouseholdID    int64     `json:"household_id"`
	ChildID        *int64    `json:"child_id"`
	Name           string    `json:"name"`
	PointsRequired int       `json:"points_required"`
	PointsAwarded  int       `json:"points_awarded"`
	DateAwarded    *string   `json:"date_awarded"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
