package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"choreboard/internal/model"
	"choreboard/internal/recurrence"
)

type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var recurring int
	var frequency sql.NullString
	var details sql.NullString
	var endDate sql.NullString

	err := scanner.Scan(
		&c.ID, &c.HouseholdID, &c.Name, &c.Description, &c.Points,
		&recurring, &frequency, &details, &endDate,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Recurring = recurring != 0
	if frequency.Valid {
		c.Frequency = &frequency.String
	}
	if details.Valid {
		c.RecurringDetails = json.RawMessage(details.String)
	}
	if endDate.Valid {
		c.EndDate = &endDate.String
	}
	return &c, nil
}

const choreCols = `id, household_id, name, description, points, recurring, frequency, recurring_details, end_date, created_at, updated_at`

// Create inserts a one-off chore. Frequency and recurring_details are
// always NULL for non-recurring chores.
func (s *ChoreStore) Create(householdID int64, name, description string, points int, endDate *string) (*model.Chore, error) {
	result, err := s.db.Exec(
		`INSERT INTO chores (household_id, name, description, points, recurring, end_date) VALUES (?, ?, ?, ?, 0, ?)`,
		householdID, name, description, points, nullString(endDate),
	)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// CreateRecurring inserts a recurring chore together with its expanded
// schedule in a single transaction. Either the chore row and every
// assignment commit, or nothing does — a recurring chore never exists
// half-configured with a partial schedule.
func (s *ChoreStore) CreateRecurring(householdID int64, name, description string, points int, frequency string, details []byte, endDate *string, schedule []recurrence.Assignment) (*model.Chore, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO chores (household_id, name, description, points, recurring, frequency, recurring_details, end_date) VALUES (?, ?, ?, ?, 1, ?, ?, ?)`,
		householdID, name, description, points, frequency, string(details), nullString(endDate),
	)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	choreID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, a := range schedule {
		if _, err := tx.Exec(
			`INSERT INTO chore_assignments (child_id, chore_id, assigned_date) VALUES (?, ?, ?)`,
			a.ChildID, choreID, a.Date.Format(recurrence.DateLayout),
		); err != nil {
			return nil, fmt.Errorf("insert assignment for %s: %w", a.Date.Format(recurrence.DateLayout), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(choreID)
}

func (s *ChoreStore) GetByID(id int64) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

func (s *ChoreStore) ListByHousehold(householdID int64) ([]model.Chore, error) {
	rows, err := s.db.Query(
		`SELECT `+choreCols+` FROM chores WHERE household_id = ? ORDER BY name ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

// Update rewrites a chore's fields. When recurring is false, frequency
// and recurring_details are forced to NULL regardless of what the
// caller passes.
func (s *ChoreStore) Update(id int64, name, description string, points int, recurring bool, frequency *string, details []byte, endDate *string) (*model.Chore, error) {
	var rec int
	var freq sql.NullString
	var det sql.NullString
	if recurring {
		rec = 1
		if frequency != nil {
			freq = sql.NullString{String: *frequency, Valid: true}
		}
		if details != nil {
			det = sql.NullString{String: string(details), Valid: true}
		}
	}

	result, err := s.db.Exec(
		`UPDATE chores SET name = ?, description = ?, points = ?, recurring = ?, frequency = ?, recurring_details = ?, end_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, description, points, rec, freq, det, nullString(endDate), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update chore: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(id)
}

func (s *ChoreStore) Delete(id int64) error {
	result, err := s.db.Exec(`DELETE FROM chores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
