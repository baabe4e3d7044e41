package store

import (
	"database/sql"
	"fmt"

	"choreboard/internal/model"
)

type AssignmentStore struct {
	db *sql.DB
}

func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

func scanAssignment(scanner interface{ Scan(...any) error }) (*model.ChoreAssignment, error) {
	var a model.ChoreAssignment
	var completed int
	err := scanner.Scan(&a.ID, &a.ChildID, &a.ChoreID, &a.AssignedDate, &completed, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Completed = completed != 0
	return &a, nil
}

const assignmentCols = `id, child_id, chore_id, assigned_date, completed, created_at`

func (s *AssignmentStore) Create(childID, choreID int64, assignedDate string) (*model.ChoreAssignment, error) {
	result, err := s.db.Exec(
		`INSERT INTO chore_assignments (child_id, chore_id, assigned_date) VALUES (?, ?, ?)`,
		childID, choreID, assignedDate,
	)
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *AssignmentStore) GetByID(id int64) (*model.ChoreAssignment, error) {
	row := s.db.QueryRow(`SELECT `+assignmentCols+` FROM chore_assignments WHERE id = ?`, id)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

// ListByChore returns a chore's assignments in ascending date order.
func (s *AssignmentStore) ListByChore(choreID int64) ([]model.ChoreAssignment, error) {
	rows, err := s.db.Query(
		`SELECT `+assignmentCols+` FROM chore_assignments WHERE chore_id = ? ORDER BY assigned_date ASC`,
		choreID,
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments by chore: %w", err)
	}
	defer rows.Close()

	var assignments []model.ChoreAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

// ListByHousehold returns every assignment in the household joined to
// its child and chore names.
func (s *AssignmentStore) ListByHousehold(householdID int64) ([]model.AssignmentDetail, error) {
	rows, err := s.db.Query(
		`SELECT ca.id, c.first_name, ch.name, ca.assigned_date
		 FROM chore_assignments ca
		 JOIN children c ON ca.child_id = c.id
		 JOIN chores ch ON ca.chore_id = ch.id
		 WHERE c.household_id = ?
		 ORDER BY ca.assigned_date ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var details []model.AssignmentDetail
	for rows.Next() {
		var d model.AssignmentDetail
		if err := rows.Scan(&d.ID, &d.ChildName, &d.ChoreName, &d.AssignedDate); err != nil {
			return nil, fmt.Errorf("scan assignment detail: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// ListForDate returns the household's incomplete assignments dated the
// given calendar date, joined to chore and child.
func (s *AssignmentStore) ListForDate(householdID int64, date string) ([]model.TodayChore, error) {
	rows, err := s.db.Query(
		`SELECT ca.id, ch.name, c.first_name, ch.points, ca.assigned_date, ca.completed
		 FROM chore_assignments ca
		 JOIN chores ch ON ca.chore_id = ch.id
		 JOIN children c ON ca.child_id = c.id
		 WHERE ca.assigned_date = ? AND ch.household_id = ? AND ca.completed = 0
		 ORDER BY ch.name ASC`,
		date, householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments for date: %w", err)
	}
	defer rows.Close()

	var today []model.TodayChore
	for rows.Next() {
		var t model.TodayChore
		var completed int
		if err := rows.Scan(&t.AssignmentID, &t.ChoreName, &t.ChildName, &t.Points, &t.AssignedDate, &completed); err != nil {
			return nil, fmt.Errorf("scan today chore: %w", err)
		}
		t.Completed = completed != 0
		today = append(today, t)
	}
	return today, rows.Err()
}

func (s *AssignmentStore) Update(id, childID, choreID int64, assignedDate string) (*model.ChoreAssignment, error) {
	result, err := s.db.Exec(
		`UPDATE chore_assignments SET child_id = ?, chore_id = ?, assigned_date = ? WHERE id = ?`,
		childID, choreID, assignedDate, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update assignment: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(id)
}

func (s *AssignmentStore) Delete(id int64) error {
	result, err := s.db.Exec(`DELETE FROM chore_assignments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CompletionResult reports what a settlement credited.
type CompletionResult struct {
	AssignmentID int64
	ChoreID      int64
	ChildID      int64
	HouseholdID  int64
	Points       int
}

// Complete marks an assignment complete and credits its chore's point
// value, all in one transaction:
//
//  1. load the assignment joined to its chore (ErrNotFound if missing)
//  2. flip completed, guarded so a second completer gets
//     ErrAlreadyCompleted instead of re-crediting
//  3. bump points_awarded on every prize in the household that is
//     household-wide or scoped to the completing child
//  4. bump the child's running points display counter
//
// Nothing is written unless every step succeeds.
func (s *AssignmentStore) Complete(id int64) (*CompletionResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var res CompletionResult
	var completed int
	res.AssignmentID = id
	err = tx.QueryRow(
		`SELECT ca.child_id, ca.chore_id, ca.completed, ch.points, ch.household_id
		 FROM chore_assignments ca
		 JOIN chores ch ON ca.chore_id = ch.id
		 WHERE ca.id = ?`,
		id,
	).Scan(&res.ChildID, &res.ChoreID, &completed, &res.Points, &res.HouseholdID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load assignment: %w", err)
	}

	result, err := tx.Exec(
		`UPDATE chore_assignments SET completed = 1 WHERE id = ? AND completed = 0`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("mark complete: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		// The guarded update touched nothing: either the row was
		// already complete when we loaded it, or it was deleted
		// between the lookup and the update.
		if completed != 0 {
			return nil, ErrAlreadyCompleted
		}
		return nil, ErrNotFound
	}

	if _, err := tx.Exec(
		`UPDATE prizes SET points_awarded = points_awarded + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE household_id = ? AND (child_id = ? OR child_id IS NULL)`,
		res.Points, res.HouseholdID, res.ChildID,
	); err != nil {
		return nil, fmt.Errorf("credit prizes: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE children SET points = points + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		res.Points, res.ChildID,
	); err != nil {
		return nil, fmt.Errorf("credit child points: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &res, nil
}
