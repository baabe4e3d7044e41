package store

import (
	"database/sql"
	"fmt"

	"choreboard/internal/model"
)

type PrizeStore struct {
	db *sql.DB
}

func NewPrizeStore(db *sql.DB) *PrizeStore {
	return &PrizeStore{db: db}
}

func scanPrize(scanner interface{ Scan(...any) error }) (*model.Prize, error) {
	var p model.Prize
	var childID sql.NullInt64
	var dateAwarded sql.NullString

	err := scanner.Scan(
		&p.ID, &p.HouseholdID, &childID, &p.Name,
		&p.PointsRequired, &p.PointsAwarded, &dateAwarded,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if childID.Valid {
		p.ChildID = &childID.Int64
	}
	if dateAwarded.Valid {
		p.DateAwarded = &dateAwarded.String
	}
	return &p, nil
}

const prizeCols = `id, household_id, child_id, name, points_required, points_awarded, date_awarded, created_at, updated_at`

func (s *PrizeStore) Create(householdID int64, childID *int64, name string, pointsRequired int) (*model.Prize, error) {
	result, err := s.db.Exec(
		`INSERT INTO prizes (household_id, child_id, name, points_required) VALUES (?, ?, ?, ?)`,
		householdID, nullInt64(childID), name, pointsRequired,
	)
	if err != nil {
		return nil, fmt.Errorf("insert prize: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *PrizeStore) GetByID(id int64) (*model.Prize, error) {
	row := s.db.QueryRow(`SELECT `+prizeCols+` FROM prizes WHERE id = ?`, id)
	p, err := scanPrize(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get prize: %w", err)
	}
	return p, nil
}

// ListByHousehold returns the household's prizes. When childID is set,
// the list narrows to that child's redeemable prizes: ones scoped to
// them plus household-wide ones.
func (s *PrizeStore) ListByHousehold(householdID int64, childID *int64) ([]model.Prize, error) {
	query := `SELECT ` + prizeCols + ` FROM prizes WHERE household_id = ?`
	args := []any{householdID}
	if childID != nil {
		query += ` AND (child_id = ? OR child_id IS NULL)`
		args = append(args, *childID)
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list prizes: %w", err)
	}
	defer rows.Close()

	var prizes []model.Prize
	for rows.Next() {
		p, err := scanPrize(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prize: %w", err)
		}
		prizes = append(prizes, *p)
	}
	return prizes, rows.Err()
}

func (s *PrizeStore) Update(id int64, name string, pointsRequired int, childID *int64, dateAwarded *string) (*model.Prize, error) {
	result, err := s.db.Exec(
		`UPDATE prizes SET name = ?, points_required = ?, child_id = ?, date_awarded = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, pointsRequired, nullInt64(childID), nullString(dateAwarded), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update prize: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(id)
}

func (s *PrizeStore) Delete(id int64) error {
	result, err := s.db.Exec(`DELETE FROM prizes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete prize: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
