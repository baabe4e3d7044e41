package store

import (
	"database/sql"
	"errors"
	"strconv"
	"testing"
	"time"

	"choreboard/internal/database"
	"choreboard/internal/recurrence"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func setupChoreTestDB(t *testing.T) (*ChoreStore, *sql.DB, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	householdID := seedHousehold(t, db, "chores@example.com")
	return NewChoreStore(db), db, householdID
}

func seedChild(t *testing.T, db *sql.DB, householdID int64, name string) int64 {
	t.Helper()
	result, err := db.Exec(
		`INSERT INTO children (household_id, first_name, birth_date) VALUES (?, ?, '2016-04-12')`,
		householdID, name,
	)
	if err != nil {
		t.Fatalf("seed child: %v", err)
	}
	id, _ := result.LastInsertId()
	return id
}

func TestChoreCreateOneOff(t *testing.T) {
	cs, _, hid := setupChoreTestDB(t)

	c, err := cs.Create(hid, "Take out trash", "Bins to the curb", 5, nil)
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}
	if c.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if c.Recurring {
		t.Error("one-off chore marked recurring")
	}
	if c.Frequency != nil {
		t.Errorf("frequency = %v, want nil for one-off chore", *c.Frequency)
	}
	if c.RecurringDetails != nil {
		t.Errorf("recurring_details = %s, want nil for one-off chore", c.RecurringDetails)
	}
	if c.Points != 5 {
		t.Errorf("points = %d, want 5", c.Points)
	}
}

func TestChoreCreateRecurring(t *testing.T) {
	cs, db, hid := setupChoreTestDB(t)
	childID := seedChild(t, db, hid, "Maya")

	details := []byte(`{"frequency":"daily","children":[` + itoa(childID) + `],"start_date":"2024-01-01"}`)
	schedule := []recurrence.Assignment{
		{ChildID: childID, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ChildID: childID, Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{ChildID: childID, Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
	}

	c, err := cs.CreateRecurring(hid, "Feed the cat", "", 3, "daily", details, nil, schedule)
	if err != nil {
		t.Fatalf("create recurring chore: %v", err)
	}
	if !c.Recurring {
		t.Error("recurring chore not marked recurring")
	}
	if c.Frequency == nil || *c.Frequency != "daily" {
		t.Errorf("frequency = %v, want daily", c.Frequency)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM chore_assignments WHERE chore_id = ?`, c.ID).Scan(&count); err != nil {
		t.Fatalf("count assignments: %v", err)
	}
	if count != 3 {
		t.Errorf("got %d assignments, want 3", count)
	}

	var date string
	if err := db.QueryRow(
		`SELECT assigned_date FROM chore_assignments WHERE chore_id = ? ORDER BY assigned_date LIMIT 1`, c.ID,
	).Scan(&date); err != nil {
		t.Fatalf("read first assignment: %v", err)
	}
	if date != "2024-01-01" {
		t.Errorf("first assigned_date = %q, want 2024-01-01", date)
	}
}

func TestChoreCreateRecurringRollsBackOnBadAssignment(t *testing.T) {
	cs, db, hid := setupChoreTestDB(t)
	childID := seedChild(t, db, hid, "Maya")

	// Second assignment references a child that does not exist; the
	// foreign key failure must roll back the chore row too.
	schedule := []recurrence.Assignment{
		{ChildID: childID, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ChildID: 99999, Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	_, err := cs.CreateRecurring(hid, "Doomed", "", 3, "daily", []byte(`{}`), nil, schedule)
	if err == nil {
		t.Fatal("expected error from bad child reference")
	}

	var chores, assignments int
	if err := db.QueryRow(`SELECT COUNT(*) FROM chores`).Scan(&chores); err != nil {
		t.Fatalf("count chores: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM chore_assignments`).Scan(&assignments); err != nil {
		t.Fatalf("count assignments: %v", err)
	}
	if chores != 0 {
		t.Errorf("chore row survived rollback: %d chores", chores)
	}
	if assignments != 0 {
		t.Errorf("assignments survived rollback: %d rows", assignments)
	}
}

func TestChoreGetByID(t *testing.T) {
	cs, _, hid := setupChoreTestDB(t)

	created, err := cs.Create(hid, "Take out trash", "", 5, nil)
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}

	got, err := cs.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get chore: %v", err)
	}
	if got == nil || got.Name != "Take out trash" {
		t.Errorf("got %+v, want Take out trash", got)
	}

	missing, err := cs.GetByID(99999)
	if err != nil {
		t.Fatalf("get missing chore: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing chore, got %+v", missing)
	}
}

func TestChoreListByHousehold(t *testing.T) {
	cs, _, hid := setupChoreTestDB(t)

	for _, name := range []string{"Vacuum", "Dishes"} {
		if _, err := cs.Create(hid, name, "", 2, nil); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	chores, err := cs.ListByHousehold(hid)
	if err != nil {
		t.Fatalf("list chores: %v", err)
	}
	if len(chores) != 2 {
		t.Fatalf("got %d chores, want 2", len(chores))
	}
	if chores[0].Name != "Dishes" {
		t.Errorf("first chore = %q, want name-sorted order", chores[0].Name)
	}
}

func TestChoreUpdateClearsRecurrenceWhenNotRecurring(t *testing.T) {
	cs, db, hid := setupChoreTestDB(t)
	childID := seedChild(t, db, hid, "Maya")

	details := []byte(`{"frequency":"daily","children":[` + itoa(childID) + `],"start_date":"2024-01-01"}`)
	created, err := cs.CreateRecurring(hid, "Feed the cat", "", 3, "daily", details, nil, nil)
	if err != nil {
		t.Fatalf("create recurring chore: %v", err)
	}

	freq := "daily"
	updated, err := cs.Update(created.ID, "Feed the cat", "", 3, false, &freq, details, nil)
	if err != nil {
		t.Fatalf("update chore: %v", err)
	}
	if updated.Recurring {
		t.Error("chore still recurring after update")
	}
	if updated.Frequency != nil {
		t.Errorf("frequency = %q, want nil when recurring is off", *updated.Frequency)
	}
	if updated.RecurringDetails != nil {
		t.Errorf("recurring_details = %s, want nil when recurring is off", updated.RecurringDetails)
	}
}

func TestChoreUpdateMissing(t *testing.T) {
	cs, _, _ := setupChoreTestDB(t)

	if _, err := cs.Update(99999, "X", "", 1, false, nil, nil, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestChoreDeleteCascadesAssignments(t *testing.T) {
	cs, db, hid := setupChoreTestDB(t)
	childID := seedChild(t, db, hid, "Maya")

	created, err := cs.CreateRecurring(hid, "Feed the cat", "", 3, "daily", []byte(`{}`), nil,
		[]recurrence.Assignment{{ChildID: childID, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}},
	)
	if err != nil {
		t.Fatalf("create recurring chore: %v", err)
	}

	if err := cs.Delete(created.ID); err != nil {
		t.Fatalf("delete chore: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM chore_assignments WHERE chore_id = ?`, created.ID).Scan(&count); err != nil {
		t.Fatalf("count assignments: %v", err)
	}
	if count != 0 {
		t.Errorf("%d assignments survived chore delete", count)
	}

	if err := cs.Delete(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing: err = %v, want ErrNotFound", err)
	}
}
