package store

import (
	"database/sql"
	"errors"
	"testing"

	"choreboard/internal/database"
)

func setupPrizeTestDB(t *testing.T) (*PrizeStore, *sql.DB, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	householdID := seedHousehold(t, db, "prizes@example.com")
	return NewPrizeStore(db), db, householdID
}

func TestPrizeCreateHouseholdWide(t *testing.T) {
	ps, _, hid := setupPrizeTestDB(t)

	p, err := ps.Create(hid, nil, "Family pizza night", 50)
	if err != nil {
		t.Fatalf("create prize: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if p.ChildID != nil {
		t.Errorf("child_id = %v, want nil for household-wide prize", *p.ChildID)
	}
	if p.PointsRequired != 50 {
		t.Errorf("points_required = %d, want 50", p.PointsRequired)
	}
	if p.PointsAwarded != 0 {
		t.Errorf("points_awarded = %d, want 0 on creation", p.PointsAwarded)
	}
}

func TestPrizeCreateScoped(t *testing.T) {
	ps, db, hid := setupPrizeTestDB(t)
	childID := seedChild(t, db, hid, "Maya")

	p, err := ps.Create(hid, &childID, "New bike", 200)
	if err != nil {
		t.Fatalf("create prize: %v", err)
	}
	if p.ChildID == nil || *p.ChildID != childID {
		t.Errorf("child_id = %v, want %d", p.ChildID, childID)
	}
}

func TestPrizeGetByID(t *testing.T) {
	ps, _, hid := setupPrizeTestDB(t)

	created, err := ps.Create(hid, nil, "Family pizza night", 50)
	if err != nil {
		t.Fatalf("create prize: %v", err)
	}

	got, err := ps.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get prize: %v", err)
	}
	if got == nil || got.Name != "Family pizza night" {
		t.Errorf("got %+v, want Family pizza night", got)
	}

	missing, err := ps.GetByID(99999)
	if err != nil {
		t.Fatalf("get missing prize: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing prize, got %+v", missing)
	}
}

func TestPrizeListByHousehold(t *testing.T) {
	ps, db, hid := setupPrizeTestDB(t)
	maya := seedChild(t, db, hid, "Maya")
	theo := seedChild(t, db, hid, "Theo")

	if _, err := ps.Create(hid, nil, "Family pizza night", 50); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := ps.Create(hid, &maya, "New bike", 200); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := ps.Create(hid, &theo, "Lego set", 100); err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := ps.ListByHousehold(hid, nil)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d prizes, want 3", len(all))
	}

	// Maya sees her own prizes plus household-wide ones, not Theo's.
	mayas, err := ps.ListByHousehold(hid, &maya)
	if err != nil {
		t.Fatalf("list for child: %v", err)
	}
	if len(mayas) != 2 {
		t.Fatalf("got %d prizes for child, want 2", len(mayas))
	}
	for _, p := range mayas {
		if p.ChildID != nil && *p.ChildID != maya {
			t.Errorf("child filter leaked prize %q scoped to child %d", p.Name, *p.ChildID)
		}
	}
}

func TestPrizeUpdate(t *testing.T) {
	ps, db, hid := setupPrizeTestDB(t)
	childID := seedChild(t, db, hid, "Maya")

	created, err := ps.Create(hid, nil, "Family pizza night", 50)
	if err != nil {
		t.Fatalf("create prize: %v", err)
	}

	awarded := "2024-06-15"
	updated, err := ps.Update(created.ID, "Family movie night", 40, &childID, &awarded)
	if err != nil {
		t.Fatalf("update prize: %v", err)
	}
	if updated.Name != "Family movie night" || updated.PointsRequired != 40 {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.ChildID == nil || *updated.ChildID != childID {
		t.Errorf("child_id = %v, want %d", updated.ChildID, childID)
	}
	if updated.DateAwarded == nil || *updated.DateAwarded != awarded {
		t.Errorf("date_awarded = %v, want %q", updated.DateAwarded, awarded)
	}

	if _, err := ps.Update(99999, "X", 1, nil, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing: err = %v, want ErrNotFound", err)
	}
}

func TestPrizeDelete(t *testing.T) {
	ps, _, hid := setupPrizeTestDB(t)

	created, err := ps.Create(hid, nil, "Family pizza night", 50)
	if err != nil {
		t.Fatalf("create prize: %v", err)
	}

	if err := ps.Delete(created.ID); err != nil {
		t.Fatalf("delete prize: %v", err)
	}
	if err := ps.Delete(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing: err = %v, want ErrNotFound", err)
	}
}

func TestPrizeChildDeleteCascades(t *testing.T) {
	ps, db, hid := setupPrizeTestDB(t)
	childID := seedChild(t, db, hid, "Maya")

	scoped, err := ps.Create(hid, &childID, "New bike", 200)
	if err != nil {
		t.Fatalf("create scoped prize: %v", err)
	}
	wide, err := ps.Create(hid, nil, "Family pizza night", 50)
	if err != nil {
		t.Fatalf("create household prize: %v", err)
	}

	if _, err := db.Exec(`DELETE FROM children WHERE id = ?`, childID); err != nil {
		t.Fatalf("delete child: %v", err)
	}

	gone, err := ps.GetByID(scoped.ID)
	if err != nil {
		t.Fatalf("get scoped prize: %v", err)
	}
	if gone != nil {
		t.Errorf("scoped prize survived child delete: %+v", gone)
	}

	kept, err := ps.GetByID(wide.ID)
	if err != nil {
		t.Fatalf("get household prize: %v", err)
	}
	if kept == nil {
		t.Error("household-wide prize removed by child delete")
	}
}
