package store

import (
	"errors"
	"testing"

	"choreboard/internal/database"
)

func setupHouseholdTestDB(t *testing.T) *HouseholdStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewHouseholdStore(db)
}

func TestHouseholdCreate(t *testing.T) {
	hs := setupHouseholdTestDB(t)

	h, err := hs.Create("The Parkers", "parkers@example.com", "hashed-secret", 1234)
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	if h.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if h.Name != "The Parkers" {
		t.Errorf("name = %q, want %q", h.Name, "The Parkers")
	}
	if h.Email != "parkers@example.com" {
		t.Errorf("email = %q, want %q", h.Email, "parkers@example.com")
	}
	if h.PIN != 1234 {
		t.Errorf("pin = %d, want 1234", h.PIN)
	}
}

func TestHouseholdCreateDuplicateEmail(t *testing.T) {
	hs := setupHouseholdTestDB(t)

	if _, err := hs.Create("First", "same@example.com", "hash1", 1111); err != nil {
		t.Fatalf("create first: %v", err)
	}
	_, err := hs.Create("Second", "same@example.com", "hash2", 2222)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestHouseholdGetByID(t *testing.T) {
	hs := setupHouseholdTestDB(t)

	created, err := hs.Create("The Parkers", "parkers@example.com", "hash", 1234)
	if err != nil {
		t.Fatalf("create household: %v", err)
	}

	got, err := hs.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get household: %v", err)
	}
	if got == nil {
		t.Fatal("expected household, got nil")
	}
	if got.Email != created.Email {
		t.Errorf("email = %q, want %q", got.Email, created.Email)
	}

	missing, err := hs.GetByID(99999)
	if err != nil {
		t.Fatalf("get missing household: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing household, got %+v", missing)
	}
}

func TestHouseholdGetByEmail(t *testing.T) {
	hs := setupHouseholdTestDB(t)

	if _, err := hs.Create("The Parkers", "parkers@example.com", "hash", 1234); err != nil {
		t.Fatalf("create household: %v", err)
	}

	got, err := hs.GetByEmail("parkers@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got == nil {
		t.Fatal("expected household, got nil")
	}

	missing, err := hs.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get missing email: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown email, got %+v", missing)
	}
}

func TestHouseholdList(t *testing.T) {
	hs := setupHouseholdTestDB(t)

	if _, err := hs.Create("Zimmermans", "z@example.com", "hash", 1); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := hs.Create("Andersons", "a@example.com", "hash", 2); err != nil {
		t.Fatalf("create: %v", err)
	}

	households, err := hs.List()
	if err != nil {
		t.Fatalf("list households: %v", err)
	}
	if len(households) != 2 {
		t.Fatalf("got %d households, want 2", len(households))
	}
	if households[0].Name != "Andersons" {
		t.Errorf("first household = %q, want name-sorted order", households[0].Name)
	}
}

func TestHouseholdUpdate(t *testing.T) {
	hs := setupHouseholdTestDB(t)

	created, err := hs.Create("Old Name", "old@example.com", "hash", 1234)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := hs.Update(created.ID, "New Name", "new@example.com", "newhash", 5678)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "New Name" || updated.Email != "new@example.com" || updated.PIN != 5678 {
		t.Errorf("update not applied: %+v", updated)
	}

	if _, err := hs.Update(99999, "X", "x@example.com", "h", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing: err = %v, want ErrNotFound", err)
	}
}

func TestHouseholdUpdateDuplicateEmail(t *testing.T) {
	hs := setupHouseholdTestDB(t)

	if _, err := hs.Create("First", "first@example.com", "hash", 1); err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := hs.Create("Second", "second@example.com", "hash", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = hs.Update(second.ID, "Second", "first@example.com", "hash", 2)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestHouseholdDelete(t *testing.T) {
	hs := setupHouseholdTestDB(t)

	created, err := hs.Create("The Parkers", "parkers@example.com", "hash", 1234)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := hs.Delete(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := hs.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Errorf("household still present after delete: %+v", got)
	}

	if err := hs.Delete(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing: err = %v, want ErrNotFound", err)
	}
}
