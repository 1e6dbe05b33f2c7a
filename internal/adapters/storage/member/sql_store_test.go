package member

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"goodlife/internal/adapters/storage/storagetest"
	domain "goodlife/internal/domain/member"
	"goodlife/internal/domain/plan"
)

func sampleMember() domain.Member {
	return domain.Member{
		FullName:   "Yaw Asante",
		Email:      "Yaw@Example.com",
		Phone:      "0244000111",
		Plan:       plan.Monthly,
		StartDate:  "2026-03-01",
		ExpiryDate: "2026-04-01",
		Status:     domain.StatusActive,
	}
}

func TestSQLStore_CreateAssignsID(t *testing.T) {
	store := NewSQLStore(storagetest.Open(t))
	ctx := context.Background()

	in := sampleMember()
	in.ID = "local-1"
	got, err := store.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID == "" || got.ID == "local-1" {
		t.Errorf("Create kept id %q, want a backend id", got.ID)
	}

	byEmail, err := store.GetByEmail(ctx, "yaw@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != got.ID || byEmail.Plan != plan.Monthly {
		t.Errorf("GetByEmail = %+v", byEmail)
	}
}

func TestSQLStore_DuplicateEmailRejected(t *testing.T) {
	store := NewSQLStore(storagetest.Open(t))
	ctx := context.Background()
	if _, err := store.Create(ctx, sampleMember()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Create(ctx, sampleMember()); err == nil {
		t.Error("second Create with the same email should fail")
	}
}

func TestSQLStore_UpdateAndDelete(t *testing.T) {
	store := NewSQLStore(storagetest.Open(t))
	ctx := context.Background()
	m, _ := store.Create(ctx, sampleMember())

	m.Status = domain.StatusExpiring
	m.Address = "Adum, Kumasi"
	if err := store.Update(ctx, m); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := store.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.StatusExpiring || got.Address != "Adum, Kumasi" {
		t.Errorf("after update = %+v", got)
	}

	if err := store.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetByID(ctx, m.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByID after delete = %v, want ErrNoRows", err)
	}
	all, _ := store.GetAll(ctx)
	if len(all) != 0 {
		t.Errorf("GetAll = %d rows, want 0", len(all))
	}
}

func TestSQLStore_UpdateUnknown(t *testing.T) {
	store := NewSQLStore(storagetest.Open(t))
	m := sampleMember()
	m.ID = "missing"
	if err := store.Update(context.Background(), m); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Update unknown = %v, want ErrNoRows", err)
	}
}
