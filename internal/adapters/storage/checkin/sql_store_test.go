package checkin

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"goodlife/internal/adapters/storage/storagetest"
	domain "goodlife/internal/domain/checkin"
)

func TestSQLStore_CheckInLifecycle(t *testing.T) {
	store := NewSQLStore(storagetest.Open(t))
	ctx := context.Background()
	at := time.Date(2026, 6, 1, 17, 30, 0, 0, time.UTC)

	c, err := store.Create(ctx, domain.CheckIn{FullName: "Nana Yeboah", Phone: "0270001234", CheckInAt: at, Date: "2026-06-01"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := store.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CheckOutAt != nil || !got.CheckInAt.Equal(at) {
		t.Errorf("GetByID = %+v", got)
	}

	if err := got.CheckOut(at.Add(75 * time.Minute)); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if err := store.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	all, _ := store.GetAll(ctx)
	if len(all) != 1 {
		t.Fatalf("GetAll = %d, want 1", len(all))
	}
	if mins, ok := all[0].DurationMinutes(); !ok || mins != 75 {
		t.Errorf("DurationMinutes = %d, %v; want 75, true", mins, ok)
	}

	if err := store.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetByID(ctx, c.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByID after delete = %v", err)
	}
}
