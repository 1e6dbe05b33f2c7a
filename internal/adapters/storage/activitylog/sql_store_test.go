package activitylog

import (
	"context"
	"testing"
	"time"

	"goodlife/internal/adapters/storage/storagetest"
	domain "goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/privilege"
)

func TestSQLStore_NewestFirst(t *testing.T) {
	store := NewSQLStore(storagetest.Open(t))
	ctx := context.Background()
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	first := domain.NewEntry("", privilege.RoleStaff, "ama@goodlife.com", domain.CategoryAccess, domain.ActionPortalLogin, base)
	second := domain.NewEntry("", privilege.RoleStaff, "ama@goodlife.com", domain.CategoryAccess, domain.ActionLogoutWarning, base.Add(time.Hour)).
		WithSeverity(domain.SeverityWarning)
	for _, e := range []domain.Entry{first, second} {
		if _, err := store.Create(ctx, e); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("GetAll = %d entries, want 2", len(all))
	}
	if all[0].Action != domain.ActionLogoutWarning || all[0].Severity != domain.SeverityWarning {
		t.Errorf("newest entry = %+v", all[0])
	}
	if !all[1].Timestamp.Equal(base) {
		t.Errorf("oldest timestamp = %v, want %v", all[1].Timestamp, base)
	}
}
