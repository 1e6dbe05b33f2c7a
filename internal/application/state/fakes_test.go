package state_test

import (
	"context"

	"goodlife/internal/domain/announcement"
	"goodlife/internal/domain/privilege"
	"goodlife/internal/domain/staff"
)

// fakeStaff fails UpdatePrivileges with errs in order; other methods are unused.
type fakeStaff struct {
	calls int
	errs  []error
}

func (f *fakeStaff) GetAll(context.Context) ([]staff.Staff, error)        { return nil, nil }
func (f *fakeStaff) GetByID(context.Context, string) (staff.Staff, error) { return staff.Staff{}, nil }
func (f *fakeStaff) GetByEmail(context.Context, string) (staff.Staff, error) {
	return staff.Staff{}, nil
}
func (f *fakeStaff) Create(_ context.Context, s staff.Staff) (staff.Staff, error) { return s, nil }
func (f *fakeStaff) Update(context.Context, staff.Staff) error                    { return nil }
func (f *fakeStaff) Delete(context.Context, string) error                         { return nil }

func (f *fakeStaff) UpdatePrivileges(context.Context, string, []privilege.Privilege) error {
	f.calls++
	if f.calls <= len(f.errs) {
		return f.errs[f.calls-1]
	}
	return nil
}

// announcementStoreStub satisfies the announcement store with no-ops.
type announcementStoreStub struct{}

func (announcementStoreStub) GetAll(context.Context) ([]announcement.Announcement, error) {
	return nil, nil
}
func (announcementStoreStub) GetByID(context.Context, string) (announcement.Announcement, error) {
	return announcement.Announcement{}, nil
}
func (announcementStoreStub) Create(_ context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	return a, nil
}
func (announcementStoreStub) Update(context.Context, announcement.Announcement) error { return nil }
func (announcementStoreStub) Delete(context.Context, string) error                    { return nil }
