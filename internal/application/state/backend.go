package state

import (
	"goodlife/internal/adapters/storage"
	activityStore "goodlife/internal/adapters/storage/activitylog"
	announcementStore "goodlife/internal/adapters/storage/announcement"
	attendanceStore "goodlife/internal/adapters/storage/attendance"
	checkinStore "goodlife/internal/adapters/storage/checkin"
	galleryStore "goodlife/internal/adapters/storage/gallery"
	memberStore "goodlife/internal/adapters/storage/member"
	paymentStore "goodlife/internal/adapters/storage/payment"
	staffStore "goodlife/internal/adapters/storage/staff"
)

// Backend is the set of per-entity stores behind the container.
// A nil *Backend means local-only mode.
type Backend struct {
	Members       memberStore.Store
	Staff         staffStore.Store
	Payments      paymentStore.Store
	Announcements announcementStore.Store
	Gallery       galleryStore.Store
	ActivityLogs  activityStore.Store
	Attendance    attendanceStore.Store
	CheckIns      checkinStore.Store
}

// NewSQLBackend builds every store over one database handle.
func NewSQLBackend(db storage.SQLDB) *Backend {
	return &Backend{
		Members:       memberStore.NewSQLStore(db),
		Staff:         staffStore.NewSQLStore(db),
		Payments:      paymentStore.NewSQLStore(db),
		Announcements: announcementStore.NewSQLStore(db),
		Gallery:       galleryStore.NewSQLStore(db),
		ActivityLogs:  activityStore.NewSQLStore(db),
		Attendance:    attendanceStore.NewSQLStore(db),
		CheckIns:      checkinStore.NewSQLStore(db),
	}
}
