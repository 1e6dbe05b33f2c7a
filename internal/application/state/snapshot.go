// Package state owns the application's in-memory view of every collection.
// Reads take a copy; writes go through typed Mutations that decide what happens
// when the backend rejects them.
package state

import (
	"slices"

	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/announcement"
	"goodlife/internal/domain/attendance"
	"goodlife/internal/domain/checkin"
	"goodlife/internal/domain/gallery"
	"goodlife/internal/domain/member"
	"goodlife/internal/domain/payment"
	"goodlife/internal/domain/privilege"
	"goodlife/internal/domain/staff"
)

// Snapshot is one consistent view of all eight collections.
// ActivityLogs are held newest first.
type Snapshot struct {
	Members       []member.Member
	Staff         []staff.Staff
	Payments      []payment.Payment
	Announcements []announcement.Announcement
	Gallery       []gallery.Image
	ActivityLogs  []activitylog.Entry
	Attendance    []attendance.Record
	CheckIns      []checkin.CheckIn
}

// Clone copies every collection so the result can be mutated freely.
// Staff privilege slices are copied too; they are the only nested slices.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Members:       slices.Clone(s.Members),
		Staff:         slices.Clone(s.Staff),
		Payments:      slices.Clone(s.Payments),
		Announcements: slices.Clone(s.Announcements),
		Gallery:       slices.Clone(s.Gallery),
		ActivityLogs:  slices.Clone(s.ActivityLogs),
		Attendance:    slices.Clone(s.Attendance),
		CheckIns:      slices.Clone(s.CheckIns),
	}
	for i := range out.Staff {
		out.Staff[i].Privileges = slices.Clone(out.Staff[i].Privileges)
	}
	return out
}

// MemberByID finds a member.
func (s Snapshot) MemberByID(id string) (member.Member, bool) {
	i := slices.IndexFunc(s.Members, func(m member.Member) bool { return m.ID == id })
	if i < 0 {
		return member.Member{}, false
	}
	return s.Members[i], true
}

// MemberByEmail finds a member case-insensitively.
func (s Snapshot) MemberByEmail(email string) (member.Member, bool) {
	i := slices.IndexFunc(s.Members, func(m member.Member) bool { return m.HasEmail(email) })
	if i < 0 {
		return member.Member{}, false
	}
	return s.Members[i], true
}

// StaffByID finds a staff account.
func (s Snapshot) StaffByID(id string) (staff.Staff, bool) {
	i := slices.IndexFunc(s.Staff, func(st staff.Staff) bool { return st.ID == id })
	if i < 0 {
		return staff.Staff{}, false
	}
	return s.Staff[i], true
}

// StaffByEmail finds a staff account by login email.
func (s Snapshot) StaffByEmail(email string) (staff.Staff, bool) {
	return staff.FindByEmail(s.Staff, email)
}

// PaymentByID finds a payment.
func (s Snapshot) PaymentByID(id string) (payment.Payment, bool) {
	i := slices.IndexFunc(s.Payments, func(p payment.Payment) bool { return p.ID == id })
	if i < 0 {
		return payment.Payment{}, false
	}
	return s.Payments[i], true
}

// CheckInByID finds a check-in.
func (s Snapshot) CheckInByID(id string) (checkin.CheckIn, bool) {
	i := slices.IndexFunc(s.CheckIns, func(c checkin.CheckIn) bool { return c.ID == id })
	if i < 0 {
		return checkin.CheckIn{}, false
	}
	return s.CheckIns[i], true
}

// AnnouncementByID finds an announcement.
func (s Snapshot) AnnouncementByID(id string) (announcement.Announcement, bool) {
	i := slices.IndexFunc(s.Announcements, func(a announcement.Announcement) bool { return a.ID == id })
	if i < 0 {
		return announcement.Announcement{}, false
	}
	return s.Announcements[i], true
}

// CountSuperAdmins counts accounts holding the Super-Admin role.
func (s Snapshot) CountSuperAdmins() int {
	n := 0
	for _, st := range s.Staff {
		if st.Role == privilege.RoleSuperAdmin {
			n++
		}
	}
	return n
}
