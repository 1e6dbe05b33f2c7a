package state

import (
	"context"
	"fmt"
	"slices"
	"time"

	"goodlife/internal/adapters/storage"
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

// collection describes how to find one entity kind inside a Snapshot.
type collection[T any] struct {
	name  string
	list  func(*Snapshot) *[]T
	id    func(*T) *string
	front bool // new items go first (newest-first collections)
}

var (
	members       = collection[member.Member]{name: "member", list: func(s *Snapshot) *[]member.Member { return &s.Members }, id: func(v *member.Member) *string { return &v.ID }}
	staffAccounts = collection[staff.Staff]{name: "staff", list: func(s *Snapshot) *[]staff.Staff { return &s.Staff }, id: func(v *staff.Staff) *string { return &v.ID }}
	payments      = collection[payment.Payment]{name: "payment", list: func(s *Snapshot) *[]payment.Payment { return &s.Payments }, id: func(v *payment.Payment) *string { return &v.ID }, front: true}
	announcements = collection[announcement.Announcement]{name: "announcement", list: func(s *Snapshot) *[]announcement.Announcement { return &s.Announcements }, id: func(v *announcement.Announcement) *string { return &v.ID }, front: true}
	images        = collection[gallery.Image]{name: "gallery image", list: func(s *Snapshot) *[]gallery.Image { return &s.Gallery }, id: func(v *gallery.Image) *string { return &v.ID }}
	activity      = collection[activitylog.Entry]{name: "activity log", list: func(s *Snapshot) *[]activitylog.Entry { return &s.ActivityLogs }, id: func(v *activitylog.Entry) *string { return &v.ID }, front: true}
	shifts        = collection[attendance.Record]{name: "attendance record", list: func(s *Snapshot) *[]attendance.Record { return &s.Attendance }, id: func(v *attendance.Record) *string { return &v.ID }, front: true}
	checkIns      = collection[checkin.CheckIn]{name: "check-in", list: func(s *Snapshot) *[]checkin.CheckIn { return &s.CheckIns }, id: func(v *checkin.CheckIn) *string { return &v.ID }, front: true}
)

func (c collection[T]) index(s *Snapshot, id string) int {
	return slices.IndexFunc(*c.list(s), func(v T) bool { return *c.id(&v) == id })
}

// insert adds item locally under its local id; on persist the backend row replaces it.
func insert[T any](c collection[T], command string, item T, create func(context.Context, *Backend, T) (T, error)) Mutation {
	localID := *c.id(&item)
	tracked := localID
	return Mutation{
		Name: command,
		Reduce: func(s *Snapshot) error {
			if localID == "" {
				return fmt.Errorf("%s: local id required", command)
			}
			if c.index(s, localID) >= 0 {
				return fmt.Errorf("%s: duplicate id %s", command, localID)
			}
			list := c.list(s)
			if c.front {
				*list = append([]T{item}, *list...)
			} else {
				*list = append(*list, item)
			}
			return nil
		},
		Persist: func(ctx context.Context, b *Backend) (Reconcile, error) {
			stored, err := create(ctx, b, item)
			if err != nil {
				return nil, err
			}
			return func(s *Snapshot) {
				if i := c.index(s, localID); i >= 0 {
					(*c.list(s))[i] = stored
					tracked = *c.id(&stored)
				}
			}, nil
		},
		inserted: &tracked,
	}
}

// replace overwrites an existing entity matched by id.
func replace[T any](c collection[T], command string, item T, update func(context.Context, *Backend, T) error) Mutation {
	id := *c.id(&item)
	return Mutation{
		Name: command,
		Reduce: func(s *Snapshot) error {
			i := c.index(s, id)
			if i < 0 {
				return fmt.Errorf("%s %s: %w", c.name, id, ErrNotFound)
			}
			(*c.list(s))[i] = item
			return nil
		},
		Persist: func(ctx context.Context, b *Backend) (Reconcile, error) {
			return nil, update(ctx, b, item)
		},
	}
}

// remove drops an entity matched by id.
func remove[T any](c collection[T], command, id string, del func(context.Context, *Backend, string) error) Mutation {
	return Mutation{
		Name: command,
		Reduce: func(s *Snapshot) error {
			i := c.index(s, id)
			if i < 0 {
				return fmt.Errorf("%s %s: %w", c.name, id, ErrNotFound)
			}
			*c.list(s) = slices.Delete(*c.list(s), i, i+1)
			return nil
		},
		Persist: func(ctx context.Context, b *Backend) (Reconcile, error) {
			return nil, del(ctx, b, id)
		},
	}
}

// AddMember registers a member.
func AddMember(m member.Member) Mutation {
	mut := insert(members, "add_member", m, func(ctx context.Context, b *Backend, v member.Member) (member.Member, error) {
		return b.Members.Create(ctx, v)
	})
	reduce := mut.Reduce
	mut.Reduce = func(s *Snapshot) error {
		if _, dup := s.MemberByEmail(m.Email); dup {
			return member.ErrDuplicateEmail
		}
		return reduce(s)
	}
	return mut
}

// UpdateMember overwrites a member.
func UpdateMember(m member.Member) Mutation {
	mut := replace(members, "update_member", m, func(ctx context.Context, b *Backend, v member.Member) error {
		return b.Members.Update(ctx, v)
	})
	reduce := mut.Reduce
	mut.Reduce = func(s *Snapshot) error {
		if other, dup := s.MemberByEmail(m.Email); dup && other.ID != m.ID {
			return member.ErrDuplicateEmail
		}
		return reduce(s)
	}
	return mut
}

// DeleteMember removes a member.
func DeleteMember(id string) Mutation {
	return remove(members, "delete_member", id, func(ctx context.Context, b *Backend, id string) error {
		return b.Members.Delete(ctx, id)
	})
}

// AddPayment records a payment.
func AddPayment(p payment.Payment) Mutation {
	return insert(payments, "add_payment", p, func(ctx context.Context, b *Backend, v payment.Payment) (payment.Payment, error) {
		return b.Payments.Create(ctx, v)
	})
}

// UpdatePayment overwrites a payment.
func UpdatePayment(p payment.Payment) Mutation {
	return replace(payments, "update_payment", p, func(ctx context.Context, b *Backend, v payment.Payment) error {
		return b.Payments.Update(ctx, v)
	})
}

// ConfirmPayment writes p, a payment already moved to Confirmed, but only
// while the committed row is still Pending. Two desks confirming the same
// payment get exactly one success; the other sees payment.ErrNotPending.
func ConfirmPayment(p payment.Payment) Mutation {
	mut := replace(payments, "confirm_payment", p, func(ctx context.Context, b *Backend, v payment.Payment) error {
		return b.Payments.Update(ctx, v)
	})
	reduce := mut.Reduce
	mut.Reduce = func(s *Snapshot) error {
		if current, ok := s.PaymentByID(p.ID); ok && !current.IsPending() {
			return payment.ErrNotPending
		}
		return reduce(s)
	}
	return mut
}

// AddStaff creates a portal account.
func AddStaff(st staff.Staff) Mutation {
	mut := insert(staffAccounts, "add_staff", st, func(ctx context.Context, b *Backend, v staff.Staff) (staff.Staff, error) {
		return b.Staff.Create(ctx, v)
	})
	reduce := mut.Reduce
	mut.Reduce = func(s *Snapshot) error {
		if _, dup := s.StaffByEmail(st.Email); dup {
			return staff.ErrDuplicateEmail
		}
		return reduce(s)
	}
	return mut
}

// UpdateStaff overwrites an account, including credential and lockout fields.
func UpdateStaff(st staff.Staff) Mutation {
	return replace(staffAccounts, "update_staff", st, func(ctx context.Context, b *Backend, v staff.Staff) error {
		return b.Staff.Update(ctx, v)
	})
}

// UpdateStaffPrivileges replaces one account's privilege set.
// Connection failures are retried three times with linear backoff.
func UpdateStaffPrivileges(id string, ps []privilege.Privilege) Mutation {
	ps = slices.Clone(ps)
	return Mutation{
		Name: "update_staff_privileges",
		Reduce: func(s *Snapshot) error {
			i := staffAccounts.index(s, id)
			if i < 0 {
				return fmt.Errorf("staff %s: %w", id, ErrNotFound)
			}
			s.Staff[i].Privileges = slices.Clone(ps)
			return nil
		},
		Persist: func(ctx context.Context, b *Backend) (Reconcile, error) {
			return nil, b.Staff.UpdatePrivileges(ctx, id, ps)
		},
		OnFailure: Rollback,
		Retry:     RetryPolicy{Attempts: 3, Backoff: PrivilegeRetryBackoff, Retryable: storage.IsTransient},
	}
}

// PrivilegeRetryBackoff is the base delay between privilege-update attempts.
var PrivilegeRetryBackoff = time.Second

// DeleteStaff removes an account.
func DeleteStaff(id string) Mutation {
	return remove(staffAccounts, "delete_staff", id, func(ctx context.Context, b *Backend, id string) error {
		return b.Staff.Delete(ctx, id)
	})
}

// AddAnnouncement publishes an announcement.
func AddAnnouncement(a announcement.Announcement) Mutation {
	return insert(announcements, "add_announcement", a, func(ctx context.Context, b *Backend, v announcement.Announcement) (announcement.Announcement, error) {
		return b.Announcements.Create(ctx, v)
	})
}

// UpdateAnnouncement overwrites an announcement.
func UpdateAnnouncement(a announcement.Announcement) Mutation {
	return replace(announcements, "update_announcement", a, func(ctx context.Context, b *Backend, v announcement.Announcement) error {
		return b.Announcements.Update(ctx, v)
	})
}

// DeleteAnnouncement removes an announcement.
func DeleteAnnouncement(id string) Mutation {
	return remove(announcements, "delete_announcement", id, func(ctx context.Context, b *Backend, id string) error {
		return b.Announcements.Delete(ctx, id)
	})
}

// AddGalleryImage adds an image.
func AddGalleryImage(img gallery.Image) Mutation {
	return insert(images, "add_gallery_image", img, func(ctx context.Context, b *Backend, v gallery.Image) (gallery.Image, error) {
		return b.Gallery.Create(ctx, v)
	})
}

// DeleteGalleryImage removes an image.
func DeleteGalleryImage(id string) Mutation {
	return remove(images, "delete_gallery_image", id, func(ctx context.Context, b *Backend, id string) error {
		return b.Gallery.Delete(ctx, id)
	})
}

// AppendActivity prepends a log entry. Activity logging never blocks the
// action it records, so backend failures are accepted as divergence.
func AppendActivity(e activitylog.Entry) Mutation {
	mut := insert(activity, "append_activity", e, func(ctx context.Context, b *Backend, v activitylog.Entry) (activitylog.Entry, error) {
		return b.ActivityLogs.Create(ctx, v)
	})
	mut.OnFailure = AcceptDivergence
	return mut
}

// SignIn opens a shift.
// INVARIANT: at most one open record per (staff email, date)
func SignIn(r attendance.Record) Mutation {
	mut := insert(shifts, "shift_sign_in", r, func(ctx context.Context, b *Backend, v attendance.Record) (attendance.Record, error) {
		return b.Attendance.Create(ctx, v)
	})
	reduce := mut.Reduce
	mut.Reduce = func(s *Snapshot) error {
		if _, open := attendance.FindOpen(s.Attendance, r.StaffEmail, r.Date); open {
			return attendance.ErrAlreadyOnShift
		}
		return reduce(s)
	}
	return mut
}

// UpdateAttendance overwrites a shift record, typically to stamp sign-out.
func UpdateAttendance(r attendance.Record) Mutation {
	return replace(shifts, "shift_sign_out", r, func(ctx context.Context, b *Backend, v attendance.Record) error {
		return b.Attendance.Update(ctx, v)
	})
}

// AddCheckIn records a walk-in client.
func AddCheckIn(c checkin.CheckIn) Mutation {
	return insert(checkIns, "add_check_in", c, func(ctx context.Context, b *Backend, v checkin.CheckIn) (checkin.CheckIn, error) {
		return b.CheckIns.Create(ctx, v)
	})
}

// UpdateCheckIn overwrites a check-in.
func UpdateCheckIn(c checkin.CheckIn) Mutation {
	return replace(checkIns, "update_check_in", c, func(ctx context.Context, b *Backend, v checkin.CheckIn) error {
		return b.CheckIns.Update(ctx, v)
	})
}

// DeleteCheckIn removes a check-in.
func DeleteCheckIn(id string) Mutation {
	return remove(checkIns, "delete_check_in", id, func(ctx context.Context, b *Backend, id string) error {
		return b.CheckIns.Delete(ctx, id)
	})
}
