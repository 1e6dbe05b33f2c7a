package state

import (
	"time"

	"goodlife/internal/domain/announcement"
	"goodlife/internal/domain/gallery"
	"goodlife/internal/domain/member"
	"goodlife/internal/domain/payment"
	"goodlife/internal/domain/plan"
	"goodlife/internal/domain/privilege"
	"goodlife/internal/domain/staff"
)

// SeedAdminEmail is the login of the fixture Super-Admin.
const SeedAdminEmail = "admin@goodlife.com"

// Seed returns the fixture data used when no backend is configured.
// The admin has no password hash; the bootstrap step sets one from configuration.
func Seed() Snapshot {
	return Snapshot{
		Staff: []staff.Staff{
			{
				ID: "s1", FullName: "Kwame Admin", Email: SeedAdminEmail, Role: privilege.RoleSuperAdmin,
				Position: "Owner / Manager", Phone: "0244000111",
				CreatedAt: time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		Members: []member.Member{
			{ID: "1", FullName: "John Doe", Email: "john@example.com", Phone: "0244123456", Plan: plan.Premium,
				StartDate: "2023-10-01", ExpiryDate: "2024-10-01", Status: member.StatusActive},
			{ID: "2", FullName: "Jane Smith", Email: "jane@example.com", Phone: "0200987654", Plan: plan.Basic,
				StartDate: "2024-01-15", ExpiryDate: "2024-05-15", Status: member.StatusExpiring},
			{ID: "3", FullName: "Kwame Mensah", Email: "kwame@example.com", Phone: "0555112233", Plan: plan.VIP,
				StartDate: "2023-05-01", ExpiryDate: "2024-05-01", Status: member.StatusExpired},
		},
		Payments: []payment.Payment{
			{ID: "pay1", MemberID: "1", MemberName: "John Doe", Amount: 1200, Date: "2023-10-01",
				Method: payment.MethodCash, Status: payment.StatusConfirmed, ConfirmedBy: "Admin"},
			{ID: "pay2", MemberID: "2", MemberName: "Jane Smith", Amount: 400, Date: "2024-01-15",
				Method: payment.MethodMobileMoney, Status: payment.StatusConfirmed, ConfirmedBy: "StaffA",
				TransactionID: "TX100234", MomoPhone: "0200987654", Network: "Telecel"},
			{ID: "pay3", MemberID: "3", MemberName: "Kwame Mensah", Amount: 2000, Date: "2023-05-01",
				Method: payment.MethodMobileMoney, Status: payment.StatusConfirmed, ConfirmedBy: "Admin",
				TransactionID: "TX100889", MomoPhone: "0555112233", Network: "MTN"},
		},
		Announcements: []announcement.Announcement{
			{ID: "ann2", Title: "New Yoga Classes", Content: "Starting April 1st, we are introducing morning Yoga sessions at 6:00 AM.",
				Date: "2024-03-25", Priority: announcement.PriorityLow},
			{ID: "ann1", Title: "Easter Gym Hours", Content: "The gym will be closed on Good Friday and Easter Monday.",
				Date: "2024-03-20", Priority: announcement.PriorityMedium},
		},
		Gallery: []gallery.Image{
			{ID: "img1", URL: "https://picsum.photos/800/600?random=1", Caption: "State of the art cardio zone"},
			{ID: "img2", URL: "https://picsum.photos/800/600?random=2", Caption: "Heavy weight lifting area"},
			{ID: "img3", URL: "https://picsum.photos/800/600?random=3", Caption: "Spinning class studio"},
		},
	}
}
