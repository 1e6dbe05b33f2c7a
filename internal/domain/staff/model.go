package staff

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"goodlife/internal/domain/privilege"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength    = 254
	MinPasswordLength = 8
	MaxFailedLogins   = 5
	LockoutDuration   = 15 * time.Minute
	bcryptCost        = 12
)

// Domain errors
var (
	ErrEmptyName        = errors.New("full name cannot be empty")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrEmptyPhone       = errors.New("phone cannot be empty")
	ErrEmptyPosition    = errors.New("position cannot be empty")
	ErrInvalidRole      = errors.New("staff role must be STAFF or SUPER_ADMIN")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrDuplicateEmail   = errors.New("a staff member with this email already exists")
	ErrLocked           = errors.New("account temporarily locked after repeated failed logins")
)

// Staff is a portal account. Email is the login identity.
type Staff struct {
	ID           string                `json:"id"`
	FullName     string                `json:"fullName"`
	Email        string                `json:"email"`
	Role         privilege.Role        `json:"role"`
	Position     string                `json:"position"`
	Phone        string                `json:"phone"`
	Avatar       string                `json:"avatar,omitempty"`
	Privileges   []privilege.Privilege `json:"privileges"`
	PasswordHash string                `json:"-"`
	FailedLogins int                   `json:"-"`
	LockedUntil  time.Time             `json:"-"`
	CreatedAt    time.Time             `json:"createdAt"`
}

// Validate checks the profile fields. Password is checked separately by SetPassword.
// PRE: Staff struct is populated
// POST: Returns nil if valid, the first violation otherwise
func (s *Staff) Validate() error {
	if strings.TrimSpace(s.FullName) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(s.Email) == "" {
		return ErrEmptyEmail
	}
	if len(s.Email) > MaxEmailLength {
		return errors.New("email cannot exceed 254 characters")
	}
	if !strings.Contains(s.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(s.Phone) == "" {
		return ErrEmptyPhone
	}
	if strings.TrimSpace(s.Position) == "" {
		return ErrEmptyPosition
	}
	if s.Role != privilege.RoleStaff && s.Role != privilege.RoleSuperAdmin {
		return ErrInvalidRole
	}
	return nil
}

// NormalizeEmail is the comparison form of a login email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SameEmail compares two emails case-insensitively.
func SameEmail(a, b string) bool {
	return NormalizeEmail(a) == NormalizeEmail(b)
}

// SetPassword hashes and stores a password using bcrypt with cost 12.
// PRE: plaintext is non-empty and >= MinPasswordLength characters
// POST: PasswordHash is set to a salted bcrypt hash
func (s *Staff) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return err
	}
	s.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: Staff fields are not mutated
func (s *Staff) CheckPassword(plaintext string) error {
	if s.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked returns true if the account is locked out at now.
// INVARIANT: Staff fields are not mutated
func (s *Staff) IsLocked(now time.Time) bool {
	if s.LockedUntil.IsZero() {
		return false
	}
	return now.Before(s.LockedUntil)
}

// RecordFailedLogin increments the failed login counter and locks the account after 5 failures.
// PRE: Staff exists
// POST: FailedLogins incremented; LockedUntil set if >= 5 failures
func (s *Staff) RecordFailedLogin(now time.Time) {
	s.FailedLogins++
	if s.FailedLogins >= MaxFailedLogins {
		s.LockedUntil = now.Add(LockoutDuration)
	}
}

// ResetFailedLogins clears the failed login counter and lock.
// POST: FailedLogins is 0, LockedUntil is zero
func (s *Staff) ResetFailedLogins() {
	s.FailedLogins = 0
	s.LockedUntil = time.Time{}
}

// IsSuperAdmin reports whether the account holds every privilege implicitly.
func (s *Staff) IsSuperAdmin() bool {
	return s.Role == privilege.RoleSuperAdmin
}

// Holds reports whether p is in the stored privilege set.
// Comparison is normalised so stored representation drift does not matter.
func (s *Staff) Holds(p privilege.Privilege) bool {
	for _, held := range s.Privileges {
		if privilege.Equal(held, p) {
			return true
		}
	}
	return false
}

// FindByEmail returns the staff member with the given login email.
func FindByEmail(list []Staff, email string) (Staff, bool) {
	for _, s := range list {
		if SameEmail(s.Email, email) {
			return s, true
		}
	}
	return Staff{}, false
}
