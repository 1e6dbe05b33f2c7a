package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"goodlife/internal/application/state"
	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/privilege"
	"goodlife/internal/domain/staff"
)

// CredentialVerifier checks a password against a staff account.
type CredentialVerifier interface {
	Verify(account staff.Staff, password string) error
}

// BcryptVerifier compares against the salted bcrypt hash on the account.
type BcryptVerifier struct{}

// Verify implements CredentialVerifier.
func (BcryptVerifier) Verify(account staff.Staff, password string) error {
	return account.CheckPassword(password)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the identity to put in the session.
type LoginResult struct {
	StaffID  string
	Email    string
	FullName string
	Role     privilege.Role
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	State      *state.Container
	Verifier   CredentialVerifier
	GenerateID func() string
	Now        func() time.Time
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
)

// ExecuteLogin validates credentials and returns the identity for session creation.
// PRE: Valid email and password provided
// POST: Returns identity on success, records failed login on failure
// INVARIANT: Account must not be locked
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Email == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	verifier := deps.Verifier
	if verifier == nil {
		verifier = BcryptVerifier{}
	}
	now := deps.Now()

	acct, ok := deps.State.Snapshot().StaffByEmail(input.Email)
	if !ok {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}

	if acct.IsLocked(now) {
		slog.Info("auth_event", "event", "login_blocked", "email", input.Email, "reason", "locked")
		return LoginResult{}, ErrAccountLocked
	}

	if err := verifier.Verify(acct, input.Password); err != nil {
		acct.RecordFailedLogin(now)
		saveLoginCounters(ctx, deps.State, acct)
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
		return LoginResult{}, ErrInvalidCredentials
	}

	if acct.FailedLogins > 0 || !acct.LockedUntil.IsZero() {
		acct.ResetFailedLogins()
		saveLoginCounters(ctx, deps.State, acct)
	}

	slog.Info("auth_event", "event", "login_success", "email", acct.Email, "role", acct.Role)

	who := Actor{Role: acct.Role, Email: acct.Email, Staff: &acct}
	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		who.entry(activitylog.CategoryAccess, activitylog.ActionPortalLogin, acct.Role.Label()+" signed in to the portal"))

	return LoginResult{
		StaffID:  acct.ID,
		Email:    acct.Email,
		FullName: acct.FullName,
		Role:     acct.Role,
	}, nil
}

func saveLoginCounters(ctx context.Context, st *state.Container, acct staff.Staff) {
	if _, err := st.Write(ctx, state.UpdateStaff(acct)); err != nil {
		slog.Warn("login_counter_save_failed", "email", acct.Email, "error", err)
	}
}
