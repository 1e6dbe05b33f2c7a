package orchestrators

import (
	"context"
	"errors"
	"testing"

	"goodlife/internal/application/state"
	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/attendance"
	"goodlife/internal/domain/privilege"
	"goodlife/internal/domain/staff"
)

// passwordVerifier accepts one plaintext password for every account.
type passwordVerifier string

func (p passwordVerifier) Verify(_ staff.Staff, password string) error {
	if password != string(p) {
		return staff.ErrWrongPassword
	}
	return nil
}

func loginDeps(c *state.Container) LoginDeps {
	return LoginDeps{State: c, Verifier: passwordVerifier("open-sesame"), GenerateID: sequentialIDs("log"), Now: testNow}
}

func TestLogin_Success(t *testing.T) {
	c := seededState(t)
	res, err := ExecuteLogin(context.Background(), LoginInput{Email: "ADMIN@goodlife.com", Password: "open-sesame"}, loginDeps(c))
	if err != nil {
		t.Fatalf("ExecuteLogin: %v", err)
	}
	if res.Role != privilege.RoleSuperAdmin || res.StaffID != "s1" {
		t.Errorf("result = %+v", res)
	}
	e, ok := findActivity(c, activitylog.ActionPortalLogin)
	if !ok || e.Category != activitylog.CategoryAccess {
		t.Errorf("login activity = %+v, %v", e, ok)
	}
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	c := seededState(t)
	deps := loginDeps(c)
	for i := 0; i < staff.MaxFailedLogins; i++ {
		_, err := ExecuteLogin(context.Background(), LoginInput{Email: state.SeedAdminEmail, Password: "wrong"}, deps)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: err = %v", i+1, err)
		}
	}
	_, err := ExecuteLogin(context.Background(), LoginInput{Email: state.SeedAdminEmail, Password: "open-sesame"}, deps)
	if !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("err = %v, want ErrAccountLocked", err)
	}
}

func TestLogin_UnknownAndEmpty(t *testing.T) {
	c := seededState(t)
	for _, in := range []LoginInput{{Email: "ghost@goodlife.com", Password: "x"}, {Email: state.SeedAdminEmail}} {
		if _, err := ExecuteLogin(context.Background(), in, loginDeps(c)); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("ExecuteLogin(%+v) = %v", in, err)
		}
	}
}

func TestLogin_BcryptAfterSeedAdmin(t *testing.T) {
	c := seededState(t)
	deps := StaffDeps{State: c, GenerateID: sequentialIDs("s"), Now: testNow}
	if err := ExecuteSeedAdmin(context.Background(), SeedAdminInput{Email: state.SeedAdminEmail, Password: "correct horse"}, deps); err != nil {
		t.Fatalf("ExecuteSeedAdmin: %v", err)
	}
	login := LoginDeps{State: c, GenerateID: sequentialIDs("log"), Now: testNow}
	if _, err := ExecuteLogin(context.Background(), LoginInput{Email: state.SeedAdminEmail, Password: "correct horse"}, login); err != nil {
		t.Fatalf("login with seeded password: %v", err)
	}
	if _, err := ExecuteLogin(context.Background(), LoginInput{Email: state.SeedAdminEmail, Password: "battery staple"}, login); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
}

func TestShift_SignInTwiceRejected(t *testing.T) {
	c := seededState(t)
	deps := ShiftDeps{State: c, GenerateID: sequentialIDs("att"), Now: testNow}
	actor := adminActor(c)

	rec, err := ExecuteShiftSignIn(context.Background(), ShiftInput{Actor: actor}, deps)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if rec.Date != "2026-06-02" || !rec.IsOpen() {
		t.Errorf("record = %+v", rec)
	}
	if _, err := ExecuteShiftSignIn(context.Background(), ShiftInput{Actor: actor}, deps); !errors.Is(err, attendance.ErrAlreadyOnShift) {
		t.Fatalf("second sign in err = %v", err)
	}
	if n := len(attendance.ForStaff(c.Snapshot().Attendance, actor.Email)); n != 1 {
		t.Errorf("records = %d, want 1", n)
	}

	closed, err := ExecuteShiftSignOut(context.Background(), ShiftInput{Actor: actor}, deps)
	if err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if closed.IsOpen() {
		t.Error("record should be closed")
	}
	if _, err := ExecuteShiftSignOut(context.Background(), ShiftInput{Actor: actor}, deps); !errors.Is(err, attendance.ErrNotOnShift) {
		t.Errorf("second sign out err = %v", err)
	}
	// A new shift may open once the previous one closed.
	if _, err := ExecuteShiftSignIn(context.Background(), ShiftInput{Actor: actor}, deps); err != nil {
		t.Errorf("re-sign in: %v", err)
	}
}

func TestLogout_OnShiftNeedsAcknowledgement(t *testing.T) {
	c := seededState(t)
	actor := adminActor(c)
	shiftDeps := ShiftDeps{State: c, GenerateID: sequentialIDs("att"), Now: testNow}
	if _, err := ExecuteShiftSignIn(context.Background(), ShiftInput{Actor: actor}, shiftDeps); err != nil {
		t.Fatal(err)
	}
	deps := LogoutDeps{State: c, GenerateID: sequentialIDs("log"), Now: testNow}

	before := len(c.Snapshot().ActivityLogs)
	if err := ExecuteLogout(context.Background(), LogoutInput{Actor: actor}, deps); !errors.Is(err, ErrStillOnShift) {
		t.Fatalf("err = %v, want ErrStillOnShift", err)
	}
	if len(c.Snapshot().ActivityLogs) != before {
		t.Error("blocked logout must not log")
	}

	if err := ExecuteLogout(context.Background(), LogoutInput{Actor: actor, AcknowledgeShift: true}, deps); err != nil {
		t.Fatalf("acknowledged logout: %v", err)
	}
	warn, ok := findActivity(c, activitylog.ActionLogoutWarning)
	if !ok || warn.Severity != activitylog.SeverityWarning {
		t.Errorf("warning entry = %+v, %v", warn, ok)
	}
	if actions := activityActions(c); actions[0] != activitylog.ActionLogout {
		t.Errorf("newest action = %q, want Logout", actions[0])
	}
}

func TestLogout_OffShift(t *testing.T) {
	c := seededState(t)
	deps := LogoutDeps{State: c, GenerateID: sequentialIDs("log"), Now: testNow}
	if err := ExecuteLogout(context.Background(), LogoutInput{Actor: adminActor(c)}, deps); err != nil {
		t.Fatalf("ExecuteLogout: %v", err)
	}
	if _, ok := findActivity(c, activitylog.ActionLogoutWarning); ok {
		t.Error("no warning expected when off shift")
	}
}
