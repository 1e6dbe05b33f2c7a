package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"goodlife/internal/adapters/photostore"
	"goodlife/internal/application/state"
	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/member"
	"goodlife/internal/domain/plan"
	"goodlife/internal/domain/privilege"
)

func memberDeps(c *state.Container, sender *recordingSender) MemberDeps {
	return MemberDeps{State: c, Photos: photostore.Inline{}, Email: sender, GenerateID: sequentialIDs("m"), Now: testNow}
}

func registration(actor Actor) RegisterMemberInput {
	return RegisterMemberInput{
		Actor:    actor,
		FullName: "Esi Owusu",
		Email:    "esi@example.com",
		Phone:    "0209998888",
		Plan:     "monthly",
		Photo:    "data:image/png;base64,aGVsbG8=",
	}
}

func TestRegisterMember_DefaultsAndWelcome(t *testing.T) {
	c := seededState(t)
	sender := &recordingSender{}
	res, err := ExecuteRegisterMember(context.Background(), registration(staffActor(privilege.ManageMembers)), memberDeps(c, sender))
	if err != nil {
		t.Fatalf("ExecuteRegisterMember: %v", err)
	}
	m := res.Member
	if m.Plan != plan.Monthly || m.StartDate != "2026-06-02" || m.ExpiryDate != "2026-07-02" {
		t.Errorf("member = %+v", m)
	}
	if m.Status != member.StatusActive {
		t.Errorf("Status = %s, want active", m.Status)
	}
	if _, ok := c.Snapshot().MemberByEmail("ESI@example.com"); !ok {
		t.Error("member not in state")
	}
	if subj := sender.subjects(); len(subj) != 1 || subj[0] != "Welcome to Goodlife Fitness, Esi Owusu!" {
		t.Errorf("emails = %v", subj)
	}
	if _, ok := findActivity(c, activitylog.ActionRegisterMember); !ok {
		t.Error("missing Register Member activity")
	}
}

func TestRegisterMember_Rules(t *testing.T) {
	c := seededState(t)
	deps := memberDeps(c, &recordingSender{})

	in := registration(staffActor(privilege.ManageMembers))
	in.Photo = " "
	if _, err := ExecuteRegisterMember(context.Background(), in, deps); !errors.Is(err, member.ErrPhotoRequired) {
		t.Errorf("no photo err = %v", err)
	}

	in = registration(staffActor(privilege.ManagePayments))
	if _, err := ExecuteRegisterMember(context.Background(), in, deps); !errors.Is(err, ErrForbidden) {
		t.Errorf("without privilege err = %v", err)
	}

	in = registration(adminActor(c))
	in.Email = "John@Example.com"
	if _, err := ExecuteRegisterMember(context.Background(), in, deps); !errors.Is(err, member.ErrDuplicateEmail) {
		t.Errorf("duplicate err = %v", err)
	}
	if n := len(c.Snapshot().Members); n != 3 {
		t.Errorf("members = %d, want 3", n)
	}
}

func TestRegisterMember_EmailFailureIsWarning(t *testing.T) {
	c := seededState(t)
	sender := &recordingSender{failTo: map[string]bool{"esi@example.com": true}}
	res, err := ExecuteRegisterMember(context.Background(), registration(adminActor(c)), memberDeps(c, sender))
	if err != nil {
		t.Fatalf("registration must survive email failure: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "Welcome") {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestUpdateMember_RederivesStatus(t *testing.T) {
	c := seededState(t)
	deps := memberDeps(c, &recordingSender{})
	res, err := ExecuteUpdateMember(context.Background(), UpdateMemberInput{
		Actor: adminActor(c), ID: "2", FullName: "Jane Smith", Email: "jane@example.com", Phone: "0200987654",
		Plan: "Basic", StartDate: "2026-05-01", ExpiryDate: "2026-06-05",
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteUpdateMember: %v", err)
	}
	if res.Member.Status != member.StatusExpiring {
		t.Errorf("Status = %s, want expiring", res.Member.Status)
	}

	_, err = ExecuteUpdateMember(context.Background(), UpdateMemberInput{
		Actor: adminActor(c), ID: "2", FullName: "Jane Smith", Email: "john@example.com", Phone: "0200987654",
		Plan: "Basic", StartDate: "2026-05-01", ExpiryDate: "2026-06-05",
	}, deps)
	if !errors.Is(err, member.ErrDuplicateEmail) {
		t.Errorf("email collision err = %v", err)
	}
}

func TestDeleteMember_SuperAdminOnly(t *testing.T) {
	c := seededState(t)
	deps := memberDeps(c, &recordingSender{})
	all := staffActor(privilege.All()...)
	if err := ExecuteDeleteMember(context.Background(), DeleteMemberInput{Actor: all, ID: "1"}, deps); !errors.Is(err, ErrForbidden) {
		t.Errorf("staff delete err = %v", err)
	}
	if err := ExecuteDeleteMember(context.Background(), DeleteMemberInput{Actor: adminActor(c), ID: "1"}, deps); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, ok := c.Snapshot().MemberByID("1"); ok {
		t.Error("member still present")
	}
	if err := ExecuteDeleteMember(context.Background(), DeleteMemberInput{Actor: adminActor(c), ID: "1"}, deps); !errors.Is(err, member.ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestImportMembers_CSV(t *testing.T) {
	c := seededState(t)
	sender := &recordingSender{}
	csv := `Full Name,Email,Phone,Plan,Start Date
Abena Mensah,abena@example.com,0241111111,1 Week,2026-06-01
Kofi Boateng,john@example.com,0242222222,,
,nobody@example.com,0243333333,,
Yaw Darko,yaw@example.com,0244444444,Gold,
Akua Asante,akua@example.com,0245555555,,
`
	res, err := ExecuteImportMembers(context.Background(), ImportMembersInput{
		Actor: adminActor(c), Reader: strings.NewReader(csv), SkipWelcome: true,
	}, memberDeps(c, sender))
	if err != nil {
		t.Fatalf("ExecuteImportMembers: %v", err)
	}
	if res.Total != 5 || res.Imported != 2 || res.Failed != 3 {
		t.Errorf("result = %+v", res)
	}
	if !containsString(res.Errors, "Row 2: member with email john@example.com already exists") {
		t.Errorf("errors = %v", res.Errors)
	}
	if !containsString(res.Errors, "Row 3: missing required fields") {
		t.Errorf("errors = %v", res.Errors)
	}
	akua, ok := c.Snapshot().MemberByEmail("akua@example.com")
	if !ok || akua.Plan != plan.Monthly || akua.StartDate != "2026-06-02" || akua.ExpiryDate != "2026-07-02" {
		t.Errorf("defaulted member = %+v", akua)
	}
	if len(sender.subjects()) != 0 {
		t.Error("SkipWelcome should suppress emails")
	}
}

func TestImportMembers_JSONAndDuplicateWithinFile(t *testing.T) {
	c := seededState(t)
	sender := &recordingSender{}
	body := `  [{"fullName":"Efua Ansah","email":"efua@example.com","phone":"0501"},
	          {"fullName":"Efua Again","email":"EFUA@example.com","phone":"0502"}]`
	res, err := ExecuteImportMembers(context.Background(), ImportMembersInput{Actor: adminActor(c), Reader: strings.NewReader(body)}, memberDeps(c, sender))
	if err != nil {
		t.Fatalf("ExecuteImportMembers: %v", err)
	}
	if res.Imported != 1 || res.Failed != 1 {
		t.Errorf("result = %+v", res)
	}
	if len(sender.subjects()) != 1 {
		t.Errorf("welcome emails = %d, want 1", len(sender.subjects()))
	}
}

func TestImportMembers_SummarisesErrors(t *testing.T) {
	c := seededState(t)
	var b strings.Builder
	b.WriteString("name,email,phone\n")
	for i := 0; i < 13; i++ {
		b.WriteString("No Phone,np@example.com,\n")
	}
	res, err := ExecuteImportMembers(context.Background(), ImportMembersInput{Actor: adminActor(c), Reader: strings.NewReader(b.String())}, memberDeps(c, &recordingSender{}))
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed != 13 || len(res.Errors) != MaxReportedImportErrors+1 {
		t.Fatalf("failed=%d errors=%d", res.Failed, len(res.Errors))
	}
	if last := res.Errors[len(res.Errors)-1]; last != "...and 3 more errors" {
		t.Errorf("summary = %q", last)
	}
}

func TestImportMembers_BadFile(t *testing.T) {
	c := seededState(t)
	_, err := ExecuteImportMembers(context.Background(), ImportMembersInput{Actor: adminActor(c), Reader: strings.NewReader("colour,size\nred,L\n")}, memberDeps(c, &recordingSender{}))
	if !errors.Is(err, ErrImportFormat) {
		t.Errorf("err = %v, want ErrImportFormat", err)
	}
}
