package orchestrators

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	emailAdapter "goodlife/internal/adapters/email"
	"goodlife/internal/application/state"
	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/calendar"
	"goodlife/internal/domain/member"
	"goodlife/internal/domain/plan"
	"goodlife/internal/domain/privilege"
)

// MaxReportedImportErrors caps the row errors listed individually.
const MaxReportedImportErrors = 10

// ImportFormat names the file layout of an import.
type ImportFormat string

const (
	ImportCSV  ImportFormat = "csv"
	ImportJSON ImportFormat = "json"
)

// ErrImportFormat is returned for unreadable import files.
var ErrImportFormat = errors.New("import file must be CSV with a header row or a JSON array of members")

// ImportMembersInput carries the file and import options.
// PRE: Reader holds CSV with a header row, or a JSON array of member objects.
// POST: valid, non-duplicate rows are created as members.
// INVARIANT: existing members are never modified.
type ImportMembersInput struct {
	Actor       Actor
	Reader      io.Reader
	Format      ImportFormat // empty detects from the first byte
	SkipWelcome bool
}

// ImportMembersResult summarises an import run.
type ImportMembersResult struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// importRow is one candidate member as read from the file.
type importRow struct {
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergencyContact"`
	Plan             string `json:"plan"`
	StartDate        string `json:"startDate"`
	ExpiryDate       string `json:"expiryDate"`
}

// ExecuteImportMembers parses a member file and creates each new member.
// Duplicate emails, against existing members or earlier rows, are failures and never retried.
// PRE: Actor holds MANAGE_MEMBERS
// POST: result lists at most MaxReportedImportErrors row errors plus a count of the rest
func ExecuteImportMembers(ctx context.Context, input ImportMembersInput, deps MemberDeps) (ImportMembersResult, error) {
	if err := input.Actor.require(privilege.ManageMembers); err != nil {
		return ImportMembersResult{}, err
	}
	rows, err := readImport(input.Reader, input.Format)
	if err != nil {
		return ImportMembersResult{}, err
	}

	now := deps.Now()
	result := ImportMembersResult{Total: len(rows)}
	var rowErrors []string
	fail := func(n int, msg string) {
		result.Failed++
		rowErrors = append(rowErrors, fmt.Sprintf("Row %d: %s", n, msg))
	}

	for i, row := range rows {
		n := i + 1
		if strings.TrimSpace(row.FullName) == "" || strings.TrimSpace(row.Email) == "" || strings.TrimSpace(row.Phone) == "" {
			fail(n, "missing required fields (fullName, email, phone)")
			continue
		}
		if _, dup := deps.State.Snapshot().MemberByEmail(row.Email); dup {
			fail(n, fmt.Sprintf("member with email %s already exists", strings.TrimSpace(row.Email)))
			continue
		}

		planName := row.Plan
		if strings.TrimSpace(planName) == "" {
			planName = string(plan.Monthly)
		}
		p, err := plan.Parse(planName)
		if err != nil {
			fail(n, fmt.Sprintf("%s: %q", err, row.Plan))
			continue
		}
		start := strings.TrimSpace(row.StartDate)
		if start == "" {
			start = calendar.Today(now)
		}
		expiry := strings.TrimSpace(row.ExpiryDate)
		if expiry == "" {
			if expiry, err = calendar.AddMonths(start, 1); err != nil {
				fail(n, err.Error())
				continue
			}
		}

		m := member.Member{
			ID:               deps.GenerateID(),
			FullName:         strings.TrimSpace(row.FullName),
			Email:            strings.TrimSpace(row.Email),
			Phone:            strings.TrimSpace(row.Phone),
			Address:          strings.TrimSpace(row.Address),
			EmergencyContact: strings.TrimSpace(row.EmergencyContact),
			Plan:             p,
			StartDate:        start,
			ExpiryDate:       expiry,
			Status:           member.DeriveStatus(expiry, now),
		}
		if err := m.Validate(); err != nil {
			fail(n, err.Error())
			continue
		}
		if _, err := deps.State.Write(ctx, state.AddMember(m)); err != nil {
			slog.Error("members_import_save_failed", "row", n, "email", m.Email, "err", err)
			fail(n, err.Error())
			continue
		}
		result.Imported++

		if !input.SkipWelcome {
			req, buildErr := emailAdapter.Welcome(emailAdapter.WelcomeData{
				MemberName: m.FullName, MemberEmail: m.Email, Plan: string(m.Plan), StartDate: m.StartDate, ExpiryDate: m.ExpiryDate,
			})
			result.Warnings = appendWarning(result.Warnings, notify(ctx, deps.Email, "Welcome", req, buildErr))
		}
	}

	result.Errors = summarizeErrors(rowErrors, MaxReportedImportErrors)
	slog.Info("members_import",
		"by", input.Actor.Email,
		"total", result.Total,
		"imported", result.Imported,
		"failed", result.Failed,
	)
	if result.Imported > 0 {
		recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
			input.Actor.entry(activitylog.CategoryAdmin, activitylog.ActionImportMembers,
				fmt.Sprintf("Imported %d of %d members (%d failed)", result.Imported, result.Total, result.Failed)))
	}
	return result, nil
}

// summarizeErrors keeps the first limit messages and folds the rest into a count.
func summarizeErrors(errs []string, limit int) []string {
	if len(errs) <= limit {
		return errs
	}
	out := append([]string(nil), errs[:limit]...)
	return append(out, fmt.Sprintf("...and %d more errors", len(errs)-limit))
}

func readImport(r io.Reader, format ImportFormat) ([]importRow, error) {
	br := bufio.NewReader(r)
	if format == "" {
		format = ImportCSV
		for {
			b, err := br.Peek(1)
			if err != nil {
				return nil, ErrImportFormat
			}
			if c := b[0]; c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == 0xEF || c == 0xBB || c == 0xBF {
				br.ReadByte()
				continue
			} else if c == '[' {
				format = ImportJSON
			}
			break
		}
	}
	switch format {
	case ImportJSON:
		var rows []importRow
		if err := json.NewDecoder(br).Decode(&rows); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
		}
		return rows, nil
	case ImportCSV:
		return readCSVImport(br)
	}
	return nil, ErrImportFormat
}

// csvColumns maps normalised header names to row fields.
var csvColumns = map[string]func(*importRow, string){
	"fullname":         func(r *importRow, v string) { r.FullName = v },
	"name":             func(r *importRow, v string) { r.FullName = v },
	"email":            func(r *importRow, v string) { r.Email = v },
	"phone":            func(r *importRow, v string) { r.Phone = v },
	"address":          func(r *importRow, v string) { r.Address = v },
	"emergencycontact": func(r *importRow, v string) { r.EmergencyContact = v },
	"plan":             func(r *importRow, v string) { r.Plan = v },
	"startdate":        func(r *importRow, v string) { r.StartDate = v },
	"expirydate":       func(r *importRow, v string) { r.ExpiryDate = v },
}

func readCSVImport(r io.Reader) ([]importRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, ErrImportFormat
	}
	setters := make([]func(*importRow, string), len(header))
	matched := 0
	for i, h := range header {
		key := strings.ToLower(strings.NewReplacer("_", "", " ", "", "-", "").Replace(strings.TrimSpace(h)))
		if set, ok := csvColumns[key]; ok {
			setters[i] = set
			matched++
		}
	}
	if matched == 0 {
		return nil, ErrImportFormat
	}

	var rows []importRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
		}
		var row importRow
		for i, v := range rec {
			if i < len(setters) && setters[i] != nil {
				setters[i](&row, strings.TrimSpace(v))
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
