package projections

import (
	"context"
	"time"

	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/attendance"
	"goodlife/internal/domain/calendar"
)

// TeamMember is one row of the team monitoring panel.
type TeamMember struct {
	StaffID      string             `json:"staffId"`
	FullName     string             `json:"fullName"`
	Email        string             `json:"email"`
	Role         string             `json:"role"`
	Position     string             `json:"position"`
	OnShift      bool               `json:"onShift"`
	SignedInAt   *time.Time         `json:"signedInAt,omitempty"`
	LastActivity *activitylog.Entry `json:"lastActivity,omitempty"`
}

// GetTeamQuery carries input for the team presence projection.
type GetTeamQuery struct{}

// TeamResult lists every portal account with today's presence.
type TeamResult struct {
	Members []TeamMember `json:"members"`
	OnShift int          `json:"onShift"`
}

// QueryGetTeam reports who is on shift today and what each person did last.
// POST: one row per staff account, in staff order
// INVARIANT: last activity is the first matching entry of the newest-first log
func QueryGetTeam(_ context.Context, _ GetTeamQuery, deps Deps) (TeamResult, error) {
	snap := deps.State.Snapshot()
	today := calendar.Today(deps.Now())
	res := TeamResult{Members: make([]TeamMember, 0, len(snap.Staff))}
	for _, st := range snap.Staff {
		row := TeamMember{
			StaffID:  st.ID,
			FullName: st.FullName,
			Email:    st.Email,
			Role:     st.Role.Label(),
			Position: st.Position,
		}
		if open, ok := attendance.FindOpen(snap.Attendance, st.Email, today); ok {
			row.OnShift = true
			signIn := open.SignIn
			row.SignedInAt = &signIn
			res.OnShift++
		}
		if last, ok := activitylog.LatestFor(snap.ActivityLogs, st.Email); ok {
			row.LastActivity = &last
		}
		res.Members = append(res.Members, row)
	}
	return res, nil
}
