package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"goodlife/internal/adapters/aidraft"
	emailAdapter "goodlife/internal/adapters/email"
	"goodlife/internal/application/state"
	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/member"
	"goodlife/internal/domain/privilege"
)

// DefaultBroadcastConcurrency is the broadcast worker limit when none is configured.
const DefaultBroadcastConcurrency = 2

var (
	ErrEmptyMessage = errors.New("message cannot be empty")
	ErrNoRecipients = errors.New("no members match the selected audience")
	ErrNoEmail      = errors.New("member has no email address")
)

// CommunicationDeps holds dependencies for the messaging orchestrators.
type CommunicationDeps struct {
	State       *state.Container
	Email       emailAdapter.Sender
	Drafter     *aidraft.Drafter
	Concurrency int
	GenerateID  func() string
	Now         func() time.Time
}

// --- Send one ---

// SendMessageInput is a message to one member.
type SendMessageInput struct {
	Actor    Actor
	MemberID string
	Subject  string
	Message  string
}

// ExecuteSendMessage emails one member.
// PRE: Actor is a portal user; member exists; message non-empty
// POST: message handed to the mail provider
func ExecuteSendMessage(ctx context.Context, input SendMessageInput, deps CommunicationDeps) (emailAdapter.SendResult, error) {
	if !input.Actor.Role.IsPortalRole() {
		return emailAdapter.SendResult{}, ErrForbidden
	}
	if strings.TrimSpace(input.Message) == "" {
		return emailAdapter.SendResult{}, ErrEmptyMessage
	}
	m, ok := deps.State.Snapshot().MemberByID(input.MemberID)
	if !ok {
		return emailAdapter.SendResult{}, member.ErrNotFound
	}
	if strings.TrimSpace(m.Email) == "" {
		return emailAdapter.SendResult{}, ErrNoEmail
	}
	req, err := emailAdapter.General(emailAdapter.GeneralData{
		MemberName: m.FullName, MemberEmail: m.Email, Subject: input.Subject, Message: input.Message,
	})
	if err != nil {
		return emailAdapter.SendResult{}, err
	}
	sent, err := deps.Email.Send(ctx, req)
	if err != nil {
		return emailAdapter.SendResult{}, fmt.Errorf("send message: %w", err)
	}
	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryAdmin, activitylog.ActionSendMessage, fmt.Sprintf("%q to %s", req.Subject, m.FullName)))
	return sent, nil
}

// --- Broadcast ---

// BroadcastInput is a message to many members.
type BroadcastInput struct {
	Actor   Actor
	Subject string
	Message string
	// Status limits the audience; empty or "all" sends to every member.
	Status string
}

// BroadcastItem is the outcome for one recipient.
type BroadcastItem struct {
	MemberID string `json:"memberId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Sent     bool   `json:"sent"`
	Error    string `json:"error,omitempty"`
}

// BroadcastResult collects per-recipient outcomes in audience order.
type BroadcastResult struct {
	Total  int             `json:"total"`
	Sent   int             `json:"sent"`
	Failed int             `json:"failed"`
	Items  []BroadcastItem `json:"items"`
}

// ExecuteBroadcast sends a message to every member in the audience through a
// bounded worker queue. One failed recipient never stops the rest.
// PRE: Actor is a portal user; message non-empty
// POST: every recipient has exactly one BroadcastItem
func ExecuteBroadcast(ctx context.Context, input BroadcastInput, deps CommunicationDeps) (BroadcastResult, error) {
	if !input.Actor.Role.IsPortalRole() {
		return BroadcastResult{}, ErrForbidden
	}
	if strings.TrimSpace(input.Message) == "" {
		return BroadcastResult{}, ErrEmptyMessage
	}

	var audience []member.Member
	for _, m := range deps.State.Snapshot().Members {
		if strings.TrimSpace(m.Email) == "" {
			continue
		}
		if input.Status != "" && input.Status != "all" && string(m.Status) != input.Status {
			continue
		}
		audience = append(audience, m)
	}
	if len(audience) == 0 {
		return BroadcastResult{}, ErrNoRecipients
	}

	limit := deps.Concurrency
	if limit < 1 {
		limit = DefaultBroadcastConcurrency
	}
	items := make([]BroadcastItem, len(audience))
	var mu sync.Mutex
	sent := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, m := range audience {
		g.Go(func() error {
			item := BroadcastItem{MemberID: m.ID, Name: m.FullName, Email: m.Email}
			req, err := emailAdapter.General(emailAdapter.GeneralData{
				MemberName: m.FullName, MemberEmail: m.Email, Subject: input.Subject, Message: input.Message,
			})
			if err == nil {
				_, err = deps.Email.Send(gctx, req)
			}
			if err != nil {
				item.Error = err.Error()
				slog.Warn("broadcast_item_failed", "member_id", m.ID, "error", err)
			} else {
				item.Sent = true
				mu.Lock()
				sent++
				mu.Unlock()
			}
			items[i] = item
			return nil
		})
	}
	_ = g.Wait()

	result := BroadcastResult{Total: len(items), Sent: sent, Failed: len(items) - sent, Items: items}
	slog.Info("broadcast_complete", "by", input.Actor.Email, "total", result.Total, "sent", result.Sent, "failed", result.Failed)
	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryAdmin, activitylog.ActionBroadcastMessage,
			fmt.Sprintf("Sent to %d of %d members", result.Sent, result.Total)))
	return result, nil
}

// --- Draft ---

// DraftMessageInput asks for an AI-written message.
type DraftMessageInput struct {
	Actor    Actor
	Kind     string
	MemberID string // empty drafts a broadcast
}

// ExecuteDraftMessage drafts a message for a member or for everyone.
// PRE: Actor is a portal user
// POST: returns aidraft.NotConfigured when no model is configured
func ExecuteDraftMessage(ctx context.Context, input DraftMessageInput, deps CommunicationDeps) (string, error) {
	if !input.Actor.Role.IsPortalRole() {
		return "", ErrForbidden
	}
	kind, err := aidraft.ParseKind(input.Kind)
	if err != nil {
		return "", err
	}
	req := aidraft.BroadcastRequest()
	req.Kind = kind
	if input.MemberID != "" {
		m, ok := deps.State.Snapshot().MemberByID(input.MemberID)
		if !ok {
			return "", member.ErrNotFound
		}
		req = aidraft.DraftRequest{Kind: kind, MemberName: m.FullName, Plan: string(m.Plan), ExpiryDate: m.ExpiryDate}
	}
	return deps.Drafter.Draft(ctx, req)
}

// --- Test email ---

// TestEmailInput addresses the configuration check message.
type TestEmailInput struct {
	Actor Actor
	To    string // empty sends to the actor
}

// ExecuteTestEmail sends the configuration check message.
// PRE: Actor is Super-Admin
func ExecuteTestEmail(ctx context.Context, input TestEmailInput, deps CommunicationDeps) (emailAdapter.SendResult, error) {
	if input.Actor.Role != privilege.RoleSuperAdmin {
		return emailAdapter.SendResult{}, ErrForbidden
	}
	to := strings.TrimSpace(input.To)
	if to == "" {
		to = input.Actor.Email
	}
	sent, err := deps.Email.Send(ctx, emailAdapter.Test(to))
	if err != nil {
		return emailAdapter.SendResult{}, fmt.Errorf("send test email: %w", err)
	}
	return sent, nil
}
