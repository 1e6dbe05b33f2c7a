// Package aidraft drafts member messages and dashboard summaries with a
// generative-text model.
package aidraft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// NotConfigured is returned in place of a draft when no API key is set.
const NotConfigured = "AI service is not configured. Please add your Gemini API key to the .env file."

// Broadcast drafts address every member at once.
const (
	BroadcastName = "All Members"
	BroadcastPlan = "All Plans"
)

// Kind is the purpose of a drafted message.
type Kind string

const (
	KindWelcome  Kind = "welcome"
	KindReminder Kind = "reminder"
	KindExpiry   Kind = "expiry"
	KindGeneral  Kind = "general"
)

var (
	ErrUnknownKind = errors.New("message type must be welcome, reminder, expiry or general")
	ErrEmptyDraft  = errors.New("no response from AI")
)

// ParseKind resolves a message type; empty means general.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindGeneral, nil
	case KindWelcome, KindReminder, KindExpiry, KindGeneral:
		return k, nil
	}
	return "", ErrUnknownKind
}

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Drafter builds prompts and delegates to a Generator.
// A Drafter with no generator answers every request with NotConfigured.
type Drafter struct {
	gen Generator
}

// NewDrafter wraps gen; gen may be nil.
func NewDrafter(gen Generator) *Drafter {
	return &Drafter{gen: gen}
}

// Configured reports whether drafts reach a model.
func (d *Drafter) Configured() bool {
	return d != nil && d.gen != nil
}

// DraftRequest describes the member a message is for.
type DraftRequest struct {
	Kind       Kind
	MemberName string
	Plan       string
	ExpiryDate string
}

// BroadcastRequest is the draft request used for messages to everyone.
func BroadcastRequest() DraftRequest {
	return DraftRequest{Kind: KindGeneral, MemberName: BroadcastName, Plan: BroadcastPlan}
}

// MessagePrompt renders the drafting prompt for req.
func MessagePrompt(req DraftRequest) string {
	kind := req.Kind
	if kind == "" {
		kind = KindGeneral
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Write a professional and friendly %s message for a gym member at \"Goodlife Fitness\".\n", kind)
	fmt.Fprintf(&b, "Name: %s, Plan: %s", req.MemberName, req.Plan)
	if req.ExpiryDate != "" {
		fmt.Fprintf(&b, ", Expiry Date: %s", req.ExpiryDate)
	}
	b.WriteString(".\nKeep it concise and motivating. Use placeholders like [Gym Phone] and [Gym Email].")
	return b.String()
}

// Draft writes a message for one member or a broadcast.
// POST: returns NotConfigured with a nil error when no generator is set
func (d *Drafter) Draft(ctx context.Context, req DraftRequest) (string, error) {
	if !d.Configured() {
		return NotConfigured, nil
	}
	return d.generate(ctx, "draft_message", MessagePrompt(req))
}

// SummaryStats are the dashboard figures summarised for management.
type SummaryStats struct {
	Active   int
	Expiring int
	Expired  int
	Total    int
	Revenue  float64
}

// SummaryPrompt renders the business-health prompt for stats.
func SummaryPrompt(s SummaryStats) string {
	return fmt.Sprintf(`You are a business analyst for a gym management system. Based on these statistics, provide a brief, professional summary of business health and 3 actionable recommendations for management:

Statistics:
- Active Members: %d
- Expiring Soon: %d
- Expired Memberships: %d
- Total Revenue: ₵%.2f
- Total Registered: %d

Provide insights in a clear, actionable format.`, s.Active, s.Expiring, s.Expired, s.Revenue, s.Total)
}

// Summary writes a short business-health summary.
func (d *Drafter) Summary(ctx context.Context, s SummaryStats) (string, error) {
	if !d.Configured() {
		return NotConfigured, nil
	}
	return d.generate(ctx, "draft_summary", SummaryPrompt(s))
}

func (d *Drafter) generate(ctx context.Context, event, prompt string) (string, error) {
	text, err := d.gen.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("ai_draft_failed", "event", event, "error", err)
		return "", fmt.Errorf("generate: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyDraft
	}
	slog.Info("ai_draft", "event", event, "chars", len(text))
	return text, nil
}
