package aidraft_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodlife/internal/adapters/aidraft"
)

type fakeGenerator struct {
	prompt string
	reply  string
	err    error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func TestDraft_NotConfigured(t *testing.T) {
	d := aidraft.NewDrafter(nil)
	assert.False(t, d.Configured())

	text, err := d.Draft(context.Background(), aidraft.BroadcastRequest())
	require.NoError(t, err)
	assert.Equal(t, aidraft.NotConfigured, text)

	text, err = d.Summary(context.Background(), aidraft.SummaryStats{})
	require.NoError(t, err)
	assert.Equal(t, aidraft.NotConfigured, text)
}

func TestDraft_PromptCarriesMemberContext(t *testing.T) {
	gen := &fakeGenerator{reply: "  Hello Ama!  "}
	d := aidraft.NewDrafter(gen)

	text, err := d.Draft(context.Background(), aidraft.DraftRequest{
		Kind:       aidraft.KindExpiry,
		MemberName: "Ama",
		Plan:       "Monthly",
		ExpiryDate: "2026-05-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ama!", text)
	assert.Contains(t, gen.prompt, "friendly expiry message")
	assert.Contains(t, gen.prompt, "Name: Ama, Plan: Monthly, Expiry Date: 2026-05-01")
}

func TestBroadcastPrompt(t *testing.T) {
	p := aidraft.MessagePrompt(aidraft.BroadcastRequest())
	assert.Contains(t, p, "friendly general message")
	assert.Contains(t, p, "Name: All Members, Plan: All Plans.")
	assert.NotContains(t, p, "Expiry Date")
}

func TestDraft_Failures(t *testing.T) {
	d := aidraft.NewDrafter(&fakeGenerator{err: errors.New("quota exceeded")})
	_, err := d.Draft(context.Background(), aidraft.BroadcastRequest())
	assert.ErrorContains(t, err, "quota exceeded")

	d = aidraft.NewDrafter(&fakeGenerator{reply: "   "})
	_, err = d.Summary(context.Background(), aidraft.SummaryStats{Active: 3})
	assert.ErrorIs(t, err, aidraft.ErrEmptyDraft)
}

func TestParseKind(t *testing.T) {
	k, err := aidraft.ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, aidraft.KindGeneral, k)

	k, err = aidraft.ParseKind("Reminder")
	require.NoError(t, err)
	assert.Equal(t, aidraft.KindReminder, k)

	_, err = aidraft.ParseKind("promo")
	assert.ErrorIs(t, err, aidraft.ErrUnknownKind)
}

func TestSummaryPrompt(t *testing.T) {
	p := aidraft.SummaryPrompt(aidraft.SummaryStats{Active: 1, Expiring: 1, Expired: 1, Total: 3, Revenue: 3600})
	assert.Contains(t, p, "Active Members: 1")
	assert.Contains(t, p, "Total Revenue: ₵3600.00")
	assert.Contains(t, p, "Total Registered: 3")
}
