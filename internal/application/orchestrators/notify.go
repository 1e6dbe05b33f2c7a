package orchestrators

import (
	"context"
	"log/slog"

	emailAdapter "goodlife/internal/adapters/email"
)

// notify sends a built message. Delivery problems never fail the caller's
// action; they come back as a warning for the response.
func notify(ctx context.Context, sender emailAdapter.Sender, kind string, req emailAdapter.SendRequest, buildErr error) string {
	if sender == nil {
		return ""
	}
	if buildErr != nil {
		slog.Warn("email_build_failed", "kind", kind, "error", buildErr)
		return kind + " email could not be prepared"
	}
	if len(req.To) == 0 || req.To[0] == "" {
		return ""
	}
	if _, err := sender.Send(ctx, req); err != nil {
		slog.Warn("email_send_failed", "kind", kind, "to", req.To, "error", err)
		return kind + " email could not be sent: " + err.Error()
	}
	return ""
}

func appendWarning(ws []string, w string) []string {
	if w == "" {
		return ws
	}
	return append(ws, w)
}
