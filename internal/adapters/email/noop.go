package email

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// NoopSender stands in when GOODLIFE_RESEND_KEY is unset. Nothing leaves the
// process; each request is logged and kept so tests and the CLI can inspect it.
type NoopSender struct {
	mu   sync.Mutex
	sent []SendRequest
}

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send records req and reports it as accepted with id "noop-N".
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	s.mu.Lock()
	s.sent = append(s.sent, req)
	id := "noop-" + strconv.Itoa(len(s.sent))
	s.mu.Unlock()

	slog.Info("email_skipped", "message_id", id, "category", req.Category, "recipients", len(req.To), "subject", req.Subject)
	return SendResult{MessageID: id, SentAt: time.Now()}, nil
}

// Sent returns a copy of every request seen so far, oldest first.
func (s *NoopSender) Sent() []SendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SendRequest(nil), s.sent...)
}
