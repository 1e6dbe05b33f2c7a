package email

import (
	"context"
	"time"
)

// Category tags a message so provider dashboards can split receipts from broadcasts.
type Category string

const (
	CategoryWelcome Category = "welcome"
	CategoryPayment Category = "payment"
	CategoryMessage Category = "message"
	CategoryTest    Category = "test"
)

// SendRequest is one outgoing message.
type SendRequest struct {
	To       []string
	From     string // empty uses the sender's configured address
	ReplyTo  string // empty uses the sender's configured reply-to
	Subject  string
	HTML     string
	Category Category
}

// SendResult is what the provider accepted.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers one message. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
