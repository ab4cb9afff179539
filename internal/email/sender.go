package email

import "context"

// Message is one outbound email.
type Message struct {
	ToEmail     string
	ToName      string
	Subject     string
	HTMLContent string
	TextContent string
}

// Sender delivers transactional email through a configured backend.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
