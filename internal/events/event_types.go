package events

import (
	"time"

	"github.com/spec-kit/tryon-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventOrderCreated   EventType = "order_created"
	EventOrderCompleted EventType = "order_completed"
	EventOrderFailed    EventType = "order_failed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	VerificationURL string `json:"verification_url,omitempty"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	OrderID  string  `json:"order_id"`
	TaskID   *string `json:"task_id,omitempty"`
	ModelRef string  `json:"model_ref"`
}

// OrderCompletedPayload payload.
type OrderCompletedPayload struct {
	OrderID   string `json:"order_id"`
	ResultURL string `json:"result_url"`
	Degraded  bool   `json:"degraded"`
}

// OrderFailedPayload payload.
type OrderFailedPayload struct {
	OrderID string             `json:"order_id"`
	Status  domain.OrderStatus `json:"status"`
	Reason  string             `json:"reason"`
}
