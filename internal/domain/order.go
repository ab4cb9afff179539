package domain

import "time"

// OrderStatus enumerates the order lifecycle. An order transitions at most
// once from Processing to a terminal state and is never mutated afterwards.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusDone       OrderStatus = "Done"
	OrderStatusFailed     OrderStatus = "Failed"
)

// Order is one try-on attempt in a user's history.
type Order struct {
	ID           string
	UserID       string
	TaskID       *string
	ModelRef     string
	GarmentImage string
	ResultURL    *string
	Status       OrderStatus
	ErrorDetail  *string
	Degraded     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Terminal reports whether the order reached an immutable state.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusDone || o.Status == OrderStatusFailed
}
