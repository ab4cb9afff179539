package dto

import (
	"time"

	"github.com/spec-kit/tryon-service/internal/domain"
)

// OrderResponse is one order ledger entry.
type OrderResponse struct {
	ID           string    `json:"id"`
	TaskID       *string   `json:"taskId,omitempty"`
	ModelRef     string    `json:"modelRef"`
	GarmentImage string    `json:"garmentImage"`
	ResultURL    *string   `json:"resultUrl,omitempty"`
	Status       string    `json:"status"`
	ErrorDetail  *string   `json:"errorDetail,omitempty"`
	Degraded     bool      `json:"degraded,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewOrderResponse maps a domain order.
func NewOrderResponse(order domain.Order) OrderResponse {
	return OrderResponse{
		ID:           order.ID,
		TaskID:       order.TaskID,
		ModelRef:     order.ModelRef,
		GarmentImage: order.GarmentImage,
		ResultURL:    order.ResultURL,
		Status:       string(order.Status),
		ErrorDetail:  order.ErrorDetail,
		Degraded:     order.Degraded,
		CreatedAt:    order.CreatedAt,
	}
}

// NewOrderListResponse maps a slice of orders.
func NewOrderListResponse(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, NewOrderResponse(order))
	}
	return out
}
