package dto

import (
	"time"

	"github.com/spec-kit/tryon-service/internal/domain"
)

// TryOnResponse reports an accepted try-on request.
type TryOnResponse struct {
	OrderID  string  `json:"orderId"`
	TaskID   *string `json:"taskId,omitempty"`
	Status   string  `json:"status"`
	Degraded bool    `json:"degraded,omitempty"`
}

// ProgressResponse reports the latest observed task state.
type ProgressResponse struct {
	TaskID      string    `json:"taskId"`
	Status      string    `json:"status"`
	Progress    int       `json:"progress"`
	DownloadURL string    `json:"downloadUrl,omitempty"`
	Error       string    `json:"error,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewProgressResponse maps a progress entry.
func NewProgressResponse(entry *domain.ProgressEntry) ProgressResponse {
	return ProgressResponse{
		TaskID:      entry.TaskID,
		Status:      entry.Status,
		Progress:    entry.Progress,
		DownloadURL: entry.DownloadURL,
		Error:       entry.Error,
		UpdatedAt:   entry.UpdatedAt,
	}
}

// ModelResponse is one stock model catalog entry.
type ModelResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}
