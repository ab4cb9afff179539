package tryon

import "context"

// Remote task statuses reported by the provider.
const (
	StatusCreated    = "CREATED"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// ImageUpload carries one image part for a multipart provider call.
type ImageUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// CreateTaskInput describes one try-on job submission.
type CreateTaskInput struct {
	ModelImage ImageUpload
	ClothImage ImageUpload
	ClothType  string
	HDMode     bool
}

// TaskState is one observation of a remote task.
type TaskState struct {
	TaskID      string `json:"task_id"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	DownloadURL string `json:"download_signed_url"`
	Error       string `json:"error"`
}

// InputCheckResult is the provider's verdict on a candidate input image.
type InputCheckResult struct {
	Good   bool   `json:"is_good"`
	Reason string `json:"error_message"`
}

// Provider abstracts the remote try-on API: input pre-checks, asynchronous
// task creation and status lookup.
type Provider interface {
	CheckModelImage(ctx context.Context, image ImageUpload) (*InputCheckResult, error)
	CheckClothImage(ctx context.Context, image ImageUpload) (*InputCheckResult, error)
	CreateTask(ctx context.Context, input CreateTaskInput) (string, error)
	GetTask(ctx context.Context, taskID string) (*TaskState, error)
}

// Terminal reports whether the status admits no further transitions.
func Terminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}
