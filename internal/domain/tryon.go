package domain

import "time"

// StockModel describes a selectable stock model photo.
type StockModel struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// ProgressEntry is the ephemeral last-known state of a remote try-on task,
// keyed by the provider-assigned task id. Overwritten on every poll.
type ProgressEntry struct {
	TaskID      string    `json:"task_id"`
	Status      string    `json:"status"`
	Progress    int       `json:"progress"`
	DownloadURL string    `json:"download_url,omitempty"`
	Error       string    `json:"error,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
