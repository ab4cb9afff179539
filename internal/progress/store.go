package progress

import (
	"context"
	"errors"

	"github.com/spec-kit/tryon-service/internal/domain"
)

// ErrNotFound is returned for task ids that were never recorded (or were
// evicted). Callers must treat it as "unknown", distinct from a recorded
// failed entry.
var ErrNotFound = errors.New("progress entry not found")

// Store keeps the last-known state of remote try-on tasks. Record overwrites
// the entry for its task id; Get returns exactly the last-recorded entry.
type Store interface {
	Record(ctx context.Context, entry domain.ProgressEntry) error
	Get(ctx context.Context, taskID string) (*domain.ProgressEntry, error)
}
