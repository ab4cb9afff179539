package tryon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/tryon-service/internal/domain"
	"github.com/spec-kit/tryon-service/internal/progress"
)

// ErrInvalidInput marks inputs rejected before submission (missing images or
// failed provider pre-checks).
var ErrInvalidInput = errors.New("invalid try-on input")

// SubmissionError wraps a failure to obtain a task id from the provider.
// Submission failures are terminal at this layer and never retried.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("try-on submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// OutcomeState enumerates terminal orchestration results.
type OutcomeState string

const (
	OutcomeCompleted OutcomeState = "COMPLETED"
	OutcomeFailed    OutcomeState = "FAILED"
	OutcomeTimedOut  OutcomeState = "TIMED_OUT"
)

// Outcome is the terminal result of driving one task. Only OutcomeCompleted
// carries an image URL; failure states carry a reason instead, never both.
type Outcome struct {
	State    OutcomeState
	TaskID   string
	ImageURL string
	Reason   string
}

// Orchestrator drives one garment-fitting task to completion against the
// remote provider: validate, submit, then poll at a fixed cadence until a
// terminal status or the attempt budget runs out.
type Orchestrator struct {
	provider    Provider
	progress    progress.Store
	logger      *zap.Logger
	interval    time.Duration
	maxAttempts int
}

// NewOrchestrator constructs the orchestrator.
func NewOrchestrator(provider Provider, store progress.Store, logger *zap.Logger, interval time.Duration, maxAttempts int) *Orchestrator {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 60
	}
	return &Orchestrator{
		provider:    provider,
		progress:    store,
		logger:      logger,
		interval:    interval,
		maxAttempts: maxAttempts,
	}
}

// Budget returns the worst-case wall-clock polling window, used by callers
// to bound the background context.
func (o *Orchestrator) Budget() time.Duration {
	return time.Duration(o.maxAttempts)*o.interval + 30*time.Second
}

// Submit validates both images through the provider's pre-checks and creates
// the remote task. No progress entry exists until submission succeeds.
func (o *Orchestrator) Submit(ctx context.Context, input CreateTaskInput) (string, error) {
	if len(input.ModelImage.Data) == 0 || len(input.ClothImage.Data) == 0 {
		return "", fmt.Errorf("%w: model and cloth images required", ErrInvalidInput)
	}

	modelCheck, err := o.provider.CheckModelImage(ctx, input.ModelImage)
	if err != nil {
		return "", &SubmissionError{Err: err}
	}
	if !modelCheck.Good {
		return "", fmt.Errorf("%w: model image rejected: %s", ErrInvalidInput, modelCheck.Reason)
	}

	clothCheck, err := o.provider.CheckClothImage(ctx, input.ClothImage)
	if err != nil {
		return "", &SubmissionError{Err: err}
	}
	if !clothCheck.Good {
		return "", fmt.Errorf("%w: cloth image rejected: %s", ErrInvalidInput, clothCheck.Reason)
	}

	taskID, err := o.provider.CreateTask(ctx, input)
	if err != nil {
		return "", &SubmissionError{Err: err}
	}

	o.logger.Info("try-on task created", zap.String("task_id", taskID))
	return taskID, nil
}

// Await polls the task until it reaches a terminal state or the attempt
// budget is exhausted. Every observation overwrites the progress entry for
// the task id.
func (o *Orchestrator) Await(ctx context.Context, taskID string) Outcome {
	o.record(ctx, domain.ProgressEntry{TaskID: taskID, Status: StatusCreated, Progress: 0})

	lastStatus := StatusCreated
	lastProgress := 0

	for attempt := 0; attempt < o.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			reason := "polling canceled: " + ctx.Err().Error()
			o.record(context.WithoutCancel(ctx), domain.ProgressEntry{TaskID: taskID, Status: lastStatus, Progress: lastProgress, Error: reason})
			return Outcome{State: OutcomeTimedOut, TaskID: taskID, Reason: reason}
		case <-time.After(o.interval):
		}

		state, err := o.provider.GetTask(ctx, taskID)
		if err != nil {
			reason := "status check failed: " + err.Error()
			o.logger.Warn("try-on status check failed", zap.String("task_id", taskID), zap.Error(err))
			o.record(ctx, domain.ProgressEntry{TaskID: taskID, Status: StatusFailed, Progress: lastProgress, Error: reason})
			return Outcome{State: OutcomeFailed, TaskID: taskID, Reason: reason}
		}

		lastStatus = state.Status
		lastProgress = state.Progress

		switch state.Status {
		case StatusCompleted:
			o.record(ctx, domain.ProgressEntry{TaskID: taskID, Status: StatusCompleted, Progress: 100, DownloadURL: state.DownloadURL})
			o.logger.Info("try-on task completed", zap.String("task_id", taskID))
			return Outcome{State: OutcomeCompleted, TaskID: taskID, ImageURL: state.DownloadURL}
		case StatusFailed:
			reason := state.Error
			if reason == "" {
				reason = "unknown provider error"
			}
			o.record(ctx, domain.ProgressEntry{TaskID: taskID, Status: StatusFailed, Progress: state.Progress, Error: reason})
			return Outcome{State: OutcomeFailed, TaskID: taskID, Reason: reason}
		default:
			o.record(ctx, domain.ProgressEntry{TaskID: taskID, Status: state.Status, Progress: state.Progress})
		}
	}

	reason := fmt.Sprintf("task timed out after %s", time.Duration(o.maxAttempts)*o.interval)
	o.record(ctx, domain.ProgressEntry{TaskID: taskID, Status: lastStatus, Progress: lastProgress, Error: reason})
	return Outcome{State: OutcomeTimedOut, TaskID: taskID, Reason: reason}
}

func (o *Orchestrator) record(ctx context.Context, entry domain.ProgressEntry) {
	entry.UpdatedAt = time.Now()
	if err := o.progress.Record(ctx, entry); err != nil {
		o.logger.Warn("record progress failed", zap.String("task_id", entry.TaskID), zap.Error(err))
	}
}
