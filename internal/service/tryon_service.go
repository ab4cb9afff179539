package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/tryon-service/internal/config"
	"github.com/spec-kit/tryon-service/internal/domain"
	"github.com/spec-kit/tryon-service/internal/events"
	"github.com/spec-kit/tryon-service/internal/progress"
	"github.com/spec-kit/tryon-service/internal/repository"
	"github.com/spec-kit/tryon-service/internal/storage"
	"github.com/spec-kit/tryon-service/internal/tryon"
	apperrors "github.com/spec-kit/tryon-service/pkg/util"
)

// maxModelImageBytes bounds stock model reads when forwarding to the provider.
const maxModelImageBytes = 20 << 20

// SubmitInput carries one try-on request. Exactly one of ModelID or
// ModelUpload selects the person photo.
type SubmitInput struct {
	UserID      string
	ModelID     string
	ModelUpload *tryon.ImageUpload
	Garment     tryon.ImageUpload
	ClothType   string
}

// SubmitResult reports the accepted order. TaskID is nil when the request
// was resolved synchronously via the degraded fallback.
type SubmitResult struct {
	OrderID  string
	TaskID   *string
	Status   domain.OrderStatus
	Degraded bool
}

// TryOnService owns the try-on pipeline: resolve inputs, submit to the
// provider, drive polling in the background and settle the order ledger.
type TryOnService struct {
	orders       repository.OrderRepository
	progress     progress.Store
	orchestrator *tryon.Orchestrator
	models       storage.ModelStore
	dispatcher   events.Dispatcher
	logger       *zap.Logger

	defaultClothType string
	hdMode           bool
	fallback         bool
	historyLimit     int

	background sync.WaitGroup
}

// TryOnDependencies encapsulates requirements for the try-on service.
type TryOnDependencies struct {
	OrderRepo    repository.OrderRepository
	Progress     progress.Store
	Orchestrator *tryon.Orchestrator
	Models       storage.ModelStore
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewTryOnService builds the service.
func NewTryOnService(cfg config.Config, deps TryOnDependencies) *TryOnService {
	return &TryOnService{
		orders:           deps.OrderRepo,
		progress:         deps.Progress,
		orchestrator:     deps.Orchestrator,
		models:           deps.Models,
		dispatcher:       deps.Dispatcher,
		logger:           deps.Logger,
		defaultClothType: cfg.TryOn.DefaultClothType,
		hdMode:           cfg.TryOn.HDMode,
		fallback:         cfg.TryOn.FallbackPlaceholder,
		historyLimit:     cfg.Orders.HistoryLimit,
	}
}

// Submit validates the request, creates the remote task and returns as soon
// as the order is recorded. Polling continues in the background; the caller
// tracks it through the progress endpoint.
func (s *TryOnService) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	if len(input.Garment.Data) == 0 {
		return nil, apperrors.NewValidationError("garment image is required", nil)
	}

	modelImage, modelRef, err := s.resolveModel(ctx, input)
	if err != nil {
		return nil, err
	}

	clothType := input.ClothType
	if clothType == "" {
		clothType = s.defaultClothType
	}

	garmentDataURI := imageDataURI(input.Garment)

	taskID, err := s.orchestrator.Submit(ctx, tryon.CreateTaskInput{
		ModelImage: modelImage,
		ClothImage: input.Garment,
		ClothType:  clothType,
		HDMode:     s.hdMode,
	})
	if err != nil {
		if errors.Is(err, tryon.ErrInvalidInput) {
			return nil, apperrors.NewValidationError(err.Error(), nil)
		}
		var subErr *tryon.SubmissionError
		if errors.As(err, &subErr) && s.fallback {
			return s.degradedOrder(ctx, input.UserID, modelRef, garmentDataURI, modelImage, input.Garment, subErr.Error())
		}
		return nil, apperrors.NewUpstreamError("try-on provider unavailable", err)
	}

	order := &domain.Order{
		UserID:       input.UserID,
		TaskID:       &taskID,
		ModelRef:     modelRef,
		GarmentImage: garmentDataURI,
		Status:       domain.OrderStatusProcessing,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventOrderCreated, order.UserID, events.OrderCreatedPayload{
		OrderID:  order.ID,
		TaskID:   order.TaskID,
		ModelRef: order.ModelRef,
	})
	if err := s.orders.Prune(ctx, input.UserID, s.historyLimit); err != nil {
		s.logger.Warn("prune orders failed", zap.String("user_id", input.UserID), zap.Error(err))
	}

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		// Detach from the request so a client disconnect never cancels
		// a submitted job; bound by the polling budget instead.
		s.awaitAndSettle(context.Background(), order, taskID, modelImage, input.Garment)
	}()

	return &SubmitResult{OrderID: order.ID, TaskID: order.TaskID, Status: order.Status}, nil
}

// Progress reports the latest observed state for a task.
func (s *TryOnService) Progress(ctx context.Context, taskID string) (*domain.ProgressEntry, error) {
	entry, err := s.progress.Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			return nil, apperrors.NewDomainError("TASK_NOT_FOUND", "task not found",
				http.StatusNotFound, map[string]any{"task_id": taskID})
		}
		return nil, err
	}
	return entry, nil
}

// ListOrders returns the caller's order history, newest first.
func (s *TryOnService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// Wait blocks until all background polling goroutines finish. Used during
// graceful shutdown and in tests.
func (s *TryOnService) Wait() {
	s.background.Wait()
}

func (s *TryOnService) resolveModel(ctx context.Context, input SubmitInput) (tryon.ImageUpload, string, error) {
	if input.ModelUpload != nil && len(input.ModelUpload.Data) > 0 {
		return *input.ModelUpload, "custom", nil
	}
	if input.ModelID == "" {
		return tryon.ImageUpload{}, "", apperrors.NewValidationError("a model selection or model photo is required", nil)
	}

	reader, contentType, err := s.models.Open(ctx, input.ModelID)
	if err != nil {
		if errors.Is(err, storage.ErrModelNotFound) {
			return tryon.ImageUpload{}, "", apperrors.NewValidationError(
				fmt.Sprintf("unknown model %q", input.ModelID), nil)
		}
		return tryon.ImageUpload{}, "", err
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, maxModelImageBytes))
	if err != nil {
		return tryon.ImageUpload{}, "", err
	}
	return tryon.ImageUpload{
		FileName:    input.ModelID + extensionFor(contentType),
		ContentType: contentType,
		Data:        data,
	}, input.ModelID, nil
}

// awaitAndSettle polls under the orchestrator budget and writes the terminal
// order state. The budget can already be spent when Await returns, so the
// settlement write runs on a context that survives the deadline.
func (s *TryOnService) awaitAndSettle(parent context.Context, order *domain.Order, taskID string, model, garment tryon.ImageUpload) {
	ctx, cancel := context.WithTimeout(parent, s.orchestrator.Budget())
	defer cancel()
	outcome := s.orchestrator.Await(ctx, taskID)
	s.settle(context.WithoutCancel(ctx), order, outcome, model, garment)
}

// settle writes the terminal order state once polling ends.
func (s *TryOnService) settle(ctx context.Context, order *domain.Order, outcome tryon.Outcome, model, garment tryon.ImageUpload) {
	switch outcome.State {
	case tryon.OutcomeCompleted:
		order.Status = domain.OrderStatusDone
		order.ResultURL = &outcome.ImageURL
	default:
		if s.fallback {
			placeholder := compositePlaceholder(model, garment)
			order.Status = domain.OrderStatusDone
			order.ResultURL = &placeholder
			order.Degraded = true
			order.ErrorDetail = &outcome.Reason
		} else {
			order.Status = domain.OrderStatusFailed
			order.ErrorDetail = &outcome.Reason
		}
	}

	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Error("settle order failed",
			zap.String("order_id", order.ID),
			zap.String("outcome", string(outcome.State)),
			zap.Error(err))
		return
	}

	if order.Status == domain.OrderStatusDone {
		s.publish(ctx, events.EventOrderCompleted, order.UserID, events.OrderCompletedPayload{
			OrderID:   order.ID,
			ResultURL: *order.ResultURL,
			Degraded:  order.Degraded,
		})
	} else {
		s.publish(ctx, events.EventOrderFailed, order.UserID, events.OrderFailedPayload{
			OrderID: order.ID,
			Status:  order.Status,
			Reason:  outcome.Reason,
		})
	}
}

// degradedOrder records a completed-with-placeholder order when submission
// itself failed and the fallback is enabled. The real failure is preserved
// in the error detail.
func (s *TryOnService) degradedOrder(ctx context.Context, userID, modelRef, garmentDataURI string, model, garment tryon.ImageUpload, reason string) (*SubmitResult, error) {
	placeholder := compositePlaceholder(model, garment)
	order := &domain.Order{
		UserID:       userID,
		ModelRef:     modelRef,
		GarmentImage: garmentDataURI,
		ResultURL:    &placeholder,
		Status:       domain.OrderStatusDone,
		ErrorDetail:  &reason,
		Degraded:     true,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventOrderCreated, userID, events.OrderCreatedPayload{
		OrderID:  order.ID,
		ModelRef: modelRef,
	})
	s.publish(ctx, events.EventOrderCompleted, userID, events.OrderCompletedPayload{
		OrderID:   order.ID,
		ResultURL: placeholder,
		Degraded:  true,
	})
	if err := s.orders.Prune(ctx, userID, s.historyLimit); err != nil {
		s.logger.Warn("prune orders failed", zap.String("user_id", userID), zap.Error(err))
	}

	s.logger.Warn("try-on degraded to placeholder result", zap.String("order_id", order.ID), zap.String("reason", reason))
	return &SubmitResult{OrderID: order.ID, Status: order.Status, Degraded: true}, nil
}

func (s *TryOnService) publish(ctx context.Context, eventType events.EventType, userID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func imageDataURI(img tryon.ImageUpload) string {
	contentType := img.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

func extensionFor(contentType string) string {
	if contentType == "image/png" {
		return ".png"
	}
	return ".jpg"
}
