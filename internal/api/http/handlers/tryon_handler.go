package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tryon-service/internal/api/dto"
	"github.com/spec-kit/tryon-service/internal/auth"
	"github.com/spec-kit/tryon-service/internal/service"
	"github.com/spec-kit/tryon-service/internal/tryon"
	apperrors "github.com/spec-kit/tryon-service/pkg/util"
)

// maxUploadBytes bounds each uploaded image.
const maxUploadBytes = 10 << 20

// TryOnHandler exposes the try-on pipeline endpoints.
type TryOnHandler struct {
	tryon *service.TryOnService
}

// NewTryOnHandler constructs handler.
func NewTryOnHandler(tryonService *service.TryOnService) *TryOnHandler {
	return &TryOnHandler{tryon: tryonService}
}

// Process handles POST /api/tryon/process (multipart: clothImage file,
// modelId field or modelImage file, optional cloth_type field).
func (h *TryOnHandler) Process(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	garmentFile, err := c.FormFile("clothImage")
	if err != nil {
		return apperrors.NewValidationError("clothImage file is required", nil)
	}
	garment, err := readUpload(garmentFile)
	if err != nil {
		return err
	}

	input := service.SubmitInput{
		UserID:    principal.User.ID,
		ModelID:   c.FormValue("modelId"),
		Garment:   *garment,
		ClothType: c.FormValue("cloth_type"),
	}
	if modelFile, err := c.FormFile("modelImage"); err == nil {
		modelUpload, err := readUpload(modelFile)
		if err != nil {
			return err
		}
		input.ModelUpload = modelUpload
	}

	result, err := h.tryon.Submit(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"ok":      true,
		"orderId": result.OrderID,
		"taskId":  result.TaskID,
		"status":  string(result.Status),
		"result": dto.TryOnResponse{
			OrderID:  result.OrderID,
			TaskID:   result.TaskID,
			Status:   string(result.Status),
			Degraded: result.Degraded,
		},
	})
}

// Status handles GET /api/tryon/status/:taskId.
func (h *TryOnHandler) Status(c *fiber.Ctx) error {
	taskID := c.Params("taskId")
	if taskID == "" {
		return apperrors.NewValidationError("taskId is required", nil)
	}

	entry, err := h.tryon.Progress(c.UserContext(), taskID)
	if err != nil {
		return err
	}

	resp := dto.NewProgressResponse(entry)
	return c.JSON(fiber.Map{
		"ok":          true,
		"taskId":      resp.TaskID,
		"status":      resp.Status,
		"progress":    resp.Progress,
		"downloadUrl": resp.DownloadURL,
		"error":       resp.Error,
		"updatedAt":   resp.UpdatedAt,
	})
}

func readUpload(header *multipart.FileHeader) (*tryon.ImageUpload, error) {
	if header.Size > maxUploadBytes {
		return nil, apperrors.NewValidationError("image exceeds the 10MB limit", nil)
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedImageType(contentType) {
		return nil, apperrors.NewValidationError("only jpeg and png images are accepted", nil)
	}

	f, err := header.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("unreadable upload", nil)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &tryon.ImageUpload{
		FileName:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func allowedImageType(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg", "image/png":
		return true
	default:
		return false
	}
}
