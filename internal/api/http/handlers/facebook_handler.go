package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tryon-service/internal/domain"
	"github.com/spec-kit/tryon-service/internal/oauth"
	"github.com/spec-kit/tryon-service/internal/service"
	apperrors "github.com/spec-kit/tryon-service/pkg/util"
)

// FacebookHandler implements Facebook's data deletion callback: the platform
// posts a signed_request naming the user to erase, and the response points it
// at a status URL it can poll with the confirmation code.
type FacebookHandler struct {
	auth          *service.AuthService
	appSecret     string
	publicBaseURL string
}

// NewFacebookHandler constructs handler.
func NewFacebookHandler(auth *service.AuthService, appSecret, publicBaseURL string) *FacebookHandler {
	return &FacebookHandler{auth: auth, appSecret: appSecret, publicBaseURL: publicBaseURL}
}

// DataDeletion handles POST /api/facebook/data-deletion.
func (h *FacebookHandler) DataDeletion(c *fiber.Ctx) error {
	signedRequest := c.FormValue("signed_request")
	if signedRequest == "" {
		return apperrors.NewValidationError("signed_request is required", nil)
	}

	payload, err := oauth.ParseSignedRequest(signedRequest, h.appSecret)
	if err != nil {
		return apperrors.NewValidationError("invalid signed_request", map[string]any{"reason": err.Error()})
	}

	code, err := h.auth.DeleteProviderData(c.UserContext(), domain.ProviderFacebook, payload.UserID)
	if err != nil {
		return err
	}

	// Response shape required by the deletion callback contract.
	return c.JSON(fiber.Map{
		"url":               fmt.Sprintf("%s/api/facebook/deletion-status?code=%s", h.publicBaseURL, code),
		"confirmation_code": code,
	})
}

// DeletionStatus handles GET /api/facebook/deletion-status.
func (h *FacebookHandler) DeletionStatus(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return apperrors.NewValidationError("code is required", nil)
	}

	status, ok := h.auth.DeletionStatus(code)
	if !ok {
		return apperrors.NewNotFound("deletion request", map[string]any{"code": code})
	}
	return c.JSON(fiber.Map{"ok": true, "code": code, "status": status})
}
