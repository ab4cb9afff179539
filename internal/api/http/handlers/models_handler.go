package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tryon-service/internal/api/dto"
	"github.com/spec-kit/tryon-service/internal/domain"
	"github.com/spec-kit/tryon-service/internal/storage"
)

// placeholderModelCount is how many catalog entries are synthesized when the
// store has no images yet, so the picker is never empty.
const placeholderModelCount = 4

// ModelsHandler serves the stock model catalog.
type ModelsHandler struct {
	store storage.ModelStore
}

// NewModelsHandler constructs handler.
func NewModelsHandler(store storage.ModelStore) *ModelsHandler {
	return &ModelsHandler{store: store}
}

// List handles GET /api/models.
func (h *ModelsHandler) List(c *fiber.Ctx) error {
	models, err := h.store.List(c.UserContext())
	if err != nil {
		return err
	}
	if len(models) == 0 {
		models = placeholderModels()
	}

	out := make([]dto.ModelResponse, 0, len(models))
	for _, m := range models {
		out = append(out, dto.ModelResponse{ID: m.ID, Name: m.Name, Image: m.Image})
	}
	return c.JSON(fiber.Map{"ok": true, "models": out})
}

func placeholderModels() []domain.StockModel {
	models := make([]domain.StockModel, 0, placeholderModelCount)
	for i := 1; i <= placeholderModelCount; i++ {
		models = append(models, domain.StockModel{
			ID:    fmt.Sprintf("model%d", i),
			Name:  fmt.Sprintf("Model %d", i),
			Image: fmt.Sprintf("https://placehold.co/300x400?text=Model+%d", i),
		})
	}
	return models
}
