package storage

import (
	"context"
	"errors"
	"io"

	"github.com/spec-kit/tryon-service/internal/domain"
)

// ErrModelNotFound is returned for unknown stock model ids.
var ErrModelNotFound = errors.New("stock model not found")

// ModelStore lists the stock model catalog and opens individual model photos
// for submission to the try-on provider.
type ModelStore interface {
	List(ctx context.Context) ([]domain.StockModel, error)
	Open(ctx context.Context, id string) (io.ReadCloser, string, error)
}
