package ai

import (
	"context"

	"github.com/flashdeck/flashdeck/internal/raster"
)

// Generator turns study material into raw model output expected to
// decode as a flashcard array. Implementations do not retry; a failed
// call is terminal for the request.
type Generator interface {
	FromText(ctx context.Context, text string) (string, error)
	FromImages(ctx context.Context, images []raster.PageImage) (string, error)
}

// Noop generates nothing; used when no provider is configured.
type Noop struct{}

func (Noop) FromText(ctx context.Context, text string) (string, error) { return "[]", nil }
func (Noop) FromImages(ctx context.Context, images []raster.PageImage) (string, error) {
	return "[]", nil
}
