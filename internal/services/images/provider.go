package images

import (
	"context"
	"errors"
)

// ErrGeneration indicates the upstream image API failed or returned nothing usable
var ErrGeneration = errors.New("image generation failed")

// Provider is the interface for image-generation backends
type Provider interface {
	// Generate produces one image for the prompt and returns its URL
	Generate(ctx context.Context, prompt string) (string, error)
}
