package images

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	logpkg "github.com/imaginify/imaginify/internal/logger"
)

const (
	// DefaultModel is the default image model to use
	DefaultModel = openai.ImageModelDallE2
	// DefaultBaseURL is the default OpenAI API base URL
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 60 * time.Second

	// imageSize matches the square size the page has always requested
	imageSize = openai.ImageGenerateParamsSize512x512
)

// OpenAIProvider implements the Provider interface using OpenAI's Images API
type OpenAIProvider struct {
	client openai.Client
	model  openai.ImageModel
	logger *zap.Logger
}

// NewOpenAIProvider creates a new OpenAI image provider
func NewOpenAIProvider(apiKey, baseURL, model string, logger *zap.Logger) *OpenAIProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	imageModel := DefaultModel
	if model != "" {
		imageModel = openai.ImageModel(model)
	}

	httpClient := &http.Client{
		Timeout: DefaultTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAIProvider{
		client: client,
		model:  imageModel,
		logger: logger,
	}
}

// Generate requests exactly one square image for the prompt and returns its URL
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	res, err := p.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          p.model,
		N:              openai.Int(1),
		Size:           imageSize,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatURL,
	})
	if err != nil {
		if p.logger != nil {
			p.logger.Error("image_generation_request_failed",
				zap.String("model", string(p.model)),
				zap.Error(err),
			)
		}
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	if len(res.Data) == 0 || res.Data[0].URL == "" {
		return "", fmt.Errorf("%w: empty response", ErrGeneration)
	}

	if p.logger != nil {
		p.logger.Debug("image_generated",
			zap.String("model", string(p.model)),
			zap.String("prompt", logpkg.SanitizeString(prompt, logpkg.MaxPromptLength)),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	}

	return res.Data[0].URL, nil
}

var _ Provider = (*OpenAIProvider)(nil)
