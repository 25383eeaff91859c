package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	logpkg "github.com/imaginify/imaginify/internal/logger"
	"github.com/imaginify/imaginify/internal/services/images"
	"github.com/imaginify/imaginify/internal/validation"
)

// MaxPromptLength is the maximum length for image prompts
const MaxPromptLength = 1000

// ImagesHandler proxies image generation through the server so the OpenAI
// credential never reaches the browser
type ImagesHandler struct {
	provider images.Provider
	logger   *zap.Logger
}

// NewImagesHandler creates a new image generation handler. provider may be
// nil when no API key is configured; generation then responds 503.
func NewImagesHandler(provider images.Provider, logger *zap.Logger) *ImagesHandler {
	return &ImagesHandler{provider: provider, logger: logger}
}

// RegisterRoutes registers image routes on the given router.
// The router should already have the /images prefix.
func (h *ImagesHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/generations", h.GenerateImage).Methods("POST")
}

// GenerateImageRequest represents an image generation request
type GenerateImageRequest struct {
	Prompt string `json:"prompt" validate:"required,min=1,max=1000"`
}

// GenerateImageResponse carries the URL of the generated image
type GenerateImageResponse struct {
	URL string `json:"url"`
}

// GenerateImage generates one square image for the submitted prompt
func (h *ImagesHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Image generation is not configured")
		return
	}

	var req GenerateImageRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	req.Prompt = validation.SanitizeText(req.Prompt)

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", validationErrors[0].Error()))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	url, err := h.provider.Generate(r.Context(), req.Prompt)
	if err != nil {
		h.logger.Error("image_generation_failed",
			zap.String("prompt", logpkg.SanitizeString(req.Prompt, logpkg.MaxPromptLength)),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway", "Image generation failed")
		return
	}

	respondJSON(w, http.StatusOK, GenerateImageResponse{URL: url})
}
