package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/genstudio/genstudio/internal/auth"
	"github.com/genstudio/genstudio/internal/generation"
	"github.com/genstudio/genstudio/internal/handler/dto"
	"github.com/genstudio/genstudio/internal/middleware"
	"github.com/genstudio/genstudio/internal/model"
)

// Accepted option values and their defaults.
var (
	TextModels  = []string{"gpt-3.5-turbo", "gpt-4", "gpt-oss-20b"}
	ImageSizes  = []string{"256x256", "512x512", "1024x1024"}
	ImageStyles = []string{"realistic", "artistic", "cartoon"}
	Voices      = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}
	VoiceModels = []string{"eleven_monolingual_v1", "eleven_multilingual_v1"}
)

const (
	DefaultTextModel  = "gpt-3.5-turbo"
	DefaultMaxTokens  = 1000
	MinMaxTokens      = 1
	MaxMaxTokens      = 4000
	DefaultImageSize  = "512x512"
	DefaultImageStyle = "realistic"
	DefaultVoice      = "alloy"
	DefaultVoiceModel = "eleven_monolingual_v1"
)

// ActivityRecorder stores generation history in the background.
type ActivityRecorder interface {
	RecordAsync(accountID string, capability model.Capability, input, output any)
}

// GenerationHandler serves the three generation endpoints.
type GenerationHandler struct {
	backend  generation.Backend
	activity ActivityRecorder
	logger   *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(backend generation.Backend, activity ActivityRecorder, logger *slog.Logger) *GenerationHandler {
	return &GenerationHandler{
		backend:  backend,
		activity: activity,
		logger:   logger,
	}
}

// Text handles POST /api/ai/text.
func (h *GenerationHandler) Text(w http.ResponseWriter, r *http.Request) {
	var req dto.TextRequest
	mistyped, ok := decodeGenerationRequest(w, r, &req)
	if !ok {
		return
	}
	if err := resolveTextRequest(&req, mistyped); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	text, err := h.backend.GenerateText(r.Context(), generation.TextRequest{
		Prompt:    req.Prompt,
		Model:     *req.Model,
		MaxTokens: *req.MaxTokens,
	})
	if err != nil {
		h.writeGenerationError(w, r, model.CapabilityText, err)
		return
	}

	resp := dto.TextResponse{
		Prompt:        req.Prompt,
		GeneratedText: text,
		Model:         *req.Model,
		MaxTokens:     *req.MaxTokens,
	}
	h.record(r, model.CapabilityText, req, resp)
	writeJSON(w, http.StatusOK, resp)
}

// Image handles POST /api/ai/image.
func (h *GenerationHandler) Image(w http.ResponseWriter, r *http.Request) {
	var req dto.ImageRequest
	mistyped, ok := decodeGenerationRequest(w, r, &req)
	if !ok {
		return
	}
	if err := resolveImageRequest(&req, mistyped); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	image, err := h.backend.GenerateImage(r.Context(), generation.ImageRequest{
		Prompt: req.Prompt,
		Size:   *req.Size,
		Style:  *req.Style,
	})
	if err != nil {
		h.writeGenerationError(w, r, model.CapabilityImage, err)
		return
	}

	resp := dto.ImageResponse{
		Prompt:   req.Prompt,
		ImageURL: image,
		Size:     *req.Size,
		Style:    *req.Style,
	}
	h.record(r, model.CapabilityImage, req, resp)
	writeJSON(w, http.StatusOK, resp)
}

// Voice handles POST /api/ai/voice.
func (h *GenerationHandler) Voice(w http.ResponseWriter, r *http.Request) {
	var req dto.VoiceRequest
	mistyped, ok := decodeGenerationRequest(w, r, &req)
	if !ok {
		return
	}
	if err := resolveVoiceRequest(&req, mistyped); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	audio, err := h.backend.GenerateVoice(r.Context(), generation.VoiceRequest{
		Text:  req.Text,
		Voice: *req.Voice,
		Model: *req.Model,
	})
	if err != nil {
		h.writeGenerationError(w, r, model.CapabilityVoice, err)
		return
	}

	resp := dto.VoiceResponse{
		Text:     req.Text,
		AudioURL: audio,
		Voice:    *req.Voice,
		Model:    *req.Model,
	}
	h.record(r, model.CapabilityVoice, req, resp)
	writeJSON(w, http.StatusOK, resp)
}

// decodeGenerationRequest decodes the body into dst. A value of the wrong JSON
// type does not stop the request here: the field is returned so the resolver
// can report it in field order. Any other failure is written to w.
func decodeGenerationRequest(w http.ResponseWriter, r *http.Request, dst any) (*middleware.ValidationError, bool) {
	err := decodeJSON(r, dst)
	if err == nil {
		return nil, true
	}
	var vErr *middleware.ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	writeDecodeError(w, err)
	return nil, false
}

// record enqueues an activity record for authenticated callers only.
func (h *GenerationHandler) record(r *http.Request, capability model.Capability, input, output any) {
	accountID := auth.AccountIDFromContext(r.Context())
	if accountID == "" || h.activity == nil {
		return
	}
	h.activity.RecordAsync(accountID, capability, input, output)
}

var generationFailureMessages = map[model.Capability]string{
	model.CapabilityText:  "Failed to generate text",
	model.CapabilityImage: "Failed to generate image",
	model.CapabilityVoice: "Failed to generate voice",
}

func (h *GenerationHandler) writeGenerationError(w http.ResponseWriter, r *http.Request, capability model.Capability, err error) {
	kind := "internal"
	switch {
	case errors.Is(err, generation.ErrGenerationFailed):
		kind = "generation_failed"
	case errors.Is(err, generation.ErrProcessFailed):
		kind = "process_failed"
	case errors.Is(err, generation.ErrProcessLaunchFailed):
		kind = "launch_failed"
	}

	h.logger.Error("generation failed",
		"capability", string(capability),
		"kind", kind,
		"error", err,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeError(w, http.StatusInternalServerError, generationFailureMessages[capability], generation.Detail(err))
}

// resolveTextRequest validates req and fills in defaults.
// mistyped, when set, names a field whose JSON value had the wrong type.
func resolveTextRequest(req *dto.TextRequest, mistyped *middleware.ValidationError) error {
	if isMistyped(mistyped, "prompt") {
		return mistyped
	}
	if err := middleware.ValidateRequiredText("prompt", req.Prompt, middleware.MaxPrimaryInputLength); err != nil {
		return err
	}
	if err := resolveChoice("model", &req.Model, DefaultTextModel, TextModels, mistyped); err != nil {
		return err
	}
	switch {
	case isMistyped(mistyped, "maxTokens"):
		return &middleware.ValidationError{
			Field:   "maxTokens",
			Message: fmt.Sprintf("maxTokens must be an integer between %d and %d", MinMaxTokens, MaxMaxTokens),
		}
	case req.MaxTokens == nil:
		n := DefaultMaxTokens
		req.MaxTokens = &n
	default:
		if err := middleware.ValidateIntRange("maxTokens", *req.MaxTokens, MinMaxTokens, MaxMaxTokens); err != nil {
			return err
		}
	}
	return nil
}

// resolveImageRequest validates req and fills in defaults.
func resolveImageRequest(req *dto.ImageRequest, mistyped *middleware.ValidationError) error {
	if isMistyped(mistyped, "prompt") {
		return mistyped
	}
	if err := middleware.ValidateRequiredText("prompt", req.Prompt, middleware.MaxPrimaryInputLength); err != nil {
		return err
	}
	if err := resolveChoice("size", &req.Size, DefaultImageSize, ImageSizes, mistyped); err != nil {
		return err
	}
	return resolveChoice("style", &req.Style, DefaultImageStyle, ImageStyles, mistyped)
}

// resolveVoiceRequest validates req and fills in defaults.
func resolveVoiceRequest(req *dto.VoiceRequest, mistyped *middleware.ValidationError) error {
	if isMistyped(mistyped, "text") {
		return mistyped
	}
	if err := middleware.ValidateRequiredText("text", req.Text, middleware.MaxPrimaryInputLength); err != nil {
		return err
	}
	if err := resolveChoice("voice", &req.Voice, DefaultVoice, Voices, mistyped); err != nil {
		return err
	}
	return resolveChoice("model", &req.Model, DefaultVoiceModel, VoiceModels, mistyped)
}

// resolveChoice applies def to an omitted (or null) enum field and validates a
// present one. An empty string is present and therefore rejected.
func resolveChoice(field string, value **string, def string, allowed []string, mistyped *middleware.ValidationError) error {
	if isMistyped(mistyped, field) {
		return middleware.ValidateOneOf(field, "", allowed)
	}
	if *value == nil {
		v := def
		*value = &v
		return nil
	}
	return middleware.ValidateOneOf(field, **value, allowed)
}

func isMistyped(mistyped *middleware.ValidationError, field string) bool {
	return mistyped != nil && mistyped.Field == field
}
