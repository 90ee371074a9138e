package generation

import (
	"context"
	"strconv"

	"github.com/genstudio/genstudio/internal/model"
)

// TextRequest holds validated text generation parameters.
type TextRequest struct {
	Prompt    string
	Model     string
	MaxTokens int
}

// ImageRequest holds validated image generation parameters.
type ImageRequest struct {
	Prompt string
	Size   string
	Style  string
}

// VoiceRequest holds validated voice generation parameters.
type VoiceRequest struct {
	Text  string
	Voice string
	Model string
}

// Backend performs one generation call per method.
type Backend interface {
	// GenerateText returns generated text.
	GenerateText(ctx context.Context, req TextRequest) (string, error)
	// GenerateImage returns a data URI holding the image.
	GenerateImage(ctx context.Context, req ImageRequest) (string, error)
	// GenerateVoice returns a data URI holding the audio.
	GenerateVoice(ctx context.Context, req VoiceRequest) (string, error)
}

// ProcessBackend implements Backend by running the engine scripts.
type ProcessBackend struct {
	invoker *Invoker
}

// NewProcessBackend creates a Backend backed by an Invoker.
func NewProcessBackend(invoker *Invoker) *ProcessBackend {
	return &ProcessBackend{invoker: invoker}
}

func (b *ProcessBackend) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	return b.invoker.Invoke(ctx, model.CapabilityText, req.Prompt, map[string]string{
		"model":      req.Model,
		"max_tokens": strconv.Itoa(req.MaxTokens),
	})
}

func (b *ProcessBackend) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	return b.invoker.Invoke(ctx, model.CapabilityImage, req.Prompt, map[string]string{
		"size":  req.Size,
		"style": req.Style,
	})
}

func (b *ProcessBackend) GenerateVoice(ctx context.Context, req VoiceRequest) (string, error) {
	return b.invoker.Invoke(ctx, model.CapabilityVoice, req.Text, map[string]string{
		"voice": req.Voice,
		"model": req.Model,
	})
}
