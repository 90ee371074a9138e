package generation

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genstudio/genstudio/internal/model"
)

func TestProcessBackend_GenerateText(t *testing.T) {
	inv, _ := newScriptInvoker(t, model.CapabilityText,
		`printf '{"success":true,"content":"%s|%s|%s"}' "$1" "$GENERATION_OPT_MODEL" "$GENERATION_OPT_MAX_TOKENS"`)
	backend := NewProcessBackend(inv)

	got, err := backend.GenerateText(context.Background(), TextRequest{Prompt: "hi", Model: "gpt-4", MaxTokens: 250})
	require.NoError(t, err)
	assert.Equal(t, "hi|gpt-4|250", got)
}

func TestProcessBackend_GenerateImage(t *testing.T) {
	inv, _ := newScriptInvoker(t, model.CapabilityImage,
		`printf '{"success":true,"image_data":"data:image/png;base64,%s"}' "$GENERATION_OPT_STYLE"`)
	backend := NewProcessBackend(inv)

	got, err := backend.GenerateImage(context.Background(), ImageRequest{Prompt: "a fox", Size: "512x512", Style: "artistic"})
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,artistic", got)
}

func TestProcessBackend_GenerateVoice(t *testing.T) {
	inv, _ := newScriptInvoker(t, model.CapabilityVoice,
		`printf '{"success":true,"audio_data":"data:audio/mpeg;base64,%s"}' "$GENERATION_OPT_VOICE"`)
	backend := NewProcessBackend(inv)

	got, err := backend.GenerateVoice(context.Background(), VoiceRequest{Text: "hello", Voice: "nova", Model: "eleven_monolingual_v1"})
	require.NoError(t, err)
	assert.Equal(t, "data:audio/mpeg;base64,nova", got)
}

func TestDetail(t *testing.T) {
	assert.Equal(t, "", Detail(nil))
	assert.Equal(t, "boom", Detail(&FailedError{Detail: "boom"}))
	assert.Equal(t, "process exited with code 2: bad", Detail(&ProcessError{ExitCode: 2, Stderr: "bad"}))
	assert.Equal(t, "process exited with code 2", Detail(&ProcessError{ExitCode: 2}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc", truncate("abcdef", 3))

	// "é" is two bytes; cutting inside it backs off to the rune start.
	got := truncate("aé", 2)
	assert.Equal(t, "a", got)
	assert.True(t, utf8.ValidString(got))

	got = truncate(strings.Repeat("日本", 100), 100)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 100)
}
