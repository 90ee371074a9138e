// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// TextRequest is the body of POST /api/ai/text.
// Optional fields are pointers so an explicit empty value can be told apart
// from an omitted one.
type TextRequest struct {
	Prompt    string  `json:"prompt"`
	Model     *string `json:"model,omitempty"`
	MaxTokens *int    `json:"maxTokens,omitempty"`
}

// TextResponse is the success body of POST /api/ai/text.
type TextResponse struct {
	Prompt        string `json:"prompt"`
	GeneratedText string `json:"generatedText"`
	Model         string `json:"model"`
	MaxTokens     int    `json:"maxTokens"`
}

// ImageRequest is the body of POST /api/ai/image.
type ImageRequest struct {
	Prompt string  `json:"prompt"`
	Size   *string `json:"size,omitempty"`
	Style  *string `json:"style,omitempty"`
}

// ImageResponse is the success body of POST /api/ai/image.
// ImageURL holds a data URI.
type ImageResponse struct {
	Prompt   string `json:"prompt"`
	ImageURL string `json:"imageUrl"`
	Size     string `json:"size"`
	Style    string `json:"style"`
}

// VoiceRequest is the body of POST /api/ai/voice.
type VoiceRequest struct {
	Text  string  `json:"text"`
	Voice *string `json:"voice,omitempty"`
	Model *string `json:"model,omitempty"`
}

// VoiceResponse is the success body of POST /api/ai/voice.
// AudioURL holds a data URI.
type VoiceResponse struct {
	Text     string `json:"text"`
	AudioURL string `json:"audioUrl"`
	Voice    string `json:"voice"`
	Model    string `json:"model"`
}
