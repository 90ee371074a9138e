package model

import (
	"encoding/json"
	"time"
)

// ActivityTag is the capability tag persisted with an activity record.
type ActivityTag string

const (
	ActivityTextGeneration  ActivityTag = "text_generation"
	ActivityImageGeneration ActivityTag = "image_generation"
	ActivityVoiceGeneration ActivityTag = "voice_generation"
)

// IsValid reports whether t is one of the three persisted tags.
func (t ActivityTag) IsValid() bool {
	switch t {
	case ActivityTextGeneration, ActivityImageGeneration, ActivityVoiceGeneration:
		return true
	}
	return false
}

// ActivityRecord is one past generation call owned by an account.
// InputData and OutputData hold JSON text.
type ActivityRecord struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	Capability ActivityTag `json:"capability"`
	InputData  string      `json:"-"`
	OutputData string      `json:"-"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// ActivityResponse embeds the stored payloads as JSON rather than escaped strings.
type ActivityResponse struct {
	ID         string          `json:"id"`
	Capability ActivityTag     `json:"capability"`
	Input      json.RawMessage `json:"input"`
	Output     json.RawMessage `json:"output"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// ToResponse converts an ActivityRecord to ActivityResponse.
// Payloads that are not valid JSON are returned as JSON strings.
func (a *ActivityRecord) ToResponse() ActivityResponse {
	return ActivityResponse{
		ID:         a.ID,
		Capability: a.Capability,
		Input:      rawOrString(a.InputData),
		Output:     rawOrString(a.OutputData),
		CreatedAt:  a.CreatedAt,
	}
}

func rawOrString(s string) json.RawMessage {
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	quoted, _ := json.Marshal(s)
	return quoted
}
