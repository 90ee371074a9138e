package model

// Capability names one of the three generation kinds.
type Capability string

const (
	CapabilityText  Capability = "text"
	CapabilityImage Capability = "image"
	CapabilityVoice Capability = "voice"
)

// Capabilities lists every supported capability.
var Capabilities = []Capability{CapabilityText, CapabilityImage, CapabilityVoice}

// IsValid reports whether c is a known capability.
func (c Capability) IsValid() bool {
	switch c {
	case CapabilityText, CapabilityImage, CapabilityVoice:
		return true
	}
	return false
}

// ActivityTag returns the tag stored on activity records for this capability.
func (c Capability) ActivityTag() ActivityTag {
	switch c {
	case CapabilityText:
		return ActivityTextGeneration
	case CapabilityImage:
		return ActivityImageGeneration
	case CapabilityVoice:
		return ActivityVoiceGeneration
	}
	return ""
}
