package entity

import "github.com/shopspring/decimal"

// ModelType distinguishes speech-to-text models from text generation models.
type ModelType string

const (
	ModelTypeSpeech ModelType = "speech"
	ModelTypeText   ModelType = "text"
)

// Capability is a provider filter used by the registry.
type Capability string

const (
	CapabilityFree   Capability = "free"
	CapabilitySpeech Capability = "speech"
	CapabilityText   Capability = "text"
)

// Provider is an AI vendor exposing speech and/or text models.
type Provider struct {
	ID             string  `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Description    string  `json:"description" yaml:"description"`
	IsFree         bool    `json:"isFree" yaml:"is_free"`
	SupportsSpeech bool    `json:"supportsSpeech" yaml:"supports_speech"`
	SupportsText   bool    `json:"supportsText" yaml:"supports_text"`
	APIKeyRequired bool    `json:"apiKeyRequired" yaml:"api_key_required"`
	Website        string  `json:"website,omitempty" yaml:"website"`
	Models         []Model `json:"models" yaml:"models"`
}

// Model is a selectable variant offered by a Provider.
type Model struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description" yaml:"description"`
	Type        ModelType        `json:"type" yaml:"type"`
	MaxTokens   int              `json:"maxTokens,omitempty" yaml:"max_tokens"`
	CostPer1k   *decimal.Decimal `json:"costPer1k,omitempty" yaml:"-"`
}

// Supports reports whether the provider matches the capability filter.
func (p Provider) Supports(c Capability) bool {
	switch c {
	case CapabilityFree:
		return p.IsFree
	case CapabilitySpeech:
		return p.SupportsSpeech
	case CapabilityText:
		return p.SupportsText
	default:
		return false
	}
}

// Model looks up a model by id within the provider.
func (p Provider) Model(modelID string) (Model, bool) {
	for _, m := range p.Models {
		if m.ID == modelID {
			return m, true
		}
	}
	return Model{}, false
}
