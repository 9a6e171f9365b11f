package provider

import (
	"context"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
)

// GenerateRequest is a provider-agnostic text generation request.
type GenerateRequest struct {
	Model        string
	APIKey       string
	SystemPrompt string
	Prompt       string
}

// TextGenerator issues one chat/completion call and returns the raw generated text.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	ProviderID() string
}

// TranscribeRequest is a provider-agnostic speech-to-text request.
type TranscribeRequest struct {
	Model    string
	APIKey   string
	Language string
	Audio    entity.AudioPayload
}

// Transcriber turns one audio blob into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, req TranscribeRequest) (string, error)
	ProviderID() string
}

// LocalRecognizer is an on-device speech engine. It has no credentials and
// gets exactly one attempt per call.
type LocalRecognizer interface {
	Recognize(ctx context.Context, audio entity.AudioPayload, language string) (string, error)
}

// TextGeneratorFactory resolves a provider id to its text implementation.
type TextGeneratorFactory interface {
	TextGenerator(providerID string) (TextGenerator, error)
}

// TranscriberFactory resolves a provider id to its speech implementation.
type TranscriberFactory interface {
	Transcriber(providerID string) (Transcriber, error)
}
