package errors

import (
	"fmt"

	apperrors "github.com/feiaaa1/mindstream/pkg/errors"
)

// MissingCredentialError is returned when a key-required provider has no stored API key.
type MissingCredentialError struct {
	ProviderID string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("API key for provider %q is not configured", e.ProviderID)
}

func (e *MissingCredentialError) Code() string { return apperrors.ErrMissingCredential }

// NewMissingCredentialError creates a new MissingCredentialError
func NewMissingCredentialError(providerID string) *MissingCredentialError {
	return &MissingCredentialError{ProviderID: providerID}
}

// UnknownProviderError is returned when a provider or model id is not in the registry.
type UnknownProviderError struct {
	ProviderID string
	ModelID    string
}

func (e *UnknownProviderError) Error() string {
	if e.ModelID != "" {
		return fmt.Sprintf("unknown model %q for provider %q", e.ModelID, e.ProviderID)
	}
	return fmt.Sprintf("unknown provider %q", e.ProviderID)
}

func (e *UnknownProviderError) Code() string { return apperrors.ErrUnknownProvider }

// UnsupportedCapabilityError is returned when a provider cannot serve the requested
// capability, or no implementation is available for it.
type UnsupportedCapabilityError struct {
	ProviderID string
	Capability string
}

func (e *UnsupportedCapabilityError) Error() string {
	return fmt.Sprintf("provider %q does not support %s", e.ProviderID, e.Capability)
}

func (e *UnsupportedCapabilityError) Code() string { return apperrors.ErrUnsupportedCapability }

// RecognitionFailedError wraps an error reported by an on-device recognizer.
type RecognitionFailedError struct {
	Err error
}

func (e *RecognitionFailedError) Error() string {
	return fmt.Sprintf("speech recognition failed: %v", e.Err)
}

func (e *RecognitionFailedError) Code() string { return apperrors.ErrRecognitionFailed }

func (e *RecognitionFailedError) Unwrap() error { return e.Err }

// UpstreamError is a non-success HTTP response from a provider.
type UpstreamError struct {
	ProviderID string
	StatusCode int
	StatusText string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API error: %s", e.ProviderID, e.StatusText)
}

func (e *UpstreamError) Code() string { return apperrors.ErrUpstream }

// MalformedResponseError is returned when model output cannot be parsed.
type MalformedResponseError struct {
	ParseError error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %v", e.ParseError)
}

func (e *MalformedResponseError) Code() string { return apperrors.ErrMalformedResponse }

func (e *MalformedResponseError) Unwrap() error { return e.ParseError }

// InvalidSchemaError is returned when parsed output lacks the required tasks array.
type InvalidSchemaError struct {
	Reason string
}

func (e *InvalidSchemaError) Error() string {
	return "invalid model response schema: " + e.Reason
}

func (e *InvalidSchemaError) Code() string { return apperrors.ErrInvalidSchema }
