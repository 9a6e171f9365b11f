package speech

import (
	"bytes"
	"context"
	"errors"

	"github.com/go-resty/resty/v2"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
	"github.com/feiaaa1/mindstream/internal/domain/provider"
)

// LocalProviderID is the catalog id of the on-device recognizer.
const LocalProviderID = "browser-speech"

// Local adapts an on-device LocalRecognizer to the Transcriber interface.
// Any recognizer failure is reported as RecognitionFailedError.
type Local struct {
	recognizer provider.LocalRecognizer
}

// NewLocal wraps a recognizer.
func NewLocal(recognizer provider.LocalRecognizer) *Local {
	return &Local{recognizer: recognizer}
}

func (l *Local) ProviderID() string {
	return LocalProviderID
}

// Transcribe makes exactly one recognition attempt.
func (l *Local) Transcribe(ctx context.Context, req provider.TranscribeRequest) (string, error) {
	text, err := l.recognizer.Recognize(ctx, req.Audio, req.Language)
	if err != nil {
		var failed *domainErrors.RecognitionFailedError
		if errors.As(err, &failed) {
			return "", err
		}
		return "", &domainErrors.RecognitionFailedError{Err: err}
	}
	return text, nil
}

// HTTPRecognizer is a LocalRecognizer backed by a recognition server on the
// same host, such as a whisper.cpp server. It is what the server side uses in
// place of the browser's built-in engine.
type HTTPRecognizer struct {
	url  string
	http *resty.Client
}

// NewHTTPRecognizer creates a recognizer posting to url.
func NewHTTPRecognizer(url string, client *resty.Client) *HTTPRecognizer {
	return &HTTPRecognizer{url: url, http: client}
}

// Recognize uploads the audio and reads the text field of the reply.
func (r *HTTPRecognizer) Recognize(ctx context.Context, audio entity.AudioPayload, language string) (string, error) {
	form := map[string]string{"response_format": "json"}
	if language != "" {
		form["language"] = language
	}

	rr, err := r.http.R().SetContext(ctx).
		SetFileReader("file", fileName(audio), bytes.NewReader(audio.Data)).
		SetFormData(form).
		Post(r.url)
	if err := checkResponse(LocalProviderID, rr, err); err != nil {
		return "", err
	}

	return decodeText(rr)
}
