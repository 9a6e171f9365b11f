// Package speech holds the speech-to-text adapters.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
	"github.com/feiaaa1/mindstream/internal/domain/provider"
)

const (
	// WhisperProviderID is the catalog id served by the Whisper adapter.
	WhisperProviderID = "openai"

	defaultWhisperModel = "whisper-1"
	defaultLanguage     = "zh"
)

type transcriptionResponse struct {
	Text *string `json:"text"`
}

// Whisper uploads audio to an OpenAI compatible transcription endpoint.
type Whisper struct {
	endpoint string
	http     *resty.Client
}

// NewWhisper creates a Whisper adapter.
func NewWhisper(endpoint string, client *resty.Client) *Whisper {
	return &Whisper{endpoint: endpoint, http: client}
}

func (w *Whisper) ProviderID() string {
	return WhisperProviderID
}

// Transcribe sends one multipart request with the audio, model and language.
func (w *Whisper) Transcribe(ctx context.Context, req provider.TranscribeRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = defaultWhisperModel
	}
	language := req.Language
	if language == "" {
		language = defaultLanguage
	}

	rr, err := w.http.R().SetContext(ctx).
		SetHeader("Authorization", "Bearer "+req.APIKey).
		SetFileReader("file", fileName(req.Audio), bytes.NewReader(req.Audio.Data)).
		SetFormData(map[string]string{
			"model":    model,
			"language": language,
		}).
		Post(w.endpoint)
	if err := checkResponse(WhisperProviderID, rr, err); err != nil {
		return "", err
	}

	return decodeText(rr)
}

// fileName keeps the uploaded name when there is one, otherwise audio.<ext>.
func fileName(audio entity.AudioPayload) string {
	if audio.FileName != "" {
		return audio.FileName
	}
	return "audio." + audio.Extension()
}

func checkResponse(providerID string, rr *resty.Response, err error) error {
	if err != nil {
		return &domainErrors.UpstreamError{ProviderID: providerID, StatusText: transportText(err)}
	}
	if rr.IsError() || rr.StatusCode() < 200 || rr.StatusCode() >= 300 {
		text := strings.TrimSpace(strings.TrimPrefix(rr.Status(), strconv.Itoa(rr.StatusCode())))
		if text == "" {
			text = http.StatusText(rr.StatusCode())
		}
		return &domainErrors.UpstreamError{
			ProviderID: providerID,
			StatusCode: rr.StatusCode(),
			StatusText: text,
		}
	}
	return nil
}

// transportText keeps the cause of a failed round trip but not its URL.
func transportText(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return "request failed"
}

func decodeText(rr *resty.Response) (string, error) {
	var resp transcriptionResponse
	if err := json.Unmarshal(rr.Body(), &resp); err != nil {
		return "", &domainErrors.MalformedResponseError{ParseError: err}
	}
	if resp.Text == nil {
		return "", &domainErrors.MalformedResponseError{ParseError: fmt.Errorf("response has no text")}
	}
	return *resp.Text, nil
}
