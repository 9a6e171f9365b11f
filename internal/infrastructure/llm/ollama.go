package llm

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/feiaaa1/mindstream/internal/domain/provider"
)

const (
	// OllamaProviderID is the catalog id served by the Ollama adapter.
	OllamaProviderID = "ollama"

	defaultOllamaBaseURL = "http://localhost:11434"
)

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response *string `json:"response"`
}

// Ollama calls a local Ollama server. No key is sent.
type Ollama struct {
	baseURL string
	http    *resty.Client
}

// NewOllama creates an Ollama adapter; an empty base URL means localhost.
func NewOllama(baseURL string, client *resty.Client) *Ollama {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	return &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    client,
	}
}

func (o *Ollama) ProviderID() string {
	return OllamaProviderID
}

// Generate issues one non-streaming /api/generate call.
func (o *Ollama) Generate(ctx context.Context, req provider.GenerateRequest) (string, error) {
	body := ollamaRequest{
		Model:  req.Model,
		Prompt: req.SystemPrompt + "\n\n" + req.Prompt,
		Stream: false,
	}

	rr, err := o.http.R().SetContext(ctx).
		SetBody(body).
		Post(o.baseURL + "/api/generate")
	if err := checkResponse(OllamaProviderID, rr, err); err != nil {
		return "", err
	}

	var resp ollamaResponse
	if err := decode(rr, &resp); err != nil {
		return "", err
	}
	if resp.Response == nil {
		return "", missingField("response")
	}

	return *resp.Response, nil
}
