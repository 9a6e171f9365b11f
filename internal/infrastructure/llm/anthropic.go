package llm

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/feiaaa1/mindstream/internal/domain/provider"
)

const (
	// AnthropicProviderID is the catalog id served by the Anthropic adapter.
	AnthropicProviderID = "anthropic"

	defaultAnthropicVersion = "2023-06-01"
)

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Text *string `json:"text"`
	} `json:"content"`
}

// Anthropic calls the messages API with a single user turn.
type Anthropic struct {
	endpoint string
	version  string
	opts     Options
	http     *resty.Client
}

// NewAnthropic creates an Anthropic adapter.
func NewAnthropic(endpoint, version string, opts Options, client *resty.Client) *Anthropic {
	if version == "" {
		version = defaultAnthropicVersion
	}
	return &Anthropic{
		endpoint: endpoint,
		version:  version,
		opts:     opts.withDefaults(),
		http:     client,
	}
}

func (a *Anthropic) ProviderID() string {
	return AnthropicProviderID
}

// Generate folds the system prompt into the user message.
func (a *Anthropic) Generate(ctx context.Context, req provider.GenerateRequest) (string, error) {
	body := anthropicRequest{
		Model:     req.Model,
		MaxTokens: a.opts.MaxTokens,
		Messages: []chatMessage{
			{Role: "user", Content: req.SystemPrompt + "\n\n" + req.Prompt},
		},
	}

	rr, err := a.http.R().SetContext(ctx).
		SetHeader("Authorization", "Bearer "+req.APIKey).
		SetHeader("anthropic-version", a.version).
		SetBody(body).
		Post(a.endpoint)
	if err := checkResponse(AnthropicProviderID, rr, err); err != nil {
		return "", err
	}

	var resp anthropicResponse
	if err := decode(rr, &resp); err != nil {
		return "", err
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == nil {
		return "", missingField("content[0].text")
	}

	return *resp.Content[0].Text, nil
}
