package llm

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/feiaaa1/mindstream/internal/domain/provider"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAICompatible talks to any chat completions endpoint with the OpenAI
// wire format: openai, deepseek, zhipu and moonshot.
type OpenAICompatible struct {
	providerID string
	endpoint   string
	opts       Options
	http       *resty.Client
}

// NewOpenAICompatible creates an adapter for one provider id and endpoint.
func NewOpenAICompatible(providerID, endpoint string, opts Options, client *resty.Client) *OpenAICompatible {
	return &OpenAICompatible{
		providerID: providerID,
		endpoint:   endpoint,
		opts:       opts.withDefaults(),
		http:       client,
	}
}

func (c *OpenAICompatible) ProviderID() string {
	return c.providerID
}

// Generate sends the system and user prompts as separate messages.
func (c *OpenAICompatible) Generate(ctx context.Context, req provider.GenerateRequest) (string, error) {
	body := chatRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	}

	rr, err := c.http.R().SetContext(ctx).
		SetHeader("Authorization", "Bearer "+req.APIKey).
		SetBody(body).
		Post(c.endpoint)
	if err := checkResponse(c.providerID, rr, err); err != nil {
		return "", err
	}

	var resp chatResponse
	if err := decode(rr, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		return "", missingField("choices[0].message.content")
	}

	return *resp.Choices[0].Message.Content, nil
}
