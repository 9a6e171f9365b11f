package llm

import (
	"context"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/feiaaa1/mindstream/internal/domain/provider"
)

// GeminiProviderID is the catalog id served by the Gemini adapter.
const GeminiProviderID = "google"

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Gemini calls the generateContent API. The key travels in the x-goog-api-key header.
type Gemini struct {
	baseURL string
	opts    Options
	http    *resty.Client
}

// NewGemini creates a Gemini adapter; baseURL ends at .../v1beta/models.
func NewGemini(baseURL string, opts Options, client *resty.Client) *Gemini {
	return &Gemini{
		baseURL: strings.TrimRight(baseURL, "/"),
		opts:    opts.withDefaults(),
		http:    client,
	}
}

func (g *Gemini) ProviderID() string {
	return GeminiProviderID
}

// Generate sends system and user text joined in a single part.
func (g *Gemini) Generate(ctx context.Context, req provider.GenerateRequest) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: req.SystemPrompt + "\n\n" + req.Prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     g.opts.Temperature,
			MaxOutputTokens: g.opts.MaxTokens,
		},
	}

	endpoint := g.baseURL + "/" + url.PathEscape(req.Model) + ":generateContent"
	rr, err := g.http.R().SetContext(ctx).
		SetHeader("x-goog-api-key", req.APIKey).
		SetBody(body).
		Post(endpoint)
	if err := checkResponse(GeminiProviderID, rr, err); err != nil {
		return "", err
	}

	var resp geminiResponse
	if err := decode(rr, &resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 || resp.Candidates[0].Content.Parts[0].Text == nil {
		return "", missingField("candidates[0].content.parts[0].text")
	}

	return *resp.Candidates[0].Content.Parts[0].Text, nil
}
