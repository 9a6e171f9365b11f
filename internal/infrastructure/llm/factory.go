package llm

import (
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/internal/config"
	"github.com/feiaaa1/mindstream/internal/domain/entity"
	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
	"github.com/feiaaa1/mindstream/internal/domain/provider"
)

// Factory creates text generators based on the provider id
type Factory struct {
	config config.AI
	http   *resty.Client
	logger *zap.Logger
}

// NewFactory creates a new text generator factory
func NewFactory(cfg config.AI, logger *zap.Logger) *Factory {
	return &Factory{
		config: cfg,
		http:   NewHTTPClient(cfg.Timeout),
		logger: logger,
	}
}

// TextGenerator returns the implementation serving the provider id.
// Providers without one yield UnsupportedCapabilityError.
func (f *Factory) TextGenerator(providerID string) (provider.TextGenerator, error) {
	opts := Options{Temperature: f.config.Temperature, MaxTokens: f.config.MaxTokens}
	ep := f.config.Endpoints.WithDefaults()

	switch providerID {
	case "openai":
		return NewOpenAICompatible(providerID, ep.OpenAI, opts, f.http), nil
	case "deepseek":
		return NewOpenAICompatible(providerID, ep.DeepSeek, opts, f.http), nil
	case "zhipu":
		return NewOpenAICompatible(providerID, ep.Zhipu, opts, f.http), nil
	case "moonshot":
		return NewOpenAICompatible(providerID, ep.Moonshot, opts, f.http), nil
	case GeminiProviderID:
		return NewGemini(ep.Gemini, opts, f.http), nil
	case AnthropicProviderID:
		return NewAnthropic(ep.Anthropic, f.config.AnthropicVersion, opts, f.http), nil
	case OllamaProviderID:
		return NewOllama(ep.Ollama, f.http), nil
	default:
		f.logger.Debug("No text generator for provider", zap.String("provider_id", providerID))
		return nil, &domainErrors.UnsupportedCapabilityError{
			ProviderID: providerID,
			Capability: string(entity.CapabilityText),
		}
	}
}
