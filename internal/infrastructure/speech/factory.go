package speech

import (
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/internal/config"
	"github.com/feiaaa1/mindstream/internal/domain/entity"
	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
	"github.com/feiaaa1/mindstream/internal/domain/provider"
)

const defaultTimeout = 60 * time.Second

// Factory creates transcribers based on the provider id
type Factory struct {
	config     config.AI
	http       *resty.Client
	recognizer provider.LocalRecognizer
	logger     *zap.Logger
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithLocalRecognizer sets the on-device recognizer used for browser-speech.
func WithLocalRecognizer(r provider.LocalRecognizer) FactoryOption {
	return func(f *Factory) {
		f.recognizer = r
	}
}

// NewFactory creates a new transcriber factory. When the config names a local
// recognizer URL and no recognizer option is given, an HTTPRecognizer is used.
func NewFactory(cfg config.AI, logger *zap.Logger, opts ...FactoryOption) *Factory {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	f := &Factory{
		config: cfg,
		http:   resty.New().SetTimeout(timeout).SetRetryCount(0),
		logger: logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.recognizer == nil && cfg.LocalRecognizerURL != "" {
		f.recognizer = NewHTTPRecognizer(cfg.LocalRecognizerURL, f.http)
	}
	return f
}

// Transcriber returns the implementation serving the provider id.
func (f *Factory) Transcriber(providerID string) (provider.Transcriber, error) {
	switch providerID {
	case WhisperProviderID:
		return NewWhisper(f.config.Endpoints.WithDefaults().Whisper, f.http), nil
	case LocalProviderID:
		if f.recognizer == nil {
			f.logger.Debug("No local recognizer configured")
			return nil, unsupported(providerID)
		}
		return NewLocal(f.recognizer), nil
	default:
		return nil, unsupported(providerID)
	}
}

func unsupported(providerID string) error {
	return &domainErrors.UnsupportedCapabilityError{
		ProviderID: providerID,
		Capability: string(entity.CapabilitySpeech),
	}
}
