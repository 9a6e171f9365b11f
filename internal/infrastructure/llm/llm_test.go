package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/internal/config"
	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
	"github.com/feiaaa1/mindstream/internal/domain/provider"
)

func testRequest() provider.GenerateRequest {
	return provider.GenerateRequest{
		Model:        "test-model",
		APIKey:       "sk-test",
		SystemPrompt: "system",
		Prompt:       "user",
	}
}

// readJSON decodes a request body inside a handler, where require must not be used.
func readJSON(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	assert.NoError(t, err)
	var body map[string]any
	assert.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestOpenAICompatible_Generate(t *testing.T) {
	tests := []struct {
		name               string
		mockServerResponse func(w http.ResponseWriter, r *http.Request)
		expectedText       string
		expectedErr        any
	}{
		{
			name: "success",
			mockServerResponse: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

				body := readJSON(t, r)
				assert.Equal(t, "test-model", body["model"])
				assert.Equal(t, 0.7, body["temperature"])
				assert.Equal(t, float64(1500), body["max_tokens"])
				assert.Equal(t, []any{
					map[string]any{"role": "system", "content": "system"},
					map[string]any{"role": "user", "content": "user"},
				}, body["messages"])

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"tasks\":[]}"}}]}`))
			},
			expectedText: `{"tasks":[]}`,
		},
		{
			name: "unauthorized",
			mockServerResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":{"message":"bad key"}}`))
			},
			expectedErr: &domainErrors.UpstreamError{ProviderID: "deepseek", StatusCode: 401, StatusText: "Unauthorized"},
		},
		{
			name: "no choices",
			mockServerResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choices":[]}`))
			},
			expectedErr: &domainErrors.MalformedResponseError{},
		},
		{
			name: "body is not json",
			mockServerResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>gateway</html>`))
			},
			expectedErr: &domainErrors.MalformedResponseError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.mockServerResponse))
			defer server.Close()

			gen := NewOpenAICompatible("deepseek", server.URL+"/v1/chat/completions", Options{}, NewHTTPClient(5*time.Second))
			text, err := gen.Generate(context.Background(), testRequest())

			switch expected := tt.expectedErr.(type) {
			case nil:
				require.NoError(t, err)
				assert.Equal(t, tt.expectedText, text)
			case *domainErrors.UpstreamError:
				var upstream *domainErrors.UpstreamError
				require.True(t, errors.As(err, &upstream), "got %v", err)
				assert.Equal(t, expected, upstream)
				assert.Equal(t, "deepseek API error: Unauthorized", err.Error())
			case *domainErrors.MalformedResponseError:
				var malformed *domainErrors.MalformedResponseError
				assert.True(t, errors.As(err, &malformed), "got %v", err)
			}
		})
	}
}

func TestGemini_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-pro:generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.RawQuery)
		assert.Empty(t, r.Header.Get("Authorization"))

		body := readJSON(t, r)
		assert.Equal(t, []any{
			map[string]any{"parts": []any{map[string]any{"text": "system\n\nuser"}}},
		}, body["contents"])
		assert.Equal(t, map[string]any{"temperature": 0.7, "maxOutputTokens": float64(1500)}, body["generationConfig"])

		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello"}]}}]}`))
	}))
	defer server.Close()

	gen := NewGemini(server.URL+"/v1beta/models/", Options{}, NewHTTPClient(5*time.Second))
	req := testRequest()
	req.Model = "gemini-pro"
	req.APIKey = "g-key"

	text, err := gen.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "google", gen.ProviderID())
}

func TestGemini_MissingText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[]}}]}`))
	}))
	defer server.Close()

	gen := NewGemini(server.URL, Options{}, NewHTTPClient(5*time.Second))
	_, err := gen.Generate(context.Background(), testRequest())

	var malformed *domainErrors.MalformedResponseError
	assert.True(t, errors.As(err, &malformed))
}

func TestGemini_TransportErrorHidesKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closedURL := server.URL + "/v1beta/models"
	server.Close()

	gen := NewGemini(closedURL, Options{}, NewHTTPClient(time.Second))
	_, err := gen.Generate(context.Background(), testRequest())

	var upstream *domainErrors.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, 0, upstream.StatusCode)
	assert.NotEmpty(t, upstream.StatusText)
	assert.NotContains(t, err.Error(), "sk-test")
	assert.NotContains(t, upstream.StatusText, "generateContent")
}

func TestAnthropic_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		body := readJSON(t, r)
		assert.Equal(t, float64(1500), body["max_tokens"])
		assert.Equal(t, []any{map[string]any{"role": "user", "content": "system\n\nuser"}}, body["messages"])

		w.Write([]byte(`{"content":[{"type":"text","text":"claude says"}]}`))
	}))
	defer server.Close()

	gen := NewAnthropic(server.URL, "", Options{}, NewHTTPClient(5*time.Second))
	text, err := gen.Generate(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, "claude says", text)
}

func TestAnthropic_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	gen := NewAnthropic(server.URL, "", Options{}, NewHTTPClient(5*time.Second))
	_, err := gen.Generate(context.Background(), testRequest())

	var upstream *domainErrors.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.Equal(t, "Too Many Requests", upstream.StatusText)
}

func TestOllama_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		body := readJSON(t, r)
		assert.Equal(t, "llama2", body["model"])
		assert.Equal(t, "system\n\nuser", body["prompt"])
		assert.Equal(t, false, body["stream"])

		w.Write([]byte(`{"model":"llama2","response":"local answer","done":true}`))
	}))
	defer server.Close()

	gen := NewOllama(server.URL+"/", NewHTTPClient(5*time.Second))
	req := testRequest()
	req.Model = "llama2"
	req.APIKey = ""

	text, err := gen.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "local answer", text)
}

func TestOllama_MissingResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"done":true}`))
	}))
	defer server.Close()

	_, err := NewOllama(server.URL, NewHTTPClient(5*time.Second)).Generate(context.Background(), testRequest())

	var malformed *domainErrors.MalformedResponseError
	assert.True(t, errors.As(err, &malformed))
}

func TestGenerate_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	gen := NewOpenAICompatible("openai", url, Options{}, NewHTTPClient(time.Second))
	_, err := gen.Generate(context.Background(), testRequest())

	var upstream *domainErrors.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, 0, upstream.StatusCode)
	assert.NotContains(t, upstream.StatusText, url)
}

func TestFactory_TextGenerator(t *testing.T) {
	factory := NewFactory(config.AI{}, zap.NewNop())

	tests := []struct {
		providerID string
		expected   any
	}{
		{"openai", &OpenAICompatible{}},
		{"deepseek", &OpenAICompatible{}},
		{"zhipu", &OpenAICompatible{}},
		{"moonshot", &OpenAICompatible{}},
		{"google", &Gemini{}},
		{"anthropic", &Anthropic{}},
		{"ollama", &Ollama{}},
	}

	for _, tt := range tests {
		t.Run(tt.providerID, func(t *testing.T) {
			gen, err := factory.TextGenerator(tt.providerID)
			require.NoError(t, err)
			assert.IsType(t, tt.expected, gen)
			assert.Equal(t, tt.providerID, gen.ProviderID())
		})
	}

	t.Run("speech only provider", func(t *testing.T) {
		_, err := factory.TextGenerator("browser-speech")

		var unsupported *domainErrors.UnsupportedCapabilityError
		require.True(t, errors.As(err, &unsupported))
		assert.Equal(t, "browser-speech", unsupported.ProviderID)
	})
}

func TestFactory_UsesConfiguredEndpoints(t *testing.T) {
	factory := NewFactory(config.AI{Endpoints: config.Endpoints{Zhipu: "http://proxy.local/zhipu"}}, zap.NewNop())

	gen, err := factory.TextGenerator("zhipu")
	require.NoError(t, err)
	assert.Equal(t, "http://proxy.local/zhipu", gen.(*OpenAICompatible).endpoint)

	gen, err = factory.TextGenerator("moonshot")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMoonshotEndpoint, gen.(*OpenAICompatible).endpoint)
}
