// Package llm holds the text generation adapters, one per provider family.
package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1500
	defaultTimeout     = 60 * time.Second
)

// Options are the generation parameters shared by every adapter.
type Options struct {
	Temperature float64
	MaxTokens   int
}

func (o Options) withDefaults() Options {
	if o.Temperature <= 0 {
		o.Temperature = defaultTemperature
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = defaultMaxTokens
	}
	return o
}

// NewHTTPClient creates the resty client used for provider calls.
// The timeout bounds a single attempt; there are no retries.
func NewHTTPClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json")
	return c
}

// checkResponse maps a transport error or non-2xx response to UpstreamError.
func checkResponse(providerID string, rr *resty.Response, err error) error {
	if err != nil {
		return &domainErrors.UpstreamError{ProviderID: providerID, StatusText: transportText(err)}
	}
	if rr.IsError() || rr.StatusCode() < 200 || rr.StatusCode() >= 300 {
		return &domainErrors.UpstreamError{
			ProviderID: providerID,
			StatusCode: rr.StatusCode(),
			StatusText: statusText(rr),
		}
	}
	return nil
}

// transportText describes a failed round trip without the request URL.
func transportText(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return "request failed"
}

// statusText returns the reason phrase without the numeric code.
func statusText(rr *resty.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(rr.Status(), strconv.Itoa(rr.StatusCode())))
	if text == "" {
		text = http.StatusText(rr.StatusCode())
	}
	return text
}

// decode unmarshals a success body; an unparsable body is a malformed response.
func decode(rr *resty.Response, v any) error {
	if err := json.Unmarshal(rr.Body(), v); err != nil {
		return &domainErrors.MalformedResponseError{ParseError: err}
	}
	return nil
}

func missingField(path string) error {
	return &domainErrors.MalformedResponseError{ParseError: fmt.Errorf("response has no %s", path)}
}
