package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrorKind classifies gateway failures. Every failure mode in the request
// path maps to exactly one kind so tool handlers can render them uniformly.
type ErrorKind string

const (
	// KindAuthMissing means no API key was available from either the
	// per-call override or the process configuration.
	KindAuthMissing ErrorKind = "auth_missing"
	// KindHTTPStatus means the API answered with a non-2xx status.
	KindHTTPStatus ErrorKind = "http_status"
	// KindNetworkFailure covers DNS, connection, TLS, timeout and
	// cancellation failures.
	KindNetworkFailure ErrorKind = "network_failure"
	// KindDecodeFailure means the response body was not valid JSON.
	KindDecodeFailure ErrorKind = "decode_failure"
	// KindInvalidShape means well-formed JSON with the wrong structure
	// for the expected entity.
	KindInvalidShape ErrorKind = "invalid_shape"
)

// APIError is a tagged failure value. The gateway returns it instead of a
// plain error so callers can always flatten it into user-facing text; it
// never crosses the tool boundary as a raised error.
type APIError struct {
	Kind    ErrorKind
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// tempoRequester is the narrow gateway contract tool handlers depend on.
// Tests substitute a fake implementation.
type tempoRequester interface {
	Request(ctx context.Context, path, apiKeyOverride string, params url.Values) (any, *APIError)
}

// TempoClient handles all interactions with the Tempo AI API. A single
// instance is shared for the process lifetime; the embedded http.Client is
// safe for concurrent use and holds no per-call state.
type TempoClient struct {
	client      *http.Client
	rateLimiter *rate.Limiter
	apiKey      string
	baseURL     string
}

// NewTempoClient creates a Tempo AI API client with rate limiting.
func NewTempoClient(cfg *Config) *TempoClient {
	// Rate limiter: 100 requests per minute (conservative approach)
	rateLimiter := rate.NewLimiter(rate.Every(time.Minute/100), 10)

	return &TempoClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rateLimiter,
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Request performs an authenticated GET against the Tempo AI API and
// returns the decoded JSON payload. All failures come back as *APIError;
// a nil APIError means payload holds a decoded object or array.
func (t *TempoClient) Request(ctx context.Context, path, apiKeyOverride string, params url.Values) (any, *APIError) {
	apiKey := apiKeyOverride
	if apiKey == "" {
		apiKey = t.apiKey
	}
	if apiKey == "" {
		return nil, &APIError{
			Kind:    KindAuthMissing,
			Message: "no API key provided. Set API_KEY in your environment or pass api_key with the call",
		}
	}

	if err := t.rateLimiter.Wait(ctx); err != nil {
		return nil, &APIError{Kind: KindNetworkFailure, Message: fmt.Sprintf("rate limiter wait aborted: %v", err)}
	}

	requestURL := t.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &APIError{Kind: KindNetworkFailure, Message: fmt.Sprintf("failed to create request: %v", err)}
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		// Timeouts, cancellation, DNS, connection and TLS failures all
		// surface here.
		return nil, &APIError{Kind: KindNetworkFailure, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindNetworkFailure, Message: fmt.Sprintf("failed to read response body: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, t.statusError(resp.StatusCode, body)
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &APIError{Kind: KindDecodeFailure, Message: fmt.Sprintf("invalid JSON in response: %v", err)}
	}

	return payload, nil
}

// statusError maps a non-2xx response to a user-friendly APIError that
// carries the status code and any message the API included.
func (t *TempoClient) statusError(statusCode int, body []byte) *APIError {
	var reason string
	switch statusCode {
	case http.StatusUnauthorized:
		reason = "authentication failed: invalid API key"
	case http.StatusForbidden:
		reason = "access denied: insufficient permissions"
	case http.StatusTooManyRequests:
		reason = "rate limit exceeded: too many requests"
	case http.StatusBadRequest:
		reason = "bad request: check your parameters"
	case http.StatusNotFound:
		reason = "resource not found"
	case http.StatusInternalServerError:
		reason = "Tempo AI API internal error"
	case http.StatusServiceUnavailable:
		reason = "Tempo AI API temporarily unavailable"
	default:
		reason = "API error"
	}

	msg := fmt.Sprintf("%s (status %d)", reason, statusCode)
	if upstream := upstreamMessage(body); upstream != "" {
		msg += ": " + upstream
	}
	return &APIError{Kind: KindHTTPStatus, Message: msg}
}

// upstreamMessage pulls a human-readable message out of an error response
// body, if the API provided one.
func upstreamMessage(body []byte) string {
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return strings.TrimSpace(string(body))
	}
	for _, key := range []string{"message", "detail", "error"} {
		if s, ok := decoded[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
