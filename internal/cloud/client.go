// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/gaia-tui/internal/logging"
)

// Configuration constants for the chat completions API.
const (
	// DefaultBaseURL is the base URL of the OpenAI API.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"

	// DefaultTemperature is the sampling temperature sent with every request.
	DefaultTemperature = 0.7

	// DefaultTimeout is the default timeout for non-streaming requests.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the default number of attempts for transient errors.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024

	userAgent = "gaia/1.0"
)

// Error variables for common API failures.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("API key not configured")

	// ErrAuthFailed indicates authentication failed (invalid or revoked key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotFound indicates the requested model does not exist.
	ErrModelNotFound = errors.New("model not found")

	// ErrInsufficientCredits indicates the account has run out of quota.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrEmptyResponse indicates a successful response without any choice.
	ErrEmptyResponse = errors.New("empty response")
)

// APIError represents an error body returned by the API.
type APIError struct {
	Code    string
	Type    string
	Message string
	Status  int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.Status, e.Message)
}

// =============================================================================
// REQUEST AND RESPONSE TYPES
// =============================================================================

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: "user", Content: content}
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: "assistant", Content: content}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) ChatMessage {
	return ChatMessage{Role: "system", Content: content}
}

// ChatRequest represents a request to the chat completions endpoint.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

// ChatResponse represents a response from the chat completions endpoint.
type ChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// GetContent returns the content of the first choice, or "" if none.
func (r *ChatResponse) GetContent() string {
	if len(r.Choices) > 0 {
		return r.Choices[0].Message.Content
	}
	return ""
}

// apiErrorResponse represents an error response body.
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to an OpenAI-compatible chat completions endpoint.
// A Client is safe for concurrent use once configured.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	maxRetries  int

	httpClient   *http.Client
	streamClient *http.Client
	limiter      *rate.Limiter
	log          *logging.Logger

	// backoff computes the delay before a retry attempt.
	backoff func(attempt int) time.Duration
}

// NewClient creates a client for the given API key with default settings.
// An empty key still yields a client, but requests fail with ErrNotConfigured.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:       strings.TrimSpace(apiKey),
		baseURL:      DefaultBaseURL,
		model:        DefaultModel,
		temperature:  DefaultTemperature,
		maxRetries:   DefaultMaxRetries,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		streamClient: &http.Client{}, // context-controlled
		log:          logging.Nop(),
		backoff:      calculateBackoff,
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(strings.TrimSpace(url), "/")
	return c
}

// WithModel sets the model sent with each request.
func (c *Client) WithModel(model string) *Client {
	if model = strings.TrimSpace(model); model != "" {
		c.model = model
	}
	return c
}

// WithTemperature sets the sampling temperature.
func (c *Client) WithTemperature(t float64) *Client {
	c.temperature = t
	return c
}

// WithMaxTokens caps the completion length. Zero leaves it to the server.
func (c *Client) WithMaxTokens(n int) *Client {
	c.maxTokens = n
	return c
}

// WithTimeout sets the timeout for non-streaming requests.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithMaxRetries sets the maximum number of attempts.
func (c *Client) WithMaxRetries(n int) *Client {
	if n < 1 {
		n = 1
	}
	c.maxRetries = n
	return c
}

// WithRateLimit limits outgoing requests to perMinute, with a burst of one.
// Zero or less disables the limiter.
func (c *Client) WithRateLimit(perMinute int) *Client {
	if perMinute <= 0 {
		c.limiter = nil
		return c
	}
	c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	return c
}

// WithLogger sets the logger used for request/response lines.
func (c *Client) WithLogger(l *logging.Logger) *Client {
	if l != nil {
		c.log = l
	}
	return c
}

// WithHTTPClient replaces the HTTP client used for both request kinds.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	c.streamClient = hc
	return c
}

// Model returns the configured model.
func (c *Client) Model() string {
	return c.model
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// KeyFingerprint returns a short SHA-256 fingerprint of the API key.
// SECURITY: Never exposes key fragments.
func (c *Client) KeyFingerprint() string {
	return Fingerprint(c.apiKey)
}

// Fingerprint returns the first 8 hex chars of the SHA-256 of key, or "none".
func Fingerprint(key string) string {
	if key == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:4])
}

// =============================================================================
// CHAT
// =============================================================================

// Chat performs a chat completion request with the given messages.
// Rate limiting and server errors are retried with exponential backoff.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage) (*ChatResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	reqBody := c.newRequest(messages, false)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, c.backoff(attempt)); err != nil {
				return nil, err
			}
		}
		if err := c.wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.doRequest(ctx, reqBody)
		if err == nil {
			return resp, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
		c.log.Warn("retrying chat request", "attempt", attempt+1, "error", err)
	}
	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// Complete runs Chat and returns the text of the first choice.
func (c *Client) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	resp, err := c.Chat(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.GetContent(), nil
}

func (c *Client) newRequest(messages []ChatMessage, stream bool) ChatRequest {
	return ChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Stream:      stream,
	}
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// doRequest performs a single request to the chat completions endpoint.
func (c *Client) doRequest(ctx context.Context, reqBody ChatRequest) (*ChatResponse, error) {
	req, err := c.buildRequest(ctx, reqBody)
	if err != nil {
		return nil, err
	}

	c.logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	c.logResponse(resp, time.Since(start))

	// SECURITY: Read response with size limit
	body, err := readResponse(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, handleErrorResponse(resp.StatusCode, body)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &chatResp, nil
}

func (c *Client) buildRequest(ctx context.Context, reqBody ChatRequest) (*http.Request, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	return req, nil
}

// setHeaders sets the required headers for API requests.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
}

// =============================================================================
// LOGGING (without sensitive data)
// =============================================================================

// logRequest logs method and path only; headers carry the key and bodies
// carry the conversation.
func (c *Client) logRequest(req *http.Request) {
	c.log.Debug("api request", "method", req.Method, "path", req.URL.Path, "model", c.model)
}

// logResponse logs status and duration, never the body.
func (c *Client) logResponse(resp *http.Response, d time.Duration) {
	c.log.Debug("api response", "status", resp.StatusCode, "duration", d)
}

// =============================================================================
// ERRORS AND RETRIES
// =============================================================================

// readResponse reads at most MaxResponseSize bytes and fails if the body is
// larger.
func readResponse(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts an HTTP error response into a sentinel error
// wrapping the parsed *APIError.
func handleErrorResponse(statusCode int, body []byte) error {
	apiErr := &APIError{Status: statusCode, Message: strings.TrimSpace(string(body))}

	var parsed apiErrorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		apiErr.Code = parsed.Error.Code
		apiErr.Type = parsed.Error.Type
		apiErr.Message = parsed.Error.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
	}

	switch {
	case statusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrAuthFailed, apiErr)
	case statusCode == http.StatusPaymentRequired,
		apiErr.Code == "insufficient_quota", apiErr.Type == "insufficient_quota":
		return fmt.Errorf("%w: %w", ErrInsufficientCredits, apiErr)
	case statusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrModelNotFound, apiErr)
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrRateLimited, apiErr)
	default:
		return apiErr
	}
}

// isRetryable reports whether err is worth another attempt: rate limiting
// and 5xx responses. Quota exhaustion also arrives as 429 but never clears
// on its own.
func isRetryable(err error) bool {
	if errors.Is(err, ErrInsufficientCredits) {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 && apiErr.Status < 600
	}
	return false
}

// calculateBackoff returns the delay before the given attempt:
// 1s, 2s, 4s and so on, capped at retryMaxDelay.
func calculateBackoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
