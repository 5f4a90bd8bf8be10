// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// STREAMING: Server-sent events with partial-content error reporting

// =============================================================================
// STREAMING TYPES
// =============================================================================

// MaxChunkSize is the maximum allowed size for a single SSE line (64KB).
const MaxChunkSize = 64 * 1024

// ErrChunkTooLarge is returned when one SSE line exceeds MaxChunkSize.
var ErrChunkTooLarge = errors.New("stream chunk too large")

// StreamChunk represents a single chunk of a streaming response.
type StreamChunk struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
			Role    string `json:"role,omitempty"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// GetContent returns the content from the first choice's delta.
func (c *StreamChunk) GetContent() string {
	if len(c.Choices) > 0 {
		return c.Choices[0].Delta.Content
	}
	return ""
}

// IsDone returns true if the chunk carries a finish reason.
func (c *StreamChunk) IsDone() bool {
	return len(c.Choices) > 0 && c.Choices[0].FinishReason != ""
}

// StreamError represents an error that occurred mid-stream, preserving the
// content received before it.
type StreamError struct {
	Partial string
	Err     error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.Partial != "" {
		return fmt.Sprintf("stream error (partial content received: %d chars): %v", len(e.Partial), e.Err)
	}
	return fmt.Sprintf("stream error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error {
	return e.Err
}

// =============================================================================
// SSE READER
// =============================================================================

// SSEReader parses Server-Sent Events from a stream.
type SSEReader struct {
	reader *bufio.Reader
}

// NewSSEReader creates a new SSE reader from an io.Reader.
func NewSSEReader(r io.Reader) *SSEReader {
	return &SSEReader{reader: bufio.NewReader(r)}
}

// ReadEvent reads the next event and returns its joined data lines.
// Comments and fields other than "data:" are skipped. Returns io.EOF when the
// stream ends without a pending event.
func (s *SSEReader) ReadEvent() ([]byte, error) {
	var dataLines [][]byte

	for {
		line, err := s.reader.ReadBytes('\n')
		if len(line) > MaxChunkSize {
			return nil, ErrChunkTooLarge
		}
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			if errors.Is(err, io.EOF) && len(dataLines) > 0 {
				return bytes.Join(dataLines, []byte("\n")), nil
			}
			return nil, err
		}

		line = bytes.TrimRight(line, "\r\n")
		if len(line) == 0 {
			if len(dataLines) > 0 {
				return bytes.Join(dataLines, []byte("\n")), nil
			}
			if err != nil {
				return nil, err
			}
			continue
		}

		if bytes.HasPrefix(line, []byte("data:")) {
			dataLines = append(dataLines, bytes.TrimSpace(line[len("data:"):]))
		}
	}
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// ChatStream performs a streaming chat completion. onDelta receives every
// non-empty content fragment in order; the full reply is returned at the end.
//
// A failure after some content arrived is returned as *StreamError carrying
// that content. Connection setup is retried like Chat; a broken stream is not.
func (c *Client) ChatStream(ctx context.Context, messages []ChatMessage, onDelta func(string)) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	reqBody := c.newRequest(messages, true)

	var resp *http.Response
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, c.backoff(attempt)); err != nil {
				return "", err
			}
		}
		if err := c.wait(ctx); err != nil {
			return "", err
		}

		resp, lastErr = c.openStream(ctx, reqBody)
		if lastErr == nil {
			break
		}
		if !isRetryable(lastErr) {
			return "", lastErr
		}
		c.log.Warn("retrying stream request", "attempt", attempt+1, "error", lastErr)
	}
	if lastErr != nil {
		return "", fmt.Errorf("max retries exceeded: %w", lastErr)
	}
	defer resp.Body.Close()

	start := time.Now()
	text, err := processStream(ctx, resp.Body, onDelta)
	c.log.Debug("stream finished", "duration", time.Since(start), "chars", len(text))
	if err != nil {
		return text, &StreamError{Partial: text, Err: err}
	}
	return text, nil
}

func (c *Client) openStream(ctx context.Context, reqBody ChatRequest) (*http.Response, error) {
	req, err := c.buildRequest(ctx, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	c.logRequest(req)
	start := time.Now()
	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	c.logResponse(resp, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, err := readResponse(resp.Body)
		if err != nil {
			return nil, err
		}
		return nil, handleErrorResponse(resp.StatusCode, body)
	}
	return resp, nil
}

// processStream reads events until [DONE], a finish reason or EOF.
// Malformed chunks are skipped.
func processStream(ctx context.Context, body io.Reader, onDelta func(string)) (string, error) {
	reader := NewSSEReader(body)
	var full strings.Builder

	for {
		if err := ctx.Err(); err != nil {
			return full.String(), err
		}

		data, err := reader.ReadEvent()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return full.String(), nil
			}
			return full.String(), err
		}

		if bytes.Equal(data, []byte("[DONE]")) {
			return full.String(), nil
		}

		var chunk StreamChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			continue
		}

		if delta := chunk.GetContent(); delta != "" {
			full.WriteString(delta)
			if onDelta != nil {
				onDelta(delta)
			}
		}
		if chunk.IsDone() {
			return full.String(), nil
		}
	}
}
