// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides the client for OpenAI-compatible chat completion
// endpoints.
//
// # Key Types
//
//   - Client: HTTP client with retries, backoff and an optional rate limiter
//   - ChatMessage: one role/content pair of a request
//   - ChatResponse: the decoded completion
//   - SSEReader: server-sent events reader used for streamed replies
//   - APIError, StreamError: typed errors for API bodies and broken streams
//
// # Usage
//
//	client := cloud.NewClient(apiKey).
//	    WithModel("gpt-4o-mini").
//	    WithRateLimit(20)
//	reply, err := client.Complete(ctx, []cloud.ChatMessage{
//	    cloud.NewSystemMessage(prompt),
//	    cloud.NewUserMessage("Hello"),
//	})
//	if errors.Is(err, cloud.ErrAuthFailed) {
//	    // ask for a new key
//	}
//
// # Security
//
// API keys are never logged. Request logging records method, path and model;
// response logging records status and duration only.
package cloud
