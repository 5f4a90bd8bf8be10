// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"net"

	"github.com/jeranaias/gaia-tui/internal/cloud"
	"github.com/jeranaias/gaia-tui/internal/storage"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates a missing, malformed or rejected API key
	ExitAuthError = 4
	// ExitNetworkError indicates the API could not be reached
	ExitNetworkError = 5
	// ExitNotFoundError indicates a conversation was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ConfigError wraps a failure to read, validate or write the config file.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "config: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// UsageError reports bad arguments or flag values.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var cfgErr *ConfigError
	var usageErr *UsageError
	var netErr net.Error

	switch {
	case errors.As(err, &usageErr):
		return ExitUsageError
	case errors.As(err, &cfgErr):
		return ExitConfigError
	case errors.Is(err, cloud.ErrNotConfigured),
		errors.Is(err, cloud.ErrAuthFailed),
		errors.Is(err, cloud.ErrKeyEmpty),
		errors.Is(err, cloud.ErrKeyBadPrefix):
		return ExitAuthError
	case errors.Is(err, storage.ErrNotFound):
		return ExitNotFoundError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return ExitTimeoutError
		}
		return ExitNetworkError
	}
	return ExitGeneralError
}
