// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"errors"
	"strings"
)

// KeyPrefix is the prefix every OpenAI secret key starts with.
const KeyPrefix = "sk-"

// API key validation errors. Their text is shown to the user as is.
var (
	ErrKeyEmpty     = errors.New("Please enter an API key")
	ErrKeyBadPrefix = errors.New(`API key should start with "sk-"`)
)

// ValidateAPIKey checks the shape of a key before it is used.
// It does not contact the server.
func ValidateAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrKeyEmpty
	}
	if !strings.HasPrefix(key, KeyPrefix) {
		return ErrKeyBadPrefix
	}
	return nil
}

// MaskKey returns a display form of key that never shows its secret part.
func MaskKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "[not set]"
	}
	return "[REDACTED, fingerprint=" + Fingerprint(key) + "]"
}
