// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"
)

// =============================================================================
// IN-FLIGHT REQUEST CANCELLATION
// =============================================================================

// cancelManager holds the cancel function of the request being answered.
// Bubble Tea copies the Model on every Update, so it is always held by
// pointer to keep one mutex.
type cancelManager struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func newCancelManager() *cancelManager {
	return &cancelManager{}
}

// begin derives a request context from parent and remembers its cancel.
// A request still pending is cancelled first.
func (cm *cancelManager) begin(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancel != nil {
		cm.cancel()
	}
	cm.cancel = cancel
	return ctx
}

// stop cancels the pending request, if any. Safe to call repeatedly.
func (cm *cancelManager) stop() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancel == nil {
		return false
	}
	cm.cancel()
	cm.cancel = nil
	return true
}

// done releases the context of a finished request.
func (cm *cancelManager) done() {
	cm.stop()
}

func (cm *cancelManager) active() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.cancel != nil
}
