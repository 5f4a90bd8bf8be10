// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// STREAMING BUFFER
// =============================================================================

// Reply fragments arrive on the request goroutine far faster than the
// screen needs to repaint. They are collected here and drained on a fixed
// tick.
const (
	defaultBatchSize = 15
	defaultMaxFPS    = 30
)

// StreamingBuffer collects reply fragments between repaints. It is safe for
// concurrent use: Write runs on the request goroutine, Flush on the UI loop.
type StreamingBuffer struct {
	mu         sync.Mutex
	buffer     strings.Builder
	tokenCount int
	lastFlush  time.Time

	batchSize int
	interval  time.Duration
}

// NewStreamingBuffer creates a buffer that flushes every 15 fragments or
// 30 times a second, whichever comes first.
func NewStreamingBuffer() *StreamingBuffer {
	return &StreamingBuffer{
		batchSize: defaultBatchSize,
		interval:  time.Second / defaultMaxFPS,
		lastFlush: time.Now(),
	}
}

// Write appends one fragment.
func (sb *StreamingBuffer) Write(fragment string) {
	if fragment == "" {
		return
	}
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.buffer.WriteString(fragment)
	sb.tokenCount++
}

// Flush returns the pending text if a repaint is due.
func (sb *StreamingBuffer) Flush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if sb.buffer.Len() == 0 {
		return "", false
	}
	if sb.tokenCount < sb.batchSize && time.Since(sb.lastFlush) < sb.interval {
		return "", false
	}
	return sb.drainLocked(), true
}

// ForceFlush returns whatever is pending regardless of thresholds.
func (sb *StreamingBuffer) ForceFlush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if sb.buffer.Len() == 0 {
		return "", false
	}
	return sb.drainLocked(), true
}

// Reset discards pending text.
func (sb *StreamingBuffer) Reset() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.drainLocked()
}

// Pending returns the number of fragments waiting to be flushed.
func (sb *StreamingBuffer) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.tokenCount
}

func (sb *StreamingBuffer) drainLocked() string {
	s := sb.buffer.String()
	sb.buffer.Reset()
	sb.tokenCount = 0
	sb.lastFlush = time.Now()
	return s
}

// streamTickCmd schedules the next repaint while a reply is streaming.
func streamTickCmd() tea.Cmd {
	return tea.Tick(time.Second/defaultMaxFPS, func(t time.Time) tea.Msg {
		return streamTickMsg{At: t}
	})
}
