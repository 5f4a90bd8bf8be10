// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitReload(t *testing.T, w *Watcher) Reload {
	t.Helper()
	select {
	case r, ok := <-w.Updates():
		require.True(t, ok, "updates closed early")
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	return Reload{}
}

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()
	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
	return w
}

func TestWatcher_Reloads(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "[chat]\ntone = \"Neutral\"\n")

	w := startWatcher(t, path)
	writeFile(t, path, "[chat]\ntone = \"Agreeable\"\n")

	r := waitReload(t, w)
	require.NoError(t, r.Err)
	assert.Equal(t, "Agreeable", r.Config.Chat.Tone)
}

func TestWatcher_ReportsInvalidConfig(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "")

	w := startWatcher(t, path)
	writeFile(t, path, "[ui]\ntheme = \"neon\"\n")

	r := waitReload(t, w)
	assert.Nil(t, r.Config)
	assert.ErrorContains(t, r.Err, "ui.theme")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "")

	w := startWatcher(t, path)
	writeFile(t, filepath.Join(dir, "other.toml"), "x = 1\n")

	select {
	case r := <-w.Updates():
		t.Fatalf("unexpected reload: %+v", r)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_ClosesOnCancel(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "")

	w, err := NewWatcher(path, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))

	_, ok := <-w.Updates()
	assert.False(t, ok)
}
