// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/jeranaias/gaia-tui/internal/cloud"
	"github.com/jeranaias/gaia-tui/internal/model"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeProvider struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests [][]cloud.ChatMessage

	// block, when set, is waited on before replying.
	block chan struct{}
}

func (f *fakeProvider) Complete(ctx context.Context, msgs []cloud.ChatMessage) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, msgs)
	block := f.block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

type fakeStreamer struct {
	fakeProvider
	chunks []string
}

func (f *fakeStreamer) ChatStream(ctx context.Context, msgs []cloud.ChatMessage, onDelta func(string)) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, msgs)
	f.mu.Unlock()
	var sb strings.Builder
	for _, c := range f.chunks {
		onDelta(c)
		sb.WriteString(c)
	}
	return sb.String(), nil
}

type fakeRecorder struct {
	mu            sync.Mutex
	conversations []model.Conversation
	messages      map[string][]model.Message
	createErr     error
}

func (r *fakeRecorder) CreateConversation(_ context.Context, conv *model.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.conversations = append(r.conversations, *conv)
	return nil
}

func (r *fakeRecorder) AppendMessage(_ context.Context, id string, msg *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.messages == nil {
		r.messages = make(map[string][]model.Message)
	}
	r.messages[id] = append(r.messages[id], *msg)
	return nil
}

func newTestSession(p Completer, opts Options) *Session {
	return New(model.NewConversation(model.ToneNeutral, "Welcome!"), p, opts)
}

// =============================================================================
// SEND TESTS
// =============================================================================

func TestSend_AppendsTurns(t *testing.T) {
	p := &fakeProvider{reply: "Hi there"}
	s := newTestSession(p, Options{})

	reply, err := s.Send(context.Background(), "Hello", nil)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply == nil || reply.Text != "Hi there" {
		t.Fatalf("Send() reply = %+v, want Hi there", reply)
	}

	msgs := s.Messages()
	if len(msgs) != 3 {
		t.Fatalf("len(Messages()) = %d, want 3", len(msgs))
	}
	if !msgs[0].Welcome || msgs[1].Role != model.RoleUser || msgs[2].Role != model.RoleAssistant {
		t.Errorf("unexpected message order: %+v", msgs)
	}
	if s.Typing() {
		t.Error("Typing() should be false after Send returns")
	}
	if got := s.LastReply(); got != "Hi there" {
		t.Errorf("LastReply() = %q", got)
	}

	// The welcome message is not part of the request.
	req := p.requests[0]
	if len(req) != 2 || req[0].Role != "system" || req[1].Content != "Hello" {
		t.Errorf("request = %+v", req)
	}
}

func TestSend_BlankInputIgnored(t *testing.T) {
	p := &fakeProvider{reply: "x"}
	s := newTestSession(p, Options{})

	for _, in := range []string{"", "   ", "\n\t"} {
		reply, err := s.Send(context.Background(), in, nil)
		if reply != nil || err != nil {
			t.Errorf("Send(%q) = %v, %v; want nil, nil", in, reply, err)
		}
	}
	if len(p.requests) != 0 {
		t.Errorf("provider called %d times for blank input", len(p.requests))
	}
	if n := len(s.Messages()); n != 1 {
		t.Errorf("len(Messages()) = %d, want 1", n)
	}
}

func TestSend_ErrorReply(t *testing.T) {
	p := &fakeProvider{err: cloud.ErrAuthFailed}
	s := newTestSession(p, Options{})

	reply, err := s.Send(context.Background(), "Hello", nil)
	if !errors.Is(err, cloud.ErrAuthFailed) {
		t.Fatalf("Send() error = %v, want ErrAuthFailed", err)
	}
	if reply == nil || reply.Text != DefaultErrorReply {
		t.Fatalf("reply = %+v, want default error reply", reply)
	}
	if s.Typing() {
		t.Error("Typing() should be cleared after a failure")
	}

	// The error reply stays in the history of the next request.
	p.err = nil
	p.reply = "ok"
	if _, err := s.Send(context.Background(), "again", nil); err != nil {
		t.Fatalf("second Send() error = %v", err)
	}
	req := p.requests[1]
	if len(req) != 4 || req[2].Content != DefaultErrorReply {
		t.Errorf("second request = %+v", req)
	}
}

func TestSend_CustomErrorReply(t *testing.T) {
	s := newTestSession(&fakeProvider{err: errors.New("boom")}, Options{ErrorReply: "nope"})
	reply, _ := s.Send(context.Background(), "Hello", nil)
	if reply.Text != "nope" {
		t.Errorf("reply = %q, want nope", reply.Text)
	}
}

func TestSend_NotConfigured(t *testing.T) {
	s := newTestSession(nil, Options{})
	if s.HasProvider() {
		t.Fatal("HasProvider() = true with nil provider")
	}

	_, err := s.Send(context.Background(), "Hello", nil)
	if !errors.Is(err, cloud.ErrNotConfigured) {
		t.Fatalf("Send() error = %v, want ErrNotConfigured", err)
	}
	if n := len(s.Messages()); n != 1 {
		t.Errorf("len(Messages()) = %d, want 1", n)
	}

	s.SetProvider(&fakeProvider{reply: "ok"})
	if _, err := s.Send(context.Background(), "Hello", nil); err != nil {
		t.Errorf("Send() after SetProvider error = %v", err)
	}
}

func TestSend_NormalizesInput(t *testing.T) {
	p := &fakeProvider{reply: "ok"}
	s := newTestSession(p, Options{})

	if _, err := s.Send(context.Background(), "cafe\u0301", nil); err != nil {
		t.Fatal(err)
	}
	if got := s.Messages()[1].Text; got != "caf\u00e9" {
		t.Errorf("stored text = %q, want NFC form", got)
	}
}

func TestSend_Busy(t *testing.T) {
	p := &fakeProvider{reply: "slow", block: make(chan struct{})}
	s := newTestSession(p, Options{})

	done := make(chan error, 1)
	go func() {
		_, err := s.Send(context.Background(), "first", nil)
		done <- err
	}()

	// Wait until the first request reached the provider.
	for {
		p.mu.Lock()
		n := len(p.requests)
		p.mu.Unlock()
		if n == 1 {
			break
		}
		runtime.Gosched()
	}
	if !s.Typing() {
		t.Error("Typing() should be true while a request is in flight")
	}
	if _, err := s.Send(context.Background(), "second", nil); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent Send() error = %v, want ErrBusy", err)
	}

	close(p.block)
	if err := <-done; err != nil {
		t.Errorf("first Send() error = %v", err)
	}
}

func TestSend_Streaming(t *testing.T) {
	p := &fakeStreamer{chunks: []string{"Hel", "lo"}}
	s := newTestSession(p, Options{Stream: true})

	var got []string
	reply, err := s.Send(context.Background(), "hi", func(d string) { got = append(got, d) })
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != "Hello" {
		t.Errorf("reply = %q, want Hello", reply.Text)
	}
	if strings.Join(got, "|") != "Hel|lo" {
		t.Errorf("deltas = %v", got)
	}
}

func TestSend_StreamingDisabled(t *testing.T) {
	p := &fakeStreamer{fakeProvider: fakeProvider{reply: "whole"}, chunks: []string{"x"}}
	s := newTestSession(p, Options{})

	reply, err := s.Send(context.Background(), "hi", func(string) { t.Error("unexpected delta") })
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != "whole" {
		t.Errorf("reply = %q, want whole", reply.Text)
	}
}

// =============================================================================
// RECORDER TESTS
// =============================================================================

func TestSend_Records(t *testing.T) {
	rec := &fakeRecorder{}
	s := newTestSession(&fakeProvider{reply: "a"}, Options{Recorder: rec})

	for _, q := range []string{"q1", "q2"} {
		if _, err := s.Send(context.Background(), q, nil); err != nil {
			t.Fatal(err)
		}
	}

	if len(rec.conversations) != 1 {
		t.Fatalf("conversations recorded = %d, want 1", len(rec.conversations))
	}
	if rec.conversations[0].Title != "q1" {
		t.Errorf("title = %q, want q1", rec.conversations[0].Title)
	}
	msgs := rec.messages[s.ConversationID()]
	if len(msgs) != 4 {
		t.Fatalf("messages recorded = %d, want 4", len(msgs))
	}
	for _, m := range msgs {
		if m.Welcome {
			t.Error("welcome message must not be recorded")
		}
	}
}

func TestSend_RecorderFailureDoesNotBreakChat(t *testing.T) {
	rec := &fakeRecorder{createErr: errors.New("disk full")}
	s := newTestSession(&fakeProvider{reply: "a"}, Options{Recorder: rec})

	reply, err := s.Send(context.Background(), "q", nil)
	if err != nil || reply.Text != "a" {
		t.Fatalf("Send() = %v, %v", reply, err)
	}
	if len(rec.messages) != 0 {
		t.Errorf("messages recorded without a conversation row")
	}
}

func TestReset(t *testing.T) {
	rec := &fakeRecorder{}
	s := newTestSession(&fakeProvider{reply: "a"}, Options{Recorder: rec})
	s.SetTone(model.ToneAgreeable)
	_, _ = s.Send(context.Background(), "q", nil)
	first := s.ConversationID()

	s.Reset("Fresh start")
	if s.ConversationID() == first {
		t.Error("Reset() kept the conversation ID")
	}
	if s.Tone() != model.ToneAgreeable {
		t.Errorf("Tone() = %v after Reset", s.Tone())
	}
	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Text != "Fresh start" {
		t.Errorf("Messages() after Reset = %+v", msgs)
	}

	_, _ = s.Send(context.Background(), "q", nil)
	if len(rec.conversations) != 2 {
		t.Errorf("conversations recorded = %d, want 2", len(rec.conversations))
	}
}

func TestSetToneAffectsRequest(t *testing.T) {
	p := &fakeProvider{reply: "a"}
	s := newTestSession(p, Options{})
	s.SetTone(model.ToneCondescending)
	_, _ = s.Send(context.Background(), "q", nil)

	if got := p.requests[0][0].Content; got != model.ToneCondescending.SystemPrompt() {
		t.Errorf("system prompt = %q", got)
	}
}
