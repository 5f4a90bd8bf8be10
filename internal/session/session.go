// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jeranaias/gaia-tui/internal/cloud"
	"github.com/jeranaias/gaia-tui/internal/logging"
	"github.com/jeranaias/gaia-tui/internal/model"
	"github.com/jeranaias/gaia-tui/internal/util"
)

// DefaultErrorReply is shown in place of a reply when the provider fails.
const DefaultErrorReply = "Sorry, I encountered an error. Please try again."

// ErrBusy is returned by Send while an earlier request is still in flight.
var ErrBusy = errors.New("a reply is already in progress")

// =============================================================================
// COLLABORATORS
// =============================================================================

// Completer produces one complete reply for a request.
type Completer interface {
	Complete(ctx context.Context, messages []cloud.ChatMessage) (string, error)
}

// Streamer produces a reply incrementally, calling onDelta per fragment.
type Streamer interface {
	ChatStream(ctx context.Context, messages []cloud.ChatMessage, onDelta func(string)) (string, error)
}

// Recorder persists conversations and their messages.
type Recorder interface {
	CreateConversation(ctx context.Context, conv *model.Conversation) error
	AppendMessage(ctx context.Context, conversationID string, msg *model.Message) error
}

// Options configure a Session.
type Options struct {
	// ErrorReply replaces a failed reply. Empty means DefaultErrorReply.
	ErrorReply string

	// Stream uses the provider's streaming endpoint when it has one.
	Stream bool

	Recorder Recorder
	Logger   *logging.Logger
}

// =============================================================================
// SESSION
// =============================================================================

// Session serialises the send/reply cycle over one conversation.
// All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	conv     *model.Conversation
	provider Completer
	opts     Options
	log      *logging.Logger

	typing   bool
	recorded bool // conversation row exists in the recorder
}

// New creates a session over conv. provider may be nil until an API key is
// known; Send then fails with cloud.ErrNotConfigured.
func New(conv *model.Conversation, provider Completer, opts Options) *Session {
	if opts.ErrorReply == "" {
		opts.ErrorReply = DefaultErrorReply
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Session{
		conv:     conv,
		provider: provider,
		opts:     opts,
		log:      log,
	}
}

// SetProvider replaces the provider, e.g. after the user entered a key.
func (s *Session) SetProvider(p Completer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
}

// HasProvider reports whether a provider is attached.
func (s *Session) HasProvider() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider != nil
}

// Typing reports whether a request is in flight.
func (s *Session) Typing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

// Tone returns the conversation tone.
func (s *Session) Tone() model.Tone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Tone
}

// SetTone changes the tone used for subsequent requests.
func (s *Session) SetTone(t model.Tone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conv.Tone = t
}

// ConversationID returns the ID of the underlying conversation.
func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.ID
}

// Messages returns a snapshot of the displayed messages, welcome included.
func (s *Session) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Message, len(s.conv.Messages))
	for i, m := range s.conv.Messages {
		out[i] = *m
	}
	return out
}

// LastReply returns the text of the newest assistant reply, or "".
func (s *Session) LastReply() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m := s.conv.LastAssistantMessage(); m != nil {
		return m.Text
	}
	return ""
}

// Reset starts a new conversation with the same tone and model.
func (s *Session) Reset(welcome string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := model.NewConversation(s.conv.Tone, welcome)
	next.Model = s.conv.Model
	next.MaxHistory = s.conv.MaxHistory
	s.conv = next
	s.recorded = false
}

// =============================================================================
// SEND
// =============================================================================

// Send submits input and returns the message appended as the answer.
//
// Input is normalised to NFC. Blank input is ignored and returns (nil, nil).
// On provider failure the configured error reply is appended and returned
// together with the provider error. onToken, when non-nil and streaming is
// enabled, receives reply fragments as they arrive.
func (s *Session) Send(ctx context.Context, input string, onToken func(string)) (*model.Message, error) {
	input = util.NormalizeInput(input)
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	s.mu.Lock()
	if s.typing {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	provider := s.provider
	if provider == nil {
		s.mu.Unlock()
		return nil, cloud.ErrNotConfigured
	}
	request := s.conv.RequestMessages(input)
	userMsg := s.conv.AddUserMessage(input)
	s.typing = true
	s.mu.Unlock()

	s.record(ctx, userMsg)

	text, err := s.complete(ctx, provider, request, onToken)

	s.mu.Lock()
	if err != nil {
		s.log.Warn("provider request failed", "conversation", s.conv.ID, "error", err)
		text = s.opts.ErrorReply
	}
	reply := s.conv.AddAssistantMessage(text)
	s.typing = false
	s.mu.Unlock()

	s.record(ctx, reply)
	return reply, err
}

func (s *Session) complete(ctx context.Context, p Completer, request []cloud.ChatMessage, onToken func(string)) (string, error) {
	if streamer, ok := p.(Streamer); ok && s.opts.Stream && onToken != nil {
		return streamer.ChatStream(ctx, request, onToken)
	}
	return p.Complete(ctx, request)
}

// record writes msg through to the recorder, creating the conversation row
// on first use. Failures are logged and never surface to the chat.
func (s *Session) record(ctx context.Context, msg *model.Message) {
	rec := s.opts.Recorder
	if rec == nil {
		return
	}

	// RELIABILITY: storage runs after the provider call may have been
	// cancelled; use a context that keeps the values but not the deadline.
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	conv := *s.conv
	conv.Messages = nil
	first := !s.recorded
	s.recorded = true
	s.mu.Unlock()

	if first {
		if err := rec.CreateConversation(ctx, &conv); err != nil {
			s.log.Error("create conversation failed", "conversation", conv.ID, "error", err)
			s.mu.Lock()
			s.recorded = false
			s.mu.Unlock()
			return
		}
	}
	if err := rec.AppendMessage(ctx, conv.ID, msg); err != nil {
		s.log.Error("append message failed", "conversation", conv.ID, "error", err)
	}
}
