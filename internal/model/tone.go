// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// =============================================================================
// TONE
// =============================================================================

// Tone selects the assistant persona sent as the system prompt.
type Tone string

const (
	ToneNeutral       Tone = "Neutral"
	ToneCondescending Tone = "Condescending"
	ToneAgreeable     Tone = "Agreeable"
)

// Tones lists the known tones in display order.
var Tones = []Tone{ToneNeutral, ToneCondescending, ToneAgreeable}

// DefaultPrompt is the system prompt for a tone that is not recognised.
const DefaultPrompt = "You are a helpful AI assistant. Respond naturally and clearly in a neutral tone."

var tonePrompts = map[Tone]string{
	ToneNeutral:       "You are a helpful AI assistant. Respond naturally and clearly in a neutral, factual tone. Be informative and professional when discussing women's health topics.",
	ToneCondescending: "You are a condescending AI assistant. Respond in an instructional tone. The user is probably not as right as you are!",
	ToneAgreeable:     "You are an agreeable AI assistant. Be extremely supportive and don't hurt the users feelings.",
}

// ParseTone matches name against the known tones, ignoring case and
// surrounding space.
func ParseTone(name string) (Tone, bool) {
	name = strings.TrimSpace(name)
	for _, t := range Tones {
		if strings.EqualFold(string(t), name) {
			return t, true
		}
	}
	return Tone(name), false
}

// Valid reports whether t is one of the known tones.
func (t Tone) Valid() bool {
	_, ok := tonePrompts[t]
	return ok
}

// SystemPrompt returns the instruction sent ahead of every request.
func (t Tone) SystemPrompt() string {
	if p, ok := tonePrompts[t]; ok {
		return p
	}
	return DefaultPrompt
}

// Next returns the tone after t in Tones, wrapping around.
func (t Tone) Next() Tone {
	for i, tone := range Tones {
		if tone == t {
			return Tones[(i+1)%len(Tones)]
		}
	}
	return ToneNeutral
}

// String returns the tone name.
func (t Tone) String() string {
	return string(t)
}
