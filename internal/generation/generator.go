// Package generation turns a story prompt into a completed Book: a
// structured narrative, one illustration per page, and optional audio
// narration, persisted through the storage façade after every step so
// pollers observe incremental progress.
package generation

import (
	"context"
	"errors"
)

var (
	// ErrValidation covers bad caller input: an empty prompt, or a
	// narrative that came back empty.
	ErrValidation = errors.New("invalid generation request")

	// ErrNotReady means the operation needs a completed book but the
	// book is still generating.
	ErrNotReady = errors.New("book is not completed yet")

	// ErrUpstream wraps failures of the external generation services.
	ErrUpstream = errors.New("upstream generation failure")
)

// Narrative is the structured story returned by the text service:
// a title plus per-page text and illustration descriptions.
type Narrative struct {
	Title string          `json:"title"`
	Pages []NarrativePage `json:"pages"`
}

type NarrativePage struct {
	Text         string `json:"text"`
	Illustration string `json:"illustration"`
}

// StoryPrompt carries everything the narrative service needs.
type StoryPrompt struct {
	Prompt        string
	AgeRange      string
	PageCount     int
	CharacterName string
	CharacterType string
	Traits        []string
}

// NarrativeGenerator produces a structured narrative from a prompt.
type NarrativeGenerator interface {
	GenerateNarrative(ctx context.Context, prompt StoryPrompt) (*Narrative, error)
}

// IllustrationGenerator renders one illustration and returns it as an
// image-data reference (data URL).
type IllustrationGenerator interface {
	GenerateIllustration(ctx context.Context, description, style string) (string, error)
}

// SpeechSynthesizer turns narration text into an audio-data reference
// (data URL).
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (string, error)
}
