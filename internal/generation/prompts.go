package generation

import (
	"fmt"
	"strings"
)

// wordGuidance maps an age range to per-page word-count guidance for
// the narrative model.
func wordGuidance(ageRange string) string {
	a := strings.ToLower(ageRange)
	switch {
	case strings.HasPrefix(a, "kinder"), strings.HasPrefix(a, "pre"):
		return "15-25 simple words per page, short sentences"
	case strings.HasPrefix(a, "1st"), strings.HasPrefix(a, "first"):
		return "25-40 words per page, simple vocabulary"
	case strings.HasPrefix(a, "2nd"), strings.HasPrefix(a, "second"):
		return "40-60 words per page"
	case strings.HasPrefix(a, "3rd"), strings.HasPrefix(a, "third"):
		return "60-80 words per page, richer vocabulary"
	default:
		return "30-50 words per page"
	}
}

func narrativeSystemPrompt(prompt StoryPrompt) string {
	var b strings.Builder
	b.WriteString("You are a children's storybook author. ")
	fmt.Fprintf(&b, "Write for the %s reading level: %s. ", prompt.AgeRange, wordGuidance(prompt.AgeRange))
	b.WriteString("Respond with a single JSON object of the form ")
	b.WriteString(`{"title": string, "pages": [{"text": string, "illustration": string}]}. `)
	fmt.Fprintf(&b, "Produce exactly %d pages. ", prompt.PageCount)
	b.WriteString("Each page's \"illustration\" is a vivid visual description of the scene for an image generator, with no references to the story text.")
	return b.String()
}

func narrativeUserPrompt(prompt StoryPrompt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a storybook about: %s", prompt.Prompt)
	if prompt.CharacterName != "" {
		fmt.Fprintf(&b, "\nThe hero is %s", prompt.CharacterName)
		if prompt.CharacterType != "" {
			fmt.Fprintf(&b, ", a %s", prompt.CharacterType)
		}
		if len(prompt.Traits) > 0 {
			fmt.Fprintf(&b, " who is %s", strings.Join(prompt.Traits, ", "))
		}
		b.WriteString(".")
	}
	return b.String()
}
