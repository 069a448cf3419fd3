package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNarrative(t *testing.T) {
	t.Run("parses plain JSON", func(t *testing.T) {
		raw := `{"title":"The Brave Snail","pages":[{"text":"Once upon a time.","illustration":"A snail on a leaf"}]}`

		narrative, err := ParseNarrative(raw)
		require.NoError(t, err)
		assert.Equal(t, "The Brave Snail", narrative.Title)
		require.Len(t, narrative.Pages, 1)
		assert.Equal(t, "Once upon a time.", narrative.Pages[0].Text)
		assert.Equal(t, "A snail on a leaf", narrative.Pages[0].Illustration)
	})

	t.Run("strips markdown code fences", func(t *testing.T) {
		raw := "```json\n{\"title\":\"T\",\"pages\":[{\"text\":\"p1\",\"illustration\":\"i1\"}]}\n```"

		narrative, err := ParseNarrative(raw)
		require.NoError(t, err)
		assert.Equal(t, "T", narrative.Title)
	})

	t.Run("strips bare code fences", func(t *testing.T) {
		raw := "```\n{\"title\":\"T\",\"pages\":[{\"text\":\"p1\",\"illustration\":\"i1\"}]}\n```"

		narrative, err := ParseNarrative(raw)
		require.NoError(t, err)
		assert.Equal(t, "T", narrative.Title)
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		_, err := ParseNarrative("once upon a time there was no JSON")
		assert.Error(t, err)
	})

	t.Run("rejects a narrative without a title", func(t *testing.T) {
		_, err := ParseNarrative(`{"pages":[{"text":"p1","illustration":"i1"}]}`)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects a narrative without pages", func(t *testing.T) {
		_, err := ParseNarrative(`{"title":"T","pages":[]}`)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects a page with empty text", func(t *testing.T) {
		_, err := ParseNarrative(`{"title":"T","pages":[{"text":"  ","illustration":"i1"}]}`)
		assert.ErrorIs(t, err, ErrValidation)
	})
}
