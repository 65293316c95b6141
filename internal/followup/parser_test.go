package followup

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoundTrip(t *testing.T) {
	raw := "Plant maize.\n\nFOLLOW_UP_SUGGESTIONS:\n1. When to harvest?\n2. What fertilizer?"

	main, suggestions := Parse(raw)

	assert.Equal(t, "Plant maize.", main)
	assert.Equal(t, []string{"When to harvest?", "What fertilizer?"}, suggestions)
}

func TestParseWithoutMarkerIsIdentity(t *testing.T) {
	for _, raw := range []string{
		"",
		"  Plant maize early.  \n",
		"1. Clear the land\n2. Plant",
		"FOLLOW_UP SUGGESTIONS 1. nope",
	} {
		main, suggestions := Parse(raw)
		assert.Equal(t, raw, main)
		assert.Empty(t, suggestions)
		assert.NotNil(t, suggestions)
	}
}

func TestParseKeepsOrderForKLines(t *testing.T) {
	for k := 0; k <= 5; k++ {
		var sb strings.Builder
		sb.WriteString("Answer body.\n\nFOLLOW_UP_SUGGESTIONS:\n")
		want := make([]string, 0, k)
		for i := 1; i <= k; i++ {
			q := fmt.Sprintf("Question %d?", i)
			want = append(want, q)
			sb.WriteString(fmt.Sprintf("%d. %s\n", i, q))
		}

		main, got := Parse(sb.String())
		assert.Equal(t, "Answer body.", main)
		assert.Equal(t, want, got, "k=%d", k)
	}
}

func TestParseCaseInsensitiveFirstMarker(t *testing.T) {
	raw := "Rotate crops.\nfollow_up_suggestions:\n  1.Soil test?\n- not numbered\n2.   \n10. Cover crops?\nFOLLOW_UP_SUGGESTIONS:\n3. Third?"

	main, suggestions := Parse(raw)

	assert.Equal(t, "Rotate crops.", main)
	assert.Equal(t, []string{"Soil test?", "Cover crops?", "Third?"}, suggestions)
}

func TestParseMarkerInline(t *testing.T) {
	main, suggestions := Parse("Use mulch. FOLLOW_UP_SUGGESTIONS: 1. Which mulch?")
	assert.Equal(t, "Use mulch.", main)
	assert.Equal(t, []string{"Which mulch?"}, suggestions)
}
