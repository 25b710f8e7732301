package seeds

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogIsValid(t *testing.T) {
	titles := map[string]bool{}
	for _, m := range catalog {
		assert.False(t, titles[m.Title], "duplicate title %q", m.Title)
		titles[m.Title] = true

		assert.NotEmpty(t, m.Description, m.Title)
		assert.LessOrEqual(t, len(m.Title), 200, m.Title)
		assert.GreaterOrEqual(t, m.ReleaseYear, 1888, m.Title)
		assert.True(t, m.Rating >= 0 && m.Rating <= 10, m.Title)
		assert.True(t, m.MinimumAge >= 0 && m.MinimumAge <= 21, m.Title)
		assert.Positive(t, m.DurationMinutes, m.Title)
	}
}

// Every fallback rule has something to pick for a young viewer.
func TestCatalogCoversFallbackRules(t *testing.T) {
	var romance, action, classic bool
	for _, m := range catalog {
		if m.MinimumAge > 7 {
			continue
		}
		category := strings.ToLower(m.Category)
		romance = romance || strings.Contains(category, "romance")
		action = action || strings.Contains(category, "action")
		classic = classic || m.ReleaseYear < 2010
	}
	assert.True(t, romance)
	assert.True(t, action)
	assert.True(t, classic)
}
