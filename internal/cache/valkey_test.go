package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommendationKey(t *testing.T) {
	a := RecommendationKey("c0ffee", "query", "Sea View")
	b := RecommendationKey("c0ffee", "query", "  sea view ")
	c := RecommendationKey("beef", "query", "sea view")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "rec:c0ffee:query:"))
	assert.Len(t, strings.TrimPrefix(a, "rec:c0ffee:query:"), 40)
}
