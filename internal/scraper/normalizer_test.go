package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLToText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "One\nTwo\nThree", HTMLToText("<p>One</p><ul><li>Two</li><li>Three</li></ul>"))
	assert.Equal(t, "plain & simple", HTMLToText("  plain &amp;   simple "))
	assert.Equal(t, "kept", HTMLToText("<script>var x = 1;</script><div>kept</div>"))
	assert.Equal(t, "", HTMLToText(""))
}

func TestSimpleNormalizer(t *testing.T) {
	t.Parallel()

	got, err := NewSimpleNormalizer().Normalize("<html><body><h1>Title</h1>\n<p>Body   text</p></body></html>")
	require.NoError(t, err)
	assert.Equal(t, "Title Body text", got)
}
