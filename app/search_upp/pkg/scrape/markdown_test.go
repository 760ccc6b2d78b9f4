package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMarkdown(t *testing.T) {
	html := `<html><head><style>body{}</style><script>var x=1;</script></head><body>
<h1>Title</h1>
<p>First paragraph.</p>
<p>   </p>
<h3>Section</h3>
<ul><li>one</li><li> two </li></ul>
</body></html>`

	md, err := ToMarkdown(html)
	require.NoError(t, err)
	assert.Equal(t, "\n# Title\n\nFirst paragraph.\n\n\n\n### Section\n\n\n\n* one\n\n* two\n\n\n", md)
	assert.NotContains(t, md, "var x")
}

func TestToMarkdownOrderedListAndEmpty(t *testing.T) {
	md, err := ToMarkdown(`<ol><li>a</li></ol>`)
	require.NoError(t, err)
	assert.Equal(t, "\n\n* a\n\n\n", md)

	md, err = ToMarkdown(`<div>no structure</div>`)
	require.NoError(t, err)
	assert.Empty(t, md)
}
