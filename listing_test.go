package attic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgrazal/attic"
)

func TestRenderListing(t *testing.T) {
	entries := []attic.ListEntry{
		{Name: "docs", IsDir: true},
		{Name: "readme.txt", Size: 12},
	}

	body, err := attic.RenderListing("assets", entries)
	require.NoError(t, err)

	html := string(body)
	assert.Contains(t, html, "Index of /assets/")
	assert.Contains(t, html, `<a href="docs/">docs/</a>`)
	assert.Contains(t, html, `<a href="readme.txt">readme.txt</a>`)
}

func TestRenderListing_Root(t *testing.T) {
	body, err := attic.RenderListing(".", nil)
	require.NoError(t, err)

	assert.Contains(t, string(body), "Index of /")
}

func TestRenderListing_Deterministic(t *testing.T) {
	entries := []attic.ListEntry{
		{Name: "a.txt"},
		{Name: "b", IsDir: true},
		{Name: "c.bin", Size: 3},
	}

	first, err := attic.RenderListing("dir", entries)
	require.NoError(t, err)
	second, err := attic.RenderListing("dir", entries)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderListing_EscapesNames(t *testing.T) {
	entries := []attic.ListEntry{
		{Name: "<script>.txt"},
		{Name: "with space.txt"},
	}

	body, err := attic.RenderListing("dir", entries)
	require.NoError(t, err)

	html := string(body)
	assert.NotContains(t, html, "<script>.txt</a>")
	assert.Contains(t, html, "&lt;script&gt;.txt")
	assert.Contains(t, html, `href="with%20space.txt"`)
}
