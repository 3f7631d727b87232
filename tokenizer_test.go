package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// wordTokenizer counts whitespace separated words.
type wordTokenizer struct{}

func (wordTokenizer) CountTokens(text string) int { return len(strings.Fields(text)) }

func TestCountTokens(t *testing.T) {
	t.Parallel()
	files := []FileEntry{
		{Rel: "src/a.cpp", Size: 14, Content: "int a = 1;\n", Loaded: true},
		{Rel: "src/empty.cpp", Size: 0, TokenCount: 7},
		{Rel: "README.md", Size: 12, Content: "two words\n", Loaded: true},
	}
	countTokens(wordTokenizer{}, files)

	assert.Equal(t, 4, files[0].TokenCount)
	assert.Equal(t, 0, files[1].TokenCount)
	assert.Equal(t, 2, files[2].TokenCount)
	assert.Equal(t, 6, summarize(files).TotalTokens)
}

func TestTiktokenWrapperNil(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, (&TiktokenWrapper{}).CountTokens("anything"))
}
