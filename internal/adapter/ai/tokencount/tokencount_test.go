package tokencount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountTokens(t *testing.T) {
	c := NewCounter()
	n, err := c.CountTokens("hello world", "llama-3.3-70b-versatile")
	require.NoError(t, err)
	assert.Greater(t, n, 0)
}

func TestCountChatTokens_IncludesOverhead(t *testing.T) {
	c := NewCounter()
	bare, err := c.CountTokens("hi", "llama-3.3-70b-versatile")
	require.NoError(t, err)
	chat, err := c.CountChatTokens("sys", "hi", "llama-3.3-70b-versatile")
	require.NoError(t, err)
	assert.Greater(t, chat, bare)
}

func TestNormalizeModelName(t *testing.T) {
	assert.Equal(t, "gpt-4", normalizeModelName("meta-llama/llama-3.3-70b-versatile"))
	assert.Equal(t, "gpt-3.5-turbo", normalizeModelName("gpt-3.5-turbo-0125"))
}

func TestEstimateChatTokens_NeverZeroForText(t *testing.T) {
	assert.Greater(t, EstimateChatTokens("system prompt", "user prompt", "whatever"), 0)
}
