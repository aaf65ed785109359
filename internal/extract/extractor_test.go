package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starcasualty/popmatch/internal/config"
)

func TestNew_GeminiDefault(t *testing.T) {
	ex, err := New(config.ExtractionConfig{GeminiKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &geminiExtractor{}, ex)
}

func TestNew_GeminiRequiresKey(t *testing.T) {
	_, err := New(config.ExtractionConfig{Provider: "gemini"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini_api_key")
}

func TestNew_ClaudeRequiresKey(t *testing.T) {
	_, err := New(config.ExtractionConfig{Provider: "claude"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic_api_key")
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(config.ExtractionConfig{Provider: "tesseract"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("  {\"a\":1}  "))
}
