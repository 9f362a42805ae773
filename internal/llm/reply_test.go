package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `[1]`, StripFences("  ```\n[1]\n```  "))
	assert.Equal(t, `plain`, StripFences("plain"))
}

func TestDecodeObject(t *testing.T) {
	obj, err := DecodeObject("```json\n{\"themes\": [\"mercy\", \"guidance\"], \"revelation_context\": \"Makkah\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Makkah", obj["revelation_context"])
	assert.Equal(t, []any{"mercy", "guidance"}, obj["themes"])

	_, err = DecodeObject("")
	require.ErrorIs(t, err, ErrNoJSON)
	_, err = DecodeObject("[1, 2]")
	require.ErrorIs(t, err, ErrNoJSON)
	_, err = DecodeObject("Sure! Here are the themes.")
	require.ErrorIs(t, err, ErrNoJSON)
}

func TestDecodeArray(t *testing.T) {
	items, err := DecodeArray(`[{"SectionNumber": 1, "ThemeTitle": "Praise"}, {"SectionNumber": 2}]`)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Praise", items[0]["ThemeTitle"])

	items, err = DecodeArray("```json\n{\"sections\": [{\"ThemeTitle\": \"Mercy\"}]}\n```")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Mercy", items[0]["ThemeTitle"])

	_, err = DecodeArray(`{"title": "no array"}`)
	require.ErrorIs(t, err, ErrNoJSON)
	_, err = DecodeArray("   ")
	require.ErrorIs(t, err, ErrNoJSON)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil, ", "))
	assert.Equal(t, "text", FormatValue("text", ", "))
	assert.Equal(t, "a, b", FormatValue([]any{"a", "", "b"}, ", "))
	assert.Equal(t, "3", FormatValue(float64(3), ", "))
	assert.Equal(t, "2.5", FormatValue(2.5, ", "))
	assert.Equal(t, "true", FormatValue(true, ", "))
	assert.Equal(t, `{"k":"v"}`, FormatValue(map[string]any{"k": "v"}, ", "))
}
