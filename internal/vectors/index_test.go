package vectors

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commentary_enricher/internal/corpus"
)

// letterEmbedding - детерминированный эмбеддинг: частоты букв a..z
func letterEmbedding(_ context.Context, text string) ([]float32, error) {
	if strings.Contains(text, "boom") {
		return nil, errors.New("embedding service unavailable")
	}
	vec := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		vec[0] = 1
		return vec, nil
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

const themesCSV = `SectionNumber,ThemeText
1:1-4 - Section 1,aaaa aaaa mercy
1:1-4 - Section 2,zzzz zzzz zeal
1:5-7 - Section 1,
1:5-7 - Section 2,boom
`

func openIndex(t *testing.T, path string) *Index {
	t.Helper()
	ix, err := Open(letterEmbedding, path, log.New(io.Discard))
	require.NoError(t, err)
	return ix
}

func TestAddRowsAndSearch(t *testing.T) {
	tbl, err := corpus.Read(strings.NewReader(themesCSV))
	require.NoError(t, err)

	ix := openIndex(t, "")
	stats, err := ix.AddRows(context.Background(), tbl, corpus.ColThemeText, "SectionNumber")
	require.NoError(t, err)
	assert.Equal(t, AddStats{Embedded: 2, Failed: 1, Skipped: 1}, stats)
	assert.Equal(t, 2, ix.Count())

	var vec []float32
	require.NoError(t, json.Unmarshal([]byte(tbl.Get(0, corpus.ColEmbedding)), &vec))
	assert.Len(t, vec, 26)
	assert.Equal(t, "", tbl.Get(3, corpus.ColEmbedding))

	matches, err := ix.Search(context.Background(), "aaa mercy", 5, 0)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "1:1-4 - Section 1", matches[0].ID)
	assert.Equal(t, 1, matches[0].Row)
	assert.Greater(t, matches[0].Similarity, matches[1].Similarity)

	matches, err = ix.Search(context.Background(), "aaa mercy", 5, 0.9)
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestSearchEmptyIndex(t *testing.T) {
	ix := openIndex(t, "")
	matches, err := ix.Search(context.Background(), "anything", 3, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "commentary.gob.gz")
	tbl, err := corpus.Read(strings.NewReader(themesCSV))
	require.NoError(t, err)

	ix := openIndex(t, path)
	_, err = ix.AddRows(context.Background(), tbl, corpus.ColThemeText, "")
	require.NoError(t, err)
	require.NoError(t, ix.Save())

	reloaded := openIndex(t, path)
	assert.Equal(t, 2, reloaded.Count())

	matches, err := reloaded.Search(context.Background(), "zeal", 1, 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "row-2", matches[0].ID)
}

func TestAddRowsMissingColumn(t *testing.T) {
	tbl := corpus.New("a")
	_, err := openIndex(t, "").AddRows(context.Background(), tbl, corpus.ColThemeText, "")
	require.ErrorIs(t, err, corpus.ErrMissingColumn)
}
