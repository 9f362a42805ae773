package chunker

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestTextChunkerMetadata(t *testing.T) {
	c := NewTextChunker(Config{ChunkSize: 4, OverlapRatio: 0.5}, quietLogger())

	chunks, err := c.Chunk(tokens(6), "tafsir.txt")
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "t0 t1 t2 t3", chunks[0].Text)
	assert.Equal(t, "tafsir.txt", chunks[0].Source)
	assert.Equal(t, "1", chunks[0].Metadata["chunk_num"])
	assert.Equal(t, "2", chunks[1].Metadata["start_word"])
	assert.Equal(t, "6", chunks[1].Metadata["end_word"])
	assert.Equal(t, "words", chunks[2].Metadata["method"])
	assert.NotEqual(t, chunks[0].ID, chunks[1].ID)
}

func TestTextChunkerRejectsInvalidConfig(t *testing.T) {
	c := NewTextChunker(Config{ChunkSize: 10, OverlapRatio: 1}, quietLogger())
	_, err := c.Chunk("a b c", "x.txt")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

const surahDoc = `# Al-Fatiha

The opening chapter is recited in every prayer.
It praises the Lord of all worlds.

## Notes

Seven verses.

# Al-Baqarah

The longest chapter of the Quran.

# Al-Imran

The family of Imran.
`

func TestMarkdownChunkerSplitsByHeadings(t *testing.T) {
	c := NewMarkdownChunker(Config{ChunkSize: 200, OverlapRatio: 0.1}, quietLogger())

	chunks, err := c.Chunk(surahDoc, "surahs.md")
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "Al-Fatiha", chunks[0].Section)
	assert.Equal(t, "The opening chapter is recited in every prayer. It praises the Lord of all worlds. Notes Seven verses.",
		strings.Join(strings.Fields(chunks[0].Text), " "))
	assert.Equal(t, "Al-Baqarah", chunks[1].Section)
	assert.Equal(t, "The longest chapter of the Quran.", chunks[1].Text)
	assert.Equal(t, "3", chunks[2].Metadata["section_num"])
	assert.Equal(t, "1", chunks[2].Metadata["level"])
}

func TestMarkdownChunkerWindowsLongSections(t *testing.T) {
	doc := "# One\n\n" + tokens(10) + "\n\n# Two\n\nshort text\n"
	c := NewMarkdownChunker(Config{ChunkSize: 4, OverlapRatio: 0.5}, quietLogger())

	chunks, err := c.Chunk(doc, "long.md")
	require.NoError(t, err)
	require.Len(t, chunks, 6)

	for _, ch := range chunks[:5] {
		assert.Equal(t, "One", ch.Section)
	}
	assert.Equal(t, "t8 t9", chunks[4].Text)
	assert.Equal(t, "Two", chunks[5].Section)
}

func TestMarkdownChunkerWithoutStructure(t *testing.T) {
	c := NewMarkdownChunker(Config{ChunkSize: 10, OverlapRatio: 0}, quietLogger())
	_, err := c.Chunk("just a paragraph\n\nand another one", "flat.md")
	require.Error(t, err)
}

func TestFactory(t *testing.T) {
	f := NewFactory(Config{ChunkSize: 10, OverlapRatio: 0.1}, quietLogger())

	c, err := f.GetChunker("notes.md", "")
	require.NoError(t, err)
	assert.Equal(t, "markdown", c.Name())

	c, err = f.GetChunker("notes.pdf", "")
	require.NoError(t, err)
	assert.Equal(t, "words", c.Name())

	c, err = f.GetChunker("notes.md", "text")
	require.NoError(t, err)
	assert.Equal(t, "words", c.Name())

	_, err = f.GetChunkerByMethod("semantic")
	require.Error(t, err)

	_, err = NewFactory(Config{ChunkSize: 0}, quietLogger()).GetChunker("a.txt", "")
	require.ErrorIs(t, err, ErrInvalidArgument)
}
