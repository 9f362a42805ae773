package chunker

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// TextChunker разбивает plain text на окна по словам с overlap
type TextChunker struct {
	config Config
	logger *log.Logger
}

// NewTextChunker создаёт новый chunker по словам
func NewTextChunker(config Config, logger *log.Logger) *TextChunker {
	if logger == nil {
		logger = log.Default()
	}
	return &TextChunker{config: config, logger: logger}
}

func (s *TextChunker) Name() string {
	return "words"
}

func (s *TextChunker) Chunk(content, source string) ([]Chunk, error) {
	chunks, err := s.chunkSection(content, source, "", nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("✅ created chunks", "chunker", s.Name(), "source", source, "count", len(chunks))
	return chunks, nil
}

// chunkSection режет один кусок текста на окна; base копируется в метаданные каждого чанка
func (s *TextChunker) chunkSection(content, source, section string, base map[string]string) ([]Chunk, error) {
	step, err := Step(s.config.ChunkSize, s.config.OverlapRatio)
	if err != nil {
		return nil, err
	}

	words := strings.Fields(content)
	windows := Windows(len(words), s.config.ChunkSize, step)

	chunks := make([]Chunk, 0, len(windows))
	for i, w := range windows {
		metadata := make(map[string]string, len(base)+4)
		for k, v := range base {
			metadata[k] = v
		}
		metadata["chunk_num"] = strconv.Itoa(i + 1)
		metadata["start_word"] = strconv.Itoa(w.Start)
		metadata["end_word"] = strconv.Itoa(w.End)
		metadata["method"] = s.Name()

		chunks = append(chunks, CreateChunk(strings.Join(words[w.Start:w.End], " "), source, section, metadata))
	}
	return chunks, nil
}
