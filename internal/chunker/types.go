package chunker

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Chunk - фрагмент текста вместе с происхождением
type Chunk struct {
	ID       string            // Уникальный идентификатор (hash)
	Text     string            // Текст чанка
	Source   string            // Имя исходного файла
	Section  string            // Заголовок секции (Detected Title)
	Metadata map[string]string // Дополнительные метаданные
}

// Chunker - интерфейс для всех типов chunker'ов
type Chunker interface {
	// Chunk разбивает контент на чанки
	Chunk(content, source string) ([]Chunk, error)

	// Name возвращает название chunker'а для логирования
	Name() string
}

// Config содержит общие параметры для chunker'ов
type Config struct {
	ChunkSize    int     // Размер окна в словах
	OverlapRatio float64 // Доля окна, повторяемая в начале следующего
}

// Validate проверяет, что параметры дают конечную последовательность окон
func (c Config) Validate() error {
	_, err := Step(c.ChunkSize, c.OverlapRatio)
	return err
}

// CreateChunk создаёт чанк с автоматической генерацией ID
func CreateChunk(text, source, section string, metadata map[string]string) Chunk {
	text = strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(source + "\x00" + section + "\x00" + text))

	if metadata == nil {
		metadata = make(map[string]string)
	}

	return Chunk{
		ID:       fmt.Sprintf("%x", hash[:8]),
		Text:     text,
		Source:   source,
		Section:  section,
		Metadata: metadata,
	}
}
