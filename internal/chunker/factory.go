package chunker

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Factory создаёт chunker на основе метода и типа файла
type Factory struct {
	config Config
	logger *log.Logger
}

// NewFactory создаёт новую фабрику chunker'ов
func NewFactory(config Config, logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.Default()
	}
	return &Factory{config: config, logger: logger}
}

// GetChunker возвращает подходящий chunker для файла
func (f *Factory) GetChunker(filePath, method string) (Chunker, error) {
	if err := f.config.Validate(); err != nil {
		return nil, err
	}

	// Если метод явно указан - используем его
	if method != "" {
		return f.GetChunkerByMethod(method)
	}

	// Иначе определяем по расширению файла
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".md", ".markdown":
		return NewMarkdownChunker(f.config, f.logger), nil
	default:
		return NewTextChunker(f.config, f.logger), nil
	}
}

// GetChunkerByMethod возвращает chunker по названию метода
func (f *Factory) GetChunkerByMethod(method string) (Chunker, error) {
	switch strings.ToLower(method) {
	case "markdown", "md":
		return NewMarkdownChunker(f.config, f.logger), nil
	case "words", "simple", "text", "txt":
		return NewTextChunker(f.config, f.logger), nil
	default:
		return nil, fmt.Errorf("unknown chunking method: %s", method)
	}
}
