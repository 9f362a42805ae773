package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	LLMPreset   string        `env:"LLM_PRESET"`
	LLMURL      string        `env:"LLM_URL" validate:"required,url"`
	LLMModel    string        `env:"LLM_MODEL" validate:"required"`
	LLMKey      string        `env:"LLM_API_KEY"`
	Temperature float64       `env:"LLM_TEMPERATURE" envDefault:"0.4" validate:"gte=0,lte=2"`
	MaxTokens   int           `env:"LLM_MAX_TOKENS" envDefault:"1000" validate:"gt=0"`
	LLMTimeout  time.Duration `env:"LLM_TIMEOUT" envDefault:"90s" validate:"gt=0"`

	EmbedURL   string `env:"EMBED_URL" envDefault:"https://api.openai.com/v1" validate:"required,url"`
	EmbedModel string `env:"EMBED_MODEL" envDefault:"small" validate:"required"`
	EmbedKey   string `env:"EMBED_API_KEY"`

	ChunkSize    int     `env:"CHUNK_SIZE" envDefault:"200" validate:"gt=0"`
	ChunkOverlap float64 `env:"CHUNK_OVERLAP_RATIO" envDefault:"0.1" validate:"gte=0,lt=1"`
	ChunkMethod  string  `env:"CHUNK_METHOD"`

	MaxConcurrency int     `env:"MAX_CONCURRENCY" envDefault:"4" validate:"gte=1"`
	TopK           int     `env:"TOP_K" envDefault:"5" validate:"gte=1"`
	MinSimilarity  float32 `env:"MIN_SIMILARITY" envDefault:"0.3"`

	DataDir    string `env:"DATA_DIR" envDefault:"./data" validate:"required"`
	DBFile     string `env:"DB_FILE"`
	VectorFile string `env:"VECTOR_FILE"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogJSON  bool   `env:"LOG_JSON"`
}

// Init заполняет конфиг из переменных окружения
func Init(cfg *Config) error {
	return env.Parse(cfg)
}

// Resolve применяет пресеты, вычисляет пути в DataDir и проверяет значения.
// Вызывается после того, как флаги CLI перекрыли окружение.
func (c *Config) Resolve() error {
	// пустые URL и модель берутся из пресета, без пресета - из DefaultPreset
	preset := ChatPresets[DefaultPreset]
	if c.LLMPreset != "" {
		p, ok := ChatPresets[strings.ToLower(c.LLMPreset)]
		if !ok {
			return fmt.Errorf("unknown LLM preset %q (known: %s)", c.LLMPreset, strings.Join(PresetNames(), ", "))
		}
		preset = p
	}
	if c.LLMURL == "" {
		c.LLMURL = preset.URL
	}
	if c.LLMModel == "" {
		c.LLMModel = preset.Model
	}

	if model, ok := EmbeddingModels[strings.ToLower(c.EmbedModel)]; ok {
		c.EmbedModel = model
	}
	if c.EmbedKey == "" {
		c.EmbedKey = c.LLMKey
	}

	if c.DBFile == "" {
		c.DBFile = filepath.Join(c.DataDir, "runs.db")
	}
	if c.VectorFile == "" {
		c.VectorFile = filepath.Join(c.DataDir, "commentary.gob.gz")
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
