package config

import (
	"maps"
	"slices"
)

// ChatPreset - готовая пара endpoint + модель
type ChatPreset struct {
	Title string
	URL   string
	Model string
}

const DefaultPreset = "deepseek"

var ChatPresets = map[string]ChatPreset{
	"deepseek": {
		Title: "DeepSeek Reasoner",
		URL:   "https://api.deepseek.com/v1/chat/completions",
		Model: "deepseek-reasoner",
	},
	"openrouter-claude": {
		Title: "Claude 3.5 Sonnet (via OpenRouter)",
		URL:   "https://openrouter.ai/api/v1/chat/completions",
		Model: "anthropic/claude-3-sonnet",
	},
}

// EmbeddingModels - короткие имена моделей эмбеддингов OpenAI
var EmbeddingModels = map[string]string{
	"small": "text-embedding-3-small",
	"large": "text-embedding-ada-002",
}

func PresetNames() []string {
	return slices.Sorted(maps.Keys(ChatPresets))
}
