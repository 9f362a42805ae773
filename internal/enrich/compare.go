package enrich

import (
	"context"
	"errors"
	"strings"

	"commentary_enricher/internal/prompts"
)

// ErrTooFewTexts - для сравнения нужно минимум два текста
var ErrTooFewTexts = errors.New("select at least 2 texts to compare")

const compareSystem = "You are a Quranic scholar and theme analyzer."

// Compare просит LLM определить отношение между текстами:
// Similar, Complementary или Contrary
func (p *Pipeline) Compare(ctx context.Context, texts []string) (string, error) {
	var nonEmpty []string
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			nonEmpty = append(nonEmpty, t)
		}
	}
	if len(nonEmpty) < 2 {
		return "", ErrTooFewTexts
	}

	prompt, err := prompts.Render(prompts.Compare, prompts.CompareData{Texts: nonEmpty})
	if err != nil {
		return "", err
	}

	p.logger.Info("🔎 comparing texts", "count", len(nonEmpty))
	if sc, ok := p.llm.(SystemCompleter); ok {
		return sc.Chat(ctx, compareSystem, prompt)
	}
	return p.llm.Complete(ctx, prompt)
}
