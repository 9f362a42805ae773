package app

import (
	"context"
	"fmt"

	"commentary_enricher/internal/vectors"
)

// searchRelevant ищет ближайшие секции в индексе
func (a *App) searchRelevant(ctx context.Context, ix *vectors.Index, query string) ([]vectors.Match, error) {
	return ix.Search(ctx, query, a.cfg.TopK, a.cfg.MinSimilarity)
}

func (a *App) printMatches(matches []vectors.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(a.out, "🔍 nothing relevant found")
		return
	}
	fmt.Fprintf(a.out, "🔍 found %d relevant sections:\n", len(matches))
	for i, m := range matches {
		label := m.Key
		if label == "" {
			label = m.ID
		}
		fmt.Fprintf(a.out, "%d. [%s] (similarity: %.2f)\n   %s\n", i+1, label, m.Similarity, m.Content)
	}
}
