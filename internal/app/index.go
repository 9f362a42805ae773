package app

import (
	"context"
	"time"

	"commentary_enricher/internal/corpus"
	"commentary_enricher/internal/enrich"
	"commentary_enricher/internal/vectors"
)

func (a *App) openIndex() (*vectors.Index, error) {
	return vectors.Open(a.embed, a.cfg.VectorFile, a.logger)
}

// Embed считает эмбеддинги ThemeText, пишет их в колонку Embedding
// и сохраняет векторный индекс для поиска
func (a *App) Embed(ctx context.Context, input, output string) (enrich.Report, error) {
	started := time.Now()

	t, err := a.loadTable(input)
	if err != nil {
		return enrich.Report{}, err
	}
	textCol, err := t.Resolve(corpus.ColThemeText)
	if err != nil {
		return enrich.Report{}, err
	}
	keyCol := ""
	if t.Has(enrich.ColSectionNumber) {
		keyCol = enrich.ColSectionNumber
	}

	ix, err := a.openIndex()
	if err != nil {
		return enrich.Report{}, err
	}
	stats, err := ix.AddRows(ctx, t, textCol, keyCol)
	if err != nil {
		return enrich.Report{}, err
	}
	if err := ix.Save(); err != nil {
		return enrich.Report{}, err
	}

	report := enrich.Report{
		Task:      "embed",
		Total:     t.Len(),
		Succeeded: stats.Embedded,
		Failed:    stats.Failed,
		Skipped:   stats.Skipped,
	}

	output = outputPath(input, output, "embeddings")
	if err := a.saveTable(t, output); err != nil {
		return report, err
	}
	a.record(ctx, started, input, output, report)
	return report, nil
}
