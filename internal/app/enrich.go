package app

import (
	"context"
	"fmt"
	"time"

	"commentary_enricher/internal/corpus"
	"commentary_enricher/internal/enrich"
)

// Enrich дописывает в корпус поля выбранного режима: themes, outline или both
func (a *App) Enrich(ctx context.Context, input, output, mode string) (enrich.Report, error) {
	task, err := enrich.TaskByMode(mode)
	if err != nil {
		return enrich.Report{}, err
	}
	return a.runTable(ctx, input, output, task.Name, func(p *enrich.Pipeline, t *corpus.Table) (*corpus.Table, enrich.Report, error) {
		cols, err := enrich.ResolveColumns(t)
		if err != nil {
			return nil, enrich.Report{}, err
		}
		r, err := p.EnrichGroups(ctx, t, cols, task)
		return t, r, err
	})
}

// Split режет комментарий каждой группы на тематические секции
func (a *App) Split(ctx context.Context, input, output string) (enrich.Report, error) {
	return a.runTable(ctx, input, output, "split", func(p *enrich.Pipeline, t *corpus.Table) (*corpus.Table, enrich.Report, error) {
		cols, err := enrich.ResolveColumns(t)
		if err != nil {
			return nil, enrich.Report{}, err
		}
		return p.SplitThemes(ctx, t, cols)
	})
}

// Chapters обогащает главы таблицы чанков (колонка Detected Title)
func (a *App) Chapters(ctx context.Context, input, output string) (enrich.Report, error) {
	return a.runTable(ctx, input, output, "chapters", func(p *enrich.Pipeline, t *corpus.Table) (*corpus.Table, enrich.Report, error) {
		r, err := p.EnrichChapters(ctx, t, corpus.ColTitle)
		return t, r, err
	})
}

// Chunks обогащает каждый чанк (колонка TEXT CHUNK)
func (a *App) Chunks(ctx context.Context, input, output string) (enrich.Report, error) {
	return a.runTable(ctx, input, output, "chunks", func(p *enrich.Pipeline, t *corpus.Table) (*corpus.Table, enrich.Report, error) {
		r, err := p.EnrichChunks(ctx, t, corpus.ColChunk)
		return t, r, err
	})
}

type tableStep func(p *enrich.Pipeline, t *corpus.Table) (*corpus.Table, enrich.Report, error)

// runTable - общий путь табличных команд: чтение, конвейер, запись, журнал
func (a *App) runTable(ctx context.Context, input, output, task string, step tableStep) (enrich.Report, error) {
	started := time.Now()

	p, err := a.pipeline()
	if err != nil {
		return enrich.Report{}, err
	}
	t, err := a.loadTable(input)
	if err != nil {
		return enrich.Report{}, err
	}

	result, report, err := step(p, t)
	if err != nil {
		return report, err
	}

	output = outputPath(input, output, task)
	if err := a.saveTable(result, output); err != nil {
		return report, err
	}
	a.record(ctx, started, input, output, report)
	return report, nil
}

// Compare сравнивает ThemeText выбранных строк (нумерация с 1)
func (a *App) Compare(ctx context.Context, input string, rows []int) (string, error) {
	started := time.Now()

	p, err := a.pipeline()
	if err != nil {
		return "", err
	}
	t, err := a.loadTable(input)
	if err != nil {
		return "", err
	}
	col, err := t.Resolve(corpus.ColThemeText)
	if err != nil {
		return "", err
	}

	texts := make([]string, 0, len(rows))
	for _, r := range rows {
		if r < 1 || r > t.Len() {
			return "", fmt.Errorf("row %d out of range 1..%d", r, t.Len())
		}
		texts = append(texts, t.Get(r-1, col))
	}

	result, err := p.Compare(ctx, texts)
	report := enrich.Report{Task: "compare", Total: 1, Succeeded: 1}
	if err != nil {
		report = enrich.Report{Task: "compare", Total: 1, Failed: 1, Failures: map[string]error{"compare": err}}
	}
	a.record(ctx, started, input, "", report)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(a.out, "🧾 %s\n", result)
	return result, nil
}
