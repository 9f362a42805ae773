package enrich

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"commentary_enricher/internal/corpus"
	"commentary_enricher/internal/llm"
	"commentary_enricher/internal/prompts"
)

var (
	ChapterFields = []string{"ChapterSummary", "ChapterOutline", "ChapterQuestions"}
	ChunkFields   = []string{"Wisdom", "Reflections", "ChunkOutline", "ChunkQuestions"}
)

// jsonCell сохраняет список как JSON-массив, отсутствующее значение - как []
func jsonCell(v any) string {
	if v == nil {
		return "[]"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// EnrichChapters делает сводку, план и вопросы для каждой главы (по titleCol)
func (p *Pipeline) EnrichChapters(ctx context.Context, t *corpus.Table, titleCol string) (Report, error) {
	groups, err := t.GroupBy(titleCol)
	if err != nil {
		return Report{}, err
	}
	for _, f := range ChapterFields {
		t.EnsureColumn(f)
	}

	p.logger.Info("🚀 enriching chapters", "chapters", len(groups))

	results := make([]map[string]any, len(groups))
	errs, err := p.each(ctx, len(groups), func(ctx context.Context, i int) error {
		prompt, err := prompts.Render(prompts.Chapter, prompts.ChapterData{Title: groups[i].Key})
		if err != nil {
			return err
		}
		reply, err := p.llm.Complete(ctx, prompt)
		if err != nil {
			return err
		}
		results[i], err = llm.DecodeObject(reply)
		return err
	})
	if err != nil {
		return Report{}, err
	}

	report := newReport("chapters", len(groups))
	for i, g := range groups {
		if errs[i] != nil {
			report.fail(g.Key, errs[i])
			continue
		}
		g.SetAll(t, "ChapterSummary", llm.FormatValue(results[i]["ChapterSummary"], " "))
		g.SetAll(t, "ChapterOutline", jsonCell(results[i]["ChapterOutline"]))
		g.SetAll(t, "ChapterQuestions", jsonCell(results[i]["ChapterQuestions"]))
		report.Succeeded++
	}

	p.logSummary(report)
	return report, nil
}

// EnrichChunks обогащает каждую строку с непустым текстом чанка
func (p *Pipeline) EnrichChunks(ctx context.Context, t *corpus.Table, chunkCol string) (Report, error) {
	if _, err := t.Resolve(chunkCol); err != nil {
		return Report{}, err
	}
	for _, f := range ChunkFields {
		t.EnsureColumn(f)
	}

	var rows []int
	for i := range t.Records {
		if strings.TrimSpace(t.Get(i, chunkCol)) != "" {
			rows = append(rows, i)
		}
	}

	p.logger.Info("🚀 enriching chunks", "chunks", len(rows))

	results := make([]map[string]any, len(rows))
	errs, err := p.each(ctx, len(rows), func(ctx context.Context, i int) error {
		prompt, err := prompts.Render(prompts.Chunk, prompts.ChunkData{Chunk: t.Get(rows[i], chunkCol)})
		if err != nil {
			return err
		}
		reply, err := p.llm.Complete(ctx, prompt)
		if err != nil {
			return err
		}
		results[i], err = llm.DecodeObject(reply)
		return err
	})
	if err != nil {
		return Report{}, err
	}

	report := newReport("chunks", len(rows))
	report.Skipped = t.Len() - len(rows)
	for i, row := range rows {
		if errs[i] != nil {
			report.fail("row "+strconv.Itoa(row+1), errs[i])
			continue
		}
		t.Set(row, "Wisdom", llm.FormatValue(results[i]["Wisdom"], "; "))
		t.Set(row, "Reflections", llm.FormatValue(results[i]["Reflections"], "; "))
		t.Set(row, "ChunkOutline", jsonCell(results[i]["ChunkOutline"]))
		t.Set(row, "ChunkQuestions", jsonCell(results[i]["ChunkQuestions"]))
		report.Succeeded++
	}

	p.logSummary(report)
	return report, nil
}
