package enrich

import (
	"context"
	"fmt"

	"commentary_enricher/internal/chunker"
	"commentary_enricher/internal/corpus"
	"commentary_enricher/internal/llm"
	"commentary_enricher/internal/prompts"
)

// Колонки результата тематического разбиения
const (
	ColSectionNumber      = "SectionNumber"
	ColThemeTitle         = "ThemeTitle"
	ColContextualQuestion = "ContextualQuestion"
	ColThemeSummary       = "ThemeSummary"
	ColKeywords           = "Keywords"
	ColOutline            = "Outline"
)

var splitColumns = []string{
	ColSectionNumber, ColThemeTitle, corpus.ColThemeText,
	ColContextualQuestion, ColThemeSummary, ColKeywords, ColOutline,
}

// splitJob - одна часть комментария одной группы
type splitJob struct {
	group int
	part  int
	parts int
	text  string
}

// SplitThemes режет комментарий каждой группы на тематические секции.
// Длинный комментарий сначала делится на перекрывающиеся окна по словам,
// каждое окно уходит в LLM отдельно. Каждая секция становится строкой
// новой таблицы; базовые колонки копируются из первой строки группы.
func (p *Pipeline) SplitThemes(ctx context.Context, t *corpus.Table, cols Columns) (*corpus.Table, Report, error) {
	if !t.Has(corpus.ColThemeText) {
		for i := range t.Records {
			t.Set(i, corpus.ColThemeText, t.Get(i, cols.Commentary))
		}
		p.logger.Info("✅ ThemeText column is set", "from", cols.Commentary)
	}

	groups, err := t.GroupBy(cols.Group)
	if err != nil {
		return nil, Report{}, err
	}

	report := newReport("split", len(groups))
	var jobs []splitJob
	for gi, g := range groups {
		commentary := g.First(t, cols.Commentary)
		if commentary == "" {
			p.logger.Warn("⚠️ no commentary found", "group", g.Key)
			report.Skipped++
			continue
		}

		parts, err := chunker.Split(commentary, p.opts.ChunkSize, p.opts.OverlapRatio)
		if err != nil {
			return nil, Report{}, err
		}
		for pi, text := range parts {
			jobs = append(jobs, splitJob{group: gi, part: pi + 1, parts: len(parts), text: text})
		}
	}

	p.logger.Info("🚀 splitting commentary", "groups", len(groups), "requests", len(jobs))

	sections := make([][]map[string]any, len(jobs))
	errs, err := p.each(ctx, len(jobs), func(ctx context.Context, i int) error {
		job := jobs[i]
		p.logger.Debug("🧠 splitting group", "group", groups[job.group].Key, "part", job.part, "parts", job.parts)

		prompt, err := prompts.Render(prompts.Split, prompts.SplitData{
			Commentary: job.text,
			MinWords:   p.opts.SectionMinWords,
			MaxWords:   p.opts.SectionMaxWords,
			Part:       job.part,
			Parts:      job.parts,
		})
		if err != nil {
			return err
		}
		reply, err := p.llm.Complete(ctx, prompt)
		if err != nil {
			return err
		}
		items, err := llm.DecodeArray(reply)
		if err != nil {
			return err
		}
		sections[i] = items
		return nil
	})
	if err != nil {
		return nil, Report{}, err
	}

	out := corpus.New(t.Header...)
	for _, c := range splitColumns {
		out.EnsureColumn(c)
	}

	// группа с хотя бы одной неудачной частью не попадает в результат целиком
	failed := make(map[int]bool)
	for i, job := range jobs {
		if errs[i] == nil {
			continue
		}
		key := groups[job.group].Key
		if job.parts > 1 {
			key = fmt.Sprintf("%s (part %d/%d)", key, job.part, job.parts)
		}
		report.Failures[key] = errs[i]
		failed[job.group] = true
	}

	// номера секций сквозные внутри группы, через все части
	numbers := make(map[int]int)
	seen := make(map[int]bool)
	for i, job := range jobs {
		if !seen[job.group] {
			seen[job.group] = true
			if failed[job.group] {
				report.Failed++
				p.logger.Warn("⚠️ group dropped from split output", "group", groups[job.group].Key)
			} else {
				report.Succeeded++
			}
		}
		if failed[job.group] {
			continue
		}

		g := groups[job.group]
		base := t.Records[g.Rows[0]]
		for _, section := range sections[i] {
			numbers[job.group]++
			out.Append(base)
			row := out.Len() - 1
			out.Set(row, ColSectionNumber, fmt.Sprintf("%s - Section %d", g.Key, numbers[job.group]))
			out.Set(row, ColThemeTitle, llm.FormatValue(section["ThemeTitle"], " "))
			out.Set(row, corpus.ColThemeText, llm.FormatValue(section["ThemeText"], " "))
			out.Set(row, ColContextualQuestion, llm.FormatValue(section["ContextualQuestion"], " "))
			out.Set(row, ColThemeSummary, llm.FormatValue(section["ThemeSummary"], " "))
			out.Set(row, ColKeywords, llm.FormatValue(section["Keywords"], ", "))
			out.Set(row, ColOutline, llm.FormatValue(section["Outline"], "; "))
		}
	}

	p.logSummary(report)
	return out, report, nil
}
