package enrich

import (
	"context"
	"fmt"

	"commentary_enricher/internal/corpus"
	"commentary_enricher/internal/llm"
	"commentary_enricher/internal/prompts"
)

const noCommentary = "No commentary provided."

// Поля, которые пишутся обратно в таблицу
var (
	ThemeFields   = []string{"themes", "wisdom_points", "real_life_reflections", "revelation_context"}
	OutlineFields = []string{"outline_of_commentary", "contextual_questions"}
)

// Task описывает, какой шаблон рендерить и какие поля извлекать
type Task struct {
	Name     string
	Template string
	Fields   []string
	ListSep  string // разделитель для полей-массивов
}

var (
	Themes  = Task{Name: "themes", Template: prompts.Group, Fields: ThemeFields, ListSep: "; "}
	Outline = Task{Name: "outline", Template: prompts.Outline, Fields: OutlineFields, ListSep: "; "}
)

// Combined запрашивает темы и/или план с вопросами одним промптом
func Combined(themes, outline bool) Task {
	var fields []string
	if themes {
		fields = append(fields, ThemeFields...)
	}
	if outline {
		fields = append(fields, OutlineFields...)
	}
	return Task{Name: "combined", Template: prompts.Combined, Fields: fields, ListSep: "; "}
}

// TaskByMode возвращает задачу по имени режима CLI
func TaskByMode(mode string) (Task, error) {
	switch mode {
	case "themes":
		return Themes, nil
	case "outline":
		return Outline, nil
	case "both", "combined":
		return Combined(true, true), nil
	default:
		return Task{}, fmt.Errorf("unknown enrichment mode: %s", mode)
	}
}

// Columns - имена колонок, из которых собирается промпт
type Columns struct {
	Group       string
	Verses      string // может отсутствовать
	Translation string
	Commentary  string
}

// ResolveColumns подбирает колонки с учётом альтернативных названий
func ResolveColumns(t *corpus.Table) (Columns, error) {
	var (
		cols Columns
		err  error
	)
	if cols.Group, err = t.Resolve(corpus.ColVerseGroup, corpus.ColGroup); err != nil {
		return cols, err
	}
	if cols.Translation, err = t.Resolve("translation", corpus.ColTranslation); err != nil {
		return cols, err
	}
	if cols.Commentary, err = t.Resolve(corpus.ColCommentary, "commentary"); err != nil {
		return cols, err
	}
	cols.Verses, _ = t.Resolve(corpus.ColVerse)
	return cols, nil
}

func groupData(t *corpus.Table, g corpus.Group, cols Columns, task Task) prompts.GroupData {
	commentary := g.First(t, cols.Commentary)
	if commentary == "" {
		commentary = noCommentary
	}

	data := prompts.GroupData{
		Translation: g.Joined(t, cols.Translation, " | "),
		Commentary:  commentary,
		Fields:      task.Fields,
		Hints:       prompts.FieldHints,
	}
	if cols.Verses != "" {
		data.Verses = g.Joined(t, cols.Verses, " | ")
	}
	return data
}

// EnrichGroups обогащает каждую группу строк одним запросом к LLM и
// записывает поля задачи во все строки группы. Неудачные группы
// получают пустые поля и попадают в отчёт.
func (p *Pipeline) EnrichGroups(ctx context.Context, t *corpus.Table, cols Columns, task Task) (Report, error) {
	if len(task.Fields) == 0 {
		return Report{}, fmt.Errorf("task %s has no fields", task.Name)
	}

	groups, err := t.GroupBy(cols.Group)
	if err != nil {
		return Report{}, err
	}
	for _, f := range task.Fields {
		t.EnsureColumn(f)
	}

	p.logger.Info("🚀 enriching groups", "task", task.Name, "groups", len(groups), "rows", t.Len())

	results := make([]map[string]any, len(groups))
	errs, err := p.each(ctx, len(groups), func(ctx context.Context, i int) error {
		g := groups[i]
		p.logger.Debug("🧠 processing group", "group", g.Key, "rows", len(g.Rows))

		prompt, err := prompts.Render(task.Template, groupData(t, g, cols, task))
		if err != nil {
			return err
		}
		reply, err := p.llm.Complete(ctx, prompt)
		if err != nil {
			return err
		}
		obj, err := llm.DecodeObject(reply)
		if err != nil {
			return err
		}
		results[i] = obj
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	report := newReport(task.Name, len(groups))
	for i, g := range groups {
		if errs[i] != nil {
			report.fail(g.Key, errs[i])
			for _, f := range task.Fields {
				g.SetAll(t, f, "")
			}
			continue
		}
		for _, f := range task.Fields {
			g.SetAll(t, f, llm.FormatValue(results[i][f], task.ListSep))
		}
		report.Succeeded++
	}

	p.logSummary(report)
	return report, nil
}
