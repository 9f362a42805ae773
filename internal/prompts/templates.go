// Package prompts содержит шаблоны промптов для обогащения комментариев.
package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Имена шаблонов
const (
	Group    = "group"
	Outline  = "outline"
	Combined = "combined"
	Split    = "split"
	Chapter  = "chapter"
	Chunk    = "chunk"
	Compare  = "compare"
)

const groupTemplate = `
Given the Quranic verses: "{{ .Verses }}"
(Translation: "{{ .Translation }}")
and this group commentary: "{{ .Commentary }}", extract:

- themes
- wisdom_points
- real_life_reflections
- revelation_context

Return result as **valid JSON** like this:
{
  "themes": [...],
  "wisdom_points": [...],
  "real_life_reflections": [...],
  "revelation_context": "..."
}`

const outlineTemplate = `
Given the following Quranic verses: "{{ .Verses }}"
(Translation: "{{ .Translation }}")
and commentary: "{{ .Commentary }}", generate:

1. An 'outline_of_commentary' – a clear bullet-point summary of key ideas.
2. 'contextual_questions' – 4–6 questions that explain and explore the deeper meaning in context. Each question should function as an explanation in disguise.

Return result as valid JSON in this format:
{
  "outline_of_commentary": [...],
  "contextual_questions": [...]
}`

const combinedTemplate = `
Given this Quranic translation: "{{ .Translation }}"
and commentary: "{{ .Commentary }}", extract:

{{ range $i, $f := .Fields }}{{ add1 $i }}. {{ $f }}{{ with index $.Hints $f }} – {{ . }}{{ end }}
{{ end }}
Return result as valid JSON including only the fields requested.`

const splitTemplate = `
Split the following commentary into thematic sections ({{ .MinWords }}–{{ .MaxWords }} words each). For each section, extract:
- SectionNumber (e.g., 1, 2, 3, …)
- ThemeTitle (short, descriptive)
- ThemeText (exact substring from the commentary, {{ .MinWords }}–{{ .MaxWords }} words)
- ContextualQuestion (a deep, open-ended question)
- ThemeSummary (2–3 sentence overview)
- Keywords (5–7 key terms)
- Outline (3–5 bullet points)

Return the result as a JSON array where each item represents one section.
{{- if gt .Parts 1 }}
This is part {{ .Part }} of {{ .Parts }} of a longer commentary; it may start or end mid-thought.
{{- end }}

Commentary:
{{ .Commentary }}`

const chapterTemplate = `Summarize the chapter titled '{{ .Title }}' in 50 words. ` +
	`Provide an outline of 3-5 bullet points, and 2 contextual questions. ` +
	`Return the output as JSON with keys: ChapterSummary, ChapterOutline, ChapterQuestions.`

const chunkTemplate = `For the following text chunk, generate Wisdom, Reflections, ` +
	`an outline (3-5 bullets), and 1 contextual question. ` +
	`Text Chunk: {{ .Chunk }} ` +
	`Return JSON with keys: Wisdom, Reflections, ChunkOutline, ChunkQuestions.`

const compareTemplate = `You are analyzing Quranic commentary themes. Compare the following texts and determine whether their meanings are:
- Similar
- Complementary
- Contrary

Provide a relationship label for each pair and a short explanation.

Texts:
{{ range $i, $t := .Texts }}
Text {{ add1 $i }}: {{ trim $t }}
{{ end }}`

// FieldHints - пояснения к полям для шаблона combined
var FieldHints = map[string]string{
	"outline_of_commentary": "bullet summary",
	"contextual_questions":  "4–6 explanations",
}

var templates = template.Must(parse(map[string]string{
	Group:    groupTemplate,
	Outline:  outlineTemplate,
	Combined: combinedTemplate,
	Split:    splitTemplate,
	Chapter:  chapterTemplate,
	Chunk:    chunkTemplate,
	Compare:  compareTemplate,
}))

func parse(sources map[string]string) (*template.Template, error) {
	root := template.New("prompts").Option("missingkey=error").Funcs(sprig.TxtFuncMap())
	for name, src := range sources {
		if _, err := root.New(name).Parse(src); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
	}
	return root, nil
}

// Has сообщает, есть ли шаблон с таким именем
func Has(name string) bool {
	return templates.Lookup(name) != nil
}

// Render подставляет data в шаблон name
func Render(name string, data any) (string, error) {
	tmpl := templates.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
