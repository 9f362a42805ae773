// Package enrich - единый параметризуемый конвейер обогащения корпуса:
// группировка строк, рендер промпта, вызов LLM, разбор JSON, запись полей.
package enrich

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"commentary_enricher/internal/chunker"
)

// Completer - внешний сервис генерации текста
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// SystemCompleter умеет принимать system-сообщение
type SystemCompleter interface {
	Chat(ctx context.Context, system, prompt string) (string, error)
}

// Options - параметры конвейера
type Options struct {
	Concurrency     int     // одновременных запросов к LLM
	ChunkSize       int     // окно в словах для длинных комментариев
	OverlapRatio    float64 // перекрытие окон
	SectionMinWords int     // размер тематической секции
	SectionMaxWords int
	Logger          *log.Logger
}

// Pipeline - конвейер обогащения
type Pipeline struct {
	llm    Completer
	opts   Options
	logger *log.Logger
}

// New создаёт конвейер; параметры чанкинга проверяются сразу
func New(llm Completer, opts Options) (*Pipeline, error) {
	if llm == nil {
		return nil, fmt.Errorf("enrich: completer is required")
	}
	if _, err := chunker.Step(opts.ChunkSize, opts.OverlapRatio); err != nil {
		return nil, fmt.Errorf("enrich: %w", err)
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.SectionMinWords <= 0 {
		opts.SectionMinWords = 150
	}
	if opts.SectionMaxWords < opts.SectionMinWords {
		opts.SectionMaxWords = opts.SectionMinWords + 50
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Pipeline{llm: llm, opts: opts, logger: opts.Logger}, nil
}

// each вызывает fn для 0..n-1 не более чем в Concurrency горутин.
// Ошибки элементов не останавливают остальные; отмена ctx - останавливает.
func (p *Pipeline) each(ctx context.Context, n int, fn func(ctx context.Context, i int) error) ([]error, error) {
	errs := make([]error, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = fn(gctx, i)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return errs, err
	}
	return errs, nil
}

// Report - итог одного прогона
type Report struct {
	Task      string
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Failures  map[string]error
}

func newReport(task string, total int) Report {
	return Report{Task: task, Total: total, Failures: make(map[string]error)}
}

func (r *Report) fail(key string, err error) {
	r.Failed++
	r.Failures[key] = err
}

// FailedKeys возвращает ключи неудачных групп по порядку
func (r Report) FailedKeys() []string {
	keys := make([]string, 0, len(r.Failures))
	for k := range r.Failures {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: total=%d ok=%d failed=%d", r.Task, r.Total, r.Succeeded, r.Failed)
	if r.Skipped > 0 {
		fmt.Fprintf(&b, " skipped=%d", r.Skipped)
	}
	return b.String()
}

// logSummary печатает итог прогона
func (p *Pipeline) logSummary(r Report) {
	p.logger.Info("📊 summary", "task", r.Task, "total", r.Total,
		"ok", r.Succeeded, "failed", r.Failed, "skipped", r.Skipped)
	for _, k := range r.FailedKeys() {
		p.logger.Warn("❌ failed", "task", r.Task, "key", k, "err", r.Failures[k])
	}
}
