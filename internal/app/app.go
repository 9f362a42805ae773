package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/philippgille/chromem-go"

	"commentary_enricher/internal/chunker"
	"commentary_enricher/internal/config"
	"commentary_enricher/internal/corpus"
	"commentary_enricher/internal/enrich"
	"commentary_enricher/internal/llm"
	"commentary_enricher/internal/store"
	"commentary_enricher/internal/vectors"
)

type App struct {
	cfg    *config.Config
	logger *log.Logger

	llm   enrich.Completer
	model string
	embed chromem.EmbeddingFunc

	in  io.Reader
	out io.Writer
}

// New собирает приложение из конфига: клиент LLM, функция эмбеддингов
func New(cfg *config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}

	client, err := llm.New(llm.Options{
		URL:         cfg.LLMURL,
		Model:       cfg.LLMModel,
		APIKey:      cfg.LLMKey,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.LLMTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		llm:    client,
		model:  client.Model(),
		embed:  vectors.OpenAIEmbedding(cfg.EmbedURL, cfg.EmbedKey, cfg.EmbedModel),
		in:     os.Stdin,
		out:    os.Stdout,
	}, nil
}

// SetCompleter подменяет LLM
func (a *App) SetCompleter(c enrich.Completer, model string) {
	a.llm = c
	a.model = model
}

// SetEmbedding подменяет функцию эмбеддингов
func (a *App) SetEmbedding(f chromem.EmbeddingFunc) {
	a.embed = f
}

// SetIO задаёт ввод для поиска и вывод результатов
func (a *App) SetIO(in io.Reader, out io.Writer) {
	a.in = in
	a.out = out
}

func (a *App) pipeline() (*enrich.Pipeline, error) {
	return enrich.New(a.llm, enrich.Options{
		Concurrency:  a.cfg.MaxConcurrency,
		ChunkSize:    a.cfg.ChunkSize,
		OverlapRatio: a.cfg.ChunkOverlap,
		Logger:       a.logger,
	})
}

func (a *App) chunkerConfig() chunker.Config {
	return chunker.Config{ChunkSize: a.cfg.ChunkSize, OverlapRatio: a.cfg.ChunkOverlap}
}

// outputPath - путь результата; по умолчанию рядом со входом: <имя>_<задача>.csv
func outputPath(input, output, task string) string {
	if output != "" {
		return output
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(filepath.Dir(input), fmt.Sprintf("%s_%s.csv", base, task))
}

func (a *App) loadTable(path string) (*corpus.Table, error) {
	t, err := corpus.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	a.logger.Info("📄 corpus loaded", "path", path, "rows", t.Len(), "columns", len(t.Header))
	return t, nil
}

func (a *App) saveTable(t *corpus.Table, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := t.WriteFile(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	a.logger.Info("💾 saved", "path", path, "rows", t.Len())
	return nil
}

// record пишет итог запуска в журнал; ошибка журнала не роняет команду
func (a *App) record(ctx context.Context, started time.Time, input, output string, r enrich.Report) {
	if a.cfg.DBFile == "" {
		return
	}
	s, err := store.Open(a.cfg.DBFile)
	if err != nil {
		a.logger.Warn("⚠️ run journal unavailable", "err", err)
		return
	}
	defer s.Close()

	id, err := s.SaveRun(ctx, store.Run{
		Task:       r.Task,
		Input:      input,
		Output:     output,
		Model:      a.model,
		Total:      r.Total,
		Succeeded:  r.Succeeded,
		Failed:     r.Failed,
		Skipped:    r.Skipped,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}, r.Failures)
	if err != nil {
		a.logger.Warn("⚠️ failed to record run", "err", err)
		return
	}
	a.logger.Debug("📝 run recorded", "id", id, "task", r.Task)
}

// History печатает последние запуски из журнала
func (a *App) History(ctx context.Context, limit int) error {
	s, err := store.Open(a.cfg.DBFile)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.Runs(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.out, "no runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(a.out, "%s  %-8s total=%d ok=%d failed=%d skipped=%d  %s -> %s  (%s)\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), r.Task,
			r.Total, r.Succeeded, r.Failed, r.Skipped,
			r.Input, r.Output, r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))

		failures, err := s.Failures(ctx, r.ID)
		if err != nil {
			return err
		}
		for _, f := range failures {
			fmt.Fprintf(a.out, "    ❌ %s: %s\n", f.Key, f.Error)
		}
	}
	return nil
}
