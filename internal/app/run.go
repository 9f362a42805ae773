package app

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// Search читает запросы из ввода (по одному на строку) и печатает
// ближайшие секции индекса. С analyze найденные секции и запрос
// дополнительно сравниваются через LLM. Работает до EOF или отмены ctx.
func (a *App) Search(ctx context.Context, analyze bool) error {
	ix, err := a.openIndex()
	if err != nil {
		return err
	}
	if ix.Count() == 0 {
		a.logger.Warn("⚠️ vector index is empty, run embed first", "path", a.cfg.VectorFile)
	}

	var compare func(ctx context.Context, texts []string) (string, error)
	if analyze {
		p, err := a.pipeline()
		if err != nil {
			return err
		}
		compare = p.Compare
	}

	a.logger.Info("🔎 enter a query per line, Ctrl+C to exit", "documents", ix.Count())

	scanner := bufio.NewScanner(a.in)
	const maxLineSize = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("👋 shutting down search")
			return nil
		default:
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("stdin error: %w", err)
			}
			a.logger.Debug("stdin closed")
			return nil
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}

		matches, err := a.searchRelevant(ctx, ix, query)
		if err != nil {
			a.logger.Error("❌ search error", "err", err)
			continue
		}
		a.printMatches(matches)

		if compare == nil || len(matches) == 0 {
			continue
		}
		texts := []string{query}
		for _, m := range matches {
			texts = append(texts, m.Content)
		}
		a.logger.Info("🤖 analyzing with LLM")
		analysis, err := compare(ctx, texts)
		if err != nil {
			a.logger.Error("❌ LLM error", "err", err)
			continue
		}
		fmt.Fprintf(a.out, "\n%s\n\n", analysis)
	}
}
