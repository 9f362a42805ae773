package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"commentary_enricher/internal/chunker"
	"commentary_enricher/internal/document"
	"commentary_enricher/internal/enrich"
)

// ChunkDocument режет документ на чанки и сохраняет их таблицей CSV
func (a *App) ChunkDocument(ctx context.Context, input, output string) (string, error) {
	started := time.Now()
	if !document.Supported(input) {
		return "", fmt.Errorf("unsupported format: %s", filepath.Ext(input))
	}

	content, err := document.Load(input)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	a.logger.Info("📄 file loaded", "path", input, "bytes", len(content))

	factory := chunker.NewFactory(a.chunkerConfig(), a.logger)
	chunkr, err := factory.GetChunker(input, a.cfg.ChunkMethod)
	if err != nil {
		return "", fmt.Errorf("failed to get chunker: %w", err)
	}

	source := filepath.Base(input)
	chunks, err := chunkr.Chunk(content, source)
	if err != nil {
		a.logger.Warn("⚠️ chunker failed, falling back to text chunker", "chunker", chunkr.Name(), "err", err)
		chunks, err = chunker.NewTextChunker(a.chunkerConfig(), a.logger).Chunk(content, source)
		if err != nil {
			return "", fmt.Errorf("text chunker failed: %w", err)
		}
	}
	a.logger.Info("📦 split into chunks", "count", len(chunks))

	output = outputPath(input, output, "chunks")
	if err := a.saveTable(document.ToTable(chunks), output); err != nil {
		return "", err
	}

	a.record(ctx, started, input, output, enrich.Report{
		Task: "chunk", Total: len(chunks), Succeeded: len(chunks),
	})
	return output, nil
}
