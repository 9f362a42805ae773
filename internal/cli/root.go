// Package cli - команды cobra поверх internal/app.
package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"commentary_enricher/internal/app"
	"commentary_enricher/internal/config"
	"commentary_enricher/internal/logger"
)

// flags перекрывают окружение, только если заданы явно
type flags struct {
	preset      string
	model       string
	dataDir     string
	method      string
	logLevel    string
	logJSON     bool
	concurrency int
	chunkSize   int
	overlap     float64
}

type state struct {
	cfg    *config.Config
	logger *log.Logger
	app    *app.App
}

// NewRootCmd собирает дерево команд
func NewRootCmd() *cobra.Command {
	var f flags
	rt := &state{}

	root := &cobra.Command{
		Use:   "commentary_enricher",
		Short: "Chunk and enrich a Quranic commentary corpus with an LLM",
		Long: `commentary_enricher splits commentary into overlapping word windows and
enriches a CSV corpus with themes, outlines, thematic sections, chapter and
chunk insights, embeddings and text comparisons.

Usage:
  commentary_enricher enrich tafsir.csv --mode both
  commentary_enricher split tafsir.csv --chunk-size 200 --overlap 0.1
  commentary_enricher chunk book.md`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(cmd, f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.preset, "preset", "", "LLM preset (deepseek, openrouter-claude)")
	pf.StringVar(&f.model, "model", "", "LLM model name")
	pf.StringVar(&f.dataDir, "data-dir", "", "Directory for the run journal and vector index")
	pf.StringVar(&f.method, "method", "", "Chunking method for documents: markdown or words")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&f.logJSON, "log-json", false, "Log as JSON")
	pf.IntVar(&f.concurrency, "concurrency", 0, "Maximum parallel LLM requests")
	pf.IntVar(&f.chunkSize, "chunk-size", 0, "Chunk size in words")
	pf.Float64Var(&f.overlap, "overlap", 0, "Overlap ratio between chunks, 0 <= r < 1")

	root.AddCommand(
		newChunkCmd(rt),
		newEnrichCmd(rt),
		newSplitCmd(rt),
		newChaptersCmd(rt),
		newChunksCmd(rt),
		newEmbedCmd(rt),
		newSearchCmd(rt),
		newCompareCmd(rt),
		newRunsCmd(rt),
		newPresetsCmd(),
	)
	return root
}

// setup читает окружение, накладывает флаги и собирает приложение
func (rt *state) setup(cmd *cobra.Command, f flags) error {
	cfg := &config.Config{}
	if err := config.Init(cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("preset") {
		cfg.LLMPreset = f.preset
		cfg.LLMURL, cfg.LLMModel = "", ""
	}
	if changed("model") {
		cfg.LLMModel = f.model
	}
	if changed("data-dir") {
		cfg.DataDir = f.dataDir
		cfg.DBFile, cfg.VectorFile = "", ""
	}
	if changed("method") {
		cfg.ChunkMethod = f.method
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-json") {
		cfg.LogJSON = f.logJSON
	}
	if changed("concurrency") {
		cfg.MaxConcurrency = f.concurrency
	}
	if changed("chunk-size") {
		cfg.ChunkSize = f.chunkSize
	}
	if changed("overlap") {
		cfg.ChunkOverlap = f.overlap
	}

	if err := cfg.Resolve(); err != nil {
		return err
	}

	rt.cfg = cfg
	rt.logger = logger.Setup(cfg.LogLevel, cfg.LogJSON, cmd.ErrOrStderr())
	rt.logger.Debug("⚙️ config loaded", "model", cfg.LLMModel, "url", cfg.LLMURL,
		"chunk_size", cfg.ChunkSize, "overlap", cfg.ChunkOverlap, "data_dir", cfg.DataDir)

	a, err := app.New(cfg, rt.logger)
	if err != nil {
		return err
	}
	a.SetIO(cmd.InOrStdin(), cmd.OutOrStdout())
	rt.app = a
	return nil
}

// Execute запускает корневую команду с контекстом
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
