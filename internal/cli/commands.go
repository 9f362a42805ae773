package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"commentary_enricher/internal/config"
	"commentary_enricher/internal/enrich"
)

func printReport(cmd *cobra.Command, r enrich.Report) {
	fmt.Fprintln(cmd.OutOrStdout(), r.String())
	for _, k := range r.FailedKeys() {
		fmt.Fprintf(cmd.OutOrStdout(), "  ❌ %s: %v\n", k, r.Failures[k])
	}
}

func newChunkCmd(rt *state) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "chunk <document>",
		Short: "Split a .txt, .md or .pdf document into a chunk table (CSV)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := rt.app.ChunkDocument(cmd.Context(), args[0], out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output CSV (default: <input>_chunks.csv)")
	return cmd
}

func newEnrichCmd(rt *state) *cobra.Command {
	var out, mode string
	cmd := &cobra.Command{
		Use:   "enrich <csv>",
		Short: "Add themes and/or outline fields to every verse group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rt.app.Enrich(cmd.Context(), args[0], out, mode)
			if err != nil {
				return err
			}
			printReport(cmd, r)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output CSV (default: <input>_<mode>.csv)")
	cmd.Flags().StringVar(&mode, "mode", "themes", "Enrichment mode: themes, outline or both")
	return cmd
}

func newSplitCmd(rt *state) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "split <csv>",
		Short: "Split each group's commentary into thematic sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rt.app.Split(cmd.Context(), args[0], out)
			if err != nil {
				return err
			}
			printReport(cmd, r)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output CSV (default: <input>_split.csv)")
	return cmd
}

func newChaptersCmd(rt *state) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "chapters <csv>",
		Short: "Summarize every chapter of a chunk table (Detected Title)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rt.app.Chapters(cmd.Context(), args[0], out)
			if err != nil {
				return err
			}
			printReport(cmd, r)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output CSV (default: <input>_chapters.csv)")
	return cmd
}

func newChunksCmd(rt *state) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "chunks <csv>",
		Short: "Extract wisdom, reflections, outline and questions for every chunk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rt.app.Chunks(cmd.Context(), args[0], out)
			if err != nil {
				return err
			}
			printReport(cmd, r)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output CSV (default: <input>_chunks.csv)")
	return cmd
}

func newEmbedCmd(rt *state) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "embed <csv>",
		Short: "Embed ThemeText into an Embedding column and the search index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rt.app.Embed(cmd.Context(), args[0], out)
			if err != nil {
				return err
			}
			printReport(cmd, r)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output CSV (default: <input>_embeddings.csv)")
	return cmd
}

func newSearchCmd(rt *state) *cobra.Command {
	var analyze bool
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Read queries from stdin and print the closest embedded sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.app.Search(cmd.Context(), analyze)
		},
	}
	cmd.Flags().BoolVar(&analyze, "analyze", false, "Compare the query with the found sections using the LLM")
	return cmd
}

func newCompareCmd(rt *state) *cobra.Command {
	var rows []int
	cmd := &cobra.Command{
		Use:   "compare <csv>",
		Short: "Label ThemeText of selected rows as Similar, Complementary or Contrary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := rt.app.Compare(cmd.Context(), args[0], rows)
			return err
		},
	}
	cmd.Flags().IntSliceVar(&rows, "rows", nil, "Row numbers to compare, starting at 1 (at least two)")
	_ = cmd.MarkFlagRequired("rows")
	return cmd
}

func newRunsCmd(rt *state) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent runs from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be at least 1, got %d", limit)
			}
			return rt.app.History(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "How many runs to show")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List LLM presets",
		Args:  cobra.NoArgs,
		// конфиг не нужен
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range config.PresetNames() {
				p := config.ChatPresets[name]
				marker := " "
				if name == config.DefaultPreset {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-18s %s (%s)\n", marker, name, p.Title,
					strings.TrimSuffix(p.URL, "/chat/completions"))
			}
		},
	}
}
