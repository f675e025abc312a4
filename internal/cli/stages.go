package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aldro61/PaperAtlas/internal/pipeline"
)

// Stage commands re-run one pipeline stage against the artifacts a
// previous run saved. They take the conference name (the artifact stem),
// not the service slug.

var (
	stageOutput string
	stageReuse  bool
)

var enrichAuthorsCmd = &cobra.Command{
	Use:   "enrich-authors <conference-name>",
	Short: "Enrich key authors from a saved papers file",
	Long: `Enrich-authors aggregates per-author statistics from the saved papers
file, selects authors with at least one highly relevant paper, and looks
up their affiliation, role, and profile. Authors already enriched in a
previous run are skipped.

Example:
  paperatlas enrich-authors "NeurIPS 2025" --output ./neurips`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(cmd, args[0], func(p *pipeline.Pipeline) stageFunc { return p.EnrichAuthors })
	},
}

var enrichPapersCmd = &cobra.Command{
	Use:   "enrich-papers <conference-name>",
	Short: "Enrich papers from a saved papers file",
	Long: `Enrich-papers analyzes each saved paper (fetching its landing page
when available) to extract key findings, contributions, novelty, and
research categories. Papers already enriched from the same source URL
are skipped.

Example:
  paperatlas enrich-papers "NeurIPS 2025" --output ./neurips`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(cmd, args[0], func(p *pipeline.Pipeline) stageFunc { return p.EnrichPapers })
	},
}

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize <conference-name>",
	Short: "Generate the cross-paper synthesis",
	Long: `Synthesize reads the enriched papers document and generates a
research synthesis across all fully enriched papers, saved as HTML with
clickable paper references.

Example:
  paperatlas synthesize "NeurIPS 2025" --output ./neurips`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(cmd, args[0], func(p *pipeline.Pipeline) stageFunc { return p.Synthesize })
	},
}

var websiteCmd = &cobra.Command{
	Use:   "website <conference-name>",
	Short: "Rebuild the static website from saved artifacts",
	Long: `Website renders the static report from whatever artifacts exist: the
papers file is required; enriched authors, enriched papers, and the
synthesis are included when present.

Example:
  paperatlas website "NeurIPS 2025" --output ./neurips`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(cmd, args[0], func(p *pipeline.Pipeline) stageFunc { return p.RenderWebsite })
	},
}

type stageFunc = func(ctx context.Context, opts pipeline.RunOptions) error

func init() {
	rootCmd.AddCommand(enrichAuthorsCmd)
	rootCmd.AddCommand(enrichPapersCmd)
	rootCmd.AddCommand(synthesizeCmd)
	rootCmd.AddCommand(websiteCmd)

	for _, cmd := range []*cobra.Command{enrichAuthorsCmd, enrichPapersCmd, synthesizeCmd, websiteCmd} {
		cmd.Flags().StringVarP(&stageOutput, "output", "o", "", "output directory (default: config output.dir)")
	}
	synthesizeCmd.Flags().BoolVar(&stageReuse, "reuse", false, "keep an existing synthesis file instead of regenerating")
}

func runStage(cmd *cobra.Command, conferenceName string, pick func(*pipeline.Pipeline) stageFunc) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	p := buildPipeline(cfg, log)
	opts := pipeline.RunOptions{
		ConferenceName: conferenceName,
		OutputDir:      resolveOutputDir(cfg, stageOutput),
		ReuseExisting:  stageReuse,
	}
	return withProgress(cmd.Context(), pick(p), opts)
}
