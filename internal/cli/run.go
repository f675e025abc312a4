package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aldro61/PaperAtlas/internal/model"
	"github.com/aldro61/PaperAtlas/internal/pipeline"
	"github.com/aldro61/PaperAtlas/internal/session"
)

var (
	runName          string
	runOutput        string
	runReuse         bool
	runAuthorWorkers int
	runPaperWorkers  int
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <conference>",
	Short: "Collect, enrich, synthesize, and render a conference",
	Long: `Run executes the full pipeline for one conference:
- Collect poster recommendations from Scholar Inbox
- Clean, score, and persist the paper list
- Enrich key authors and high-relevance papers in parallel
- Generate a cross-paper research synthesis
- Render a static website report

Enrichment is resumable: re-running picks up saved state and only
processes what is still missing.

Example:
  paperatlas run neurips2025 --name "NeurIPS 2025" --output ./neurips
  paperatlas run cvpr2025 --reuse`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runName, "name", "", "conference display name (default: the slug)")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "output directory (default: config output.dir)")
	runCmd.Flags().BoolVar(&runReuse, "reuse", false, "reuse existing artifacts instead of re-collecting")
	runCmd.Flags().IntVar(&runAuthorWorkers, "author-workers", 0, "override author enrichment worker count")
	runCmd.Flags().IntVar(&runPaperWorkers, "paper-workers", 0, "override paper enrichment worker count")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runAuthorWorkers > 0 {
		cfg.Enrichment.AuthorWorkers = runAuthorWorkers
	}
	if runPaperWorkers > 0 {
		cfg.Enrichment.PaperWorkers = runPaperWorkers
	}

	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	p := buildPipeline(cfg, log)
	opts := pipeline.RunOptions{
		Conference:     args[0],
		ConferenceName: runName,
		OutputDir:      resolveOutputDir(cfg, runOutput),
		ReuseExisting:  runReuse,
	}
	return withProgress(cmd.Context(), p.Run, opts)
}

func resolveOutputDir(cfg *model.Config, flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Output.Dir
}

// withProgress runs a pipeline entry point in the background and echoes
// session log entries to stderr as they appear.
func withProgress(ctx context.Context, run func(context.Context, pipeline.RunOptions) error, opts pipeline.RunOptions) error {
	sess := session.New()
	opts.Session = sess

	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx, opts) }()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case err := <-errCh:
			printLogs(sess)
			if err != nil {
				return err
			}
			if out := sess.OutputFile(); out != "" {
				fmt.Fprintf(os.Stderr, "\nPapers: %s\n", out)
			}
			if site := sess.WebsiteFile(); site != "" {
				fmt.Fprintf(os.Stderr, "Website: %s\n", site)
			}
			return nil
		case <-ticker.C:
			printLogs(sess)
		}
	}
}

func printLogs(sess *session.Session) {
	for _, entry := range sess.NewLogs() {
		if entry.Type == "warning" {
			fmt.Fprintln(os.Stderr, "⚠ "+entry.Message)
			continue
		}
		fmt.Fprintln(os.Stderr, entry.Message)
	}
}
