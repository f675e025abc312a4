package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/aldro61/PaperAtlas/internal/analyze"
	"github.com/aldro61/PaperAtlas/internal/session"
	"github.com/aldro61/PaperAtlas/internal/store"
)

// Standalone stage entry points. Each operates on the artifacts a
// previous run (or stage) persisted, so stages can be re-run
// individually without re-collecting.

// prepare fills RunOptions defaults and resolves artifact paths.
func (p *Pipeline) prepare(opts *RunOptions) (*session.Session, OutputFiles) {
	if opts.Session == nil {
		opts.Session = session.New()
	}
	if opts.ConferenceName == "" {
		opts.ConferenceName = opts.Conference
	}
	return opts.Session, BuildOutputFiles(opts.OutputDir, opts.ConferenceName, p.cfg.Models.Paper, p.cfg.Models.Synthesis)
}

// EnrichAuthors runs only the author enrichment stage against a
// previously saved papers file.
func (p *Pipeline) EnrichAuthors(ctx context.Context, opts RunOptions) error {
	if p.caller == nil {
		return fmt.Errorf("author enrichment requires a model API key")
	}
	sess, files := p.prepare(&opts)

	papers, err := (&store.PaperStore{Path: files.Papers}).Load()
	if err != nil {
		return fmt.Errorf("load papers: %w", err)
	}
	stats := session.Stats{TotalPapers: len(papers)}
	p.enrichAuthorsStage(ctx, opts, files, papers, sess, &stats)
	return nil
}

// EnrichPapers runs only the paper enrichment stage against a
// previously saved papers file.
func (p *Pipeline) EnrichPapers(ctx context.Context, opts RunOptions) error {
	if p.caller == nil {
		return fmt.Errorf("paper enrichment requires a model API key")
	}
	sess, files := p.prepare(&opts)

	papers, err := (&store.PaperStore{Path: files.Papers}).Load()
	if err != nil {
		return fmt.Errorf("load papers: %w", err)
	}
	p.enrichPapersStage(ctx, opts, files, papers, sess)
	return nil
}

// Synthesize generates the cross-paper synthesis from the enriched
// papers document.
func (p *Pipeline) Synthesize(ctx context.Context, opts RunOptions) error {
	if p.caller == nil {
		return fmt.Errorf("synthesis requires a model API key")
	}
	sess, files := p.prepare(&opts)

	if html := p.synthesizeStage(ctx, opts, files, sess); html == "" {
		return fmt.Errorf("synthesis produced no output")
	}
	return nil
}

// RenderWebsite rebuilds the static website from whatever artifacts
// exist: the papers file is required, enrichment and synthesis are
// picked up when present.
func (p *Pipeline) RenderWebsite(ctx context.Context, opts RunOptions) error {
	sess, files := p.prepare(&opts)

	papers, err := (&store.PaperStore{Path: files.Papers}).Load()
	if err != nil {
		return fmt.Errorf("load papers: %w", err)
	}

	authors := analyze.Authors(papers, analyze.Options{
		FirstLastOnly:           true,
		HighlyRelevantThreshold: p.cfg.Thresholds.HighlyRelevant,
	})

	var enrichedDoc *store.EnrichedPapersDocument
	if doc, docErr := (&store.EnrichedPaperStore{Path: files.EnrichedPapers}).Load(); docErr == nil {
		enrichedDoc = doc
	}

	synthesisHTML := ""
	if data, readErr := os.ReadFile(files.Synthesis); readErr == nil {
		synthesisHTML = string(data)
	}

	p.renderStage(opts, files, papers, authors, enrichedDoc, synthesisHTML, sess)
	if sess.WebsiteFile() == "" {
		return fmt.Errorf("website rendering failed")
	}
	return nil
}
