// Package pipeline coordinates a full conference run: collect papers
// from the recommendation service, clean and persist them, enrich
// authors and papers in parallel, then synthesize and render the
// results. Collection, cleaning, and saving are fatal stages; every
// later stage degrades to a warning so partial results always survive.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/aldro61/PaperAtlas/internal/analyze"
	"github.com/aldro61/PaperAtlas/internal/enrich"
	"github.com/aldro61/PaperAtlas/internal/llm"
	"github.com/aldro61/PaperAtlas/internal/model"
	"github.com/aldro61/PaperAtlas/internal/policy"
	"github.com/aldro61/PaperAtlas/internal/scrape"
	"github.com/aldro61/PaperAtlas/internal/session"
	"github.com/aldro61/PaperAtlas/internal/store"
	"github.com/aldro61/PaperAtlas/internal/synth"
	"github.com/aldro61/PaperAtlas/internal/website"
	"github.com/aldro61/PaperAtlas/internal/worker"
)

// Pipeline wires the collector, the model caller, and the document
// fetcher behind the staged run. Caller may be nil: enrichment and
// synthesis stages are then skipped with a warning.
type Pipeline struct {
	cfg       *model.Config
	log       *zap.SugaredLogger
	collector *scrape.Client
	caller    llm.Caller
	fetcher   enrich.DocumentFetcher
}

// New assembles a pipeline from configuration.
func New(cfg *model.Config, logger *zap.SugaredLogger, collector *scrape.Client, caller llm.Caller, fetcher enrich.DocumentFetcher) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		log:       logger,
		collector: collector,
		caller:    caller,
		fetcher:   fetcher,
	}
}

// RunOptions parameterize one conference run.
type RunOptions struct {
	// Conference is the service-side URL slug, e.g. "neurips2025".
	Conference string
	// ConferenceName is the display label; defaults to the slug.
	ConferenceName string
	// OutputDir receives every artifact.
	OutputDir string
	// ReuseExisting loads the persisted papers file instead of
	// re-collecting, when it exists.
	ReuseExisting bool
	// Session receives progress updates; may be nil.
	Session *session.Session
}

// Run executes the full pipeline. The returned error is non-nil only
// when a fatal stage (collect, clean, save) failed.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) error {
	sess := opts.Session
	if sess == nil {
		sess = session.New()
	}
	if opts.ConferenceName == "" {
		opts.ConferenceName = opts.Conference
	}

	files := BuildOutputFiles(opts.OutputDir, opts.ConferenceName, p.cfg.Models.Paper, p.cfg.Models.Synthesis)
	stats := session.Stats{}

	cleaned, totalSessions, err := p.collectStage(ctx, opts, files, sess)
	if err != nil {
		sess.Fail(err.Error())
		return err
	}

	stats.TotalPapers = len(cleaned)
	stats.TotalSessions = totalSessions
	for _, paper := range cleaned {
		if paper.Score >= p.cfg.Thresholds.HighlyRelevant {
			stats.HighRelevance++
		}
	}
	sess.SetStats(stats)
	sess.SetOutputFile(files.Papers)

	authors := p.enrichAuthorsStage(ctx, opts, files, cleaned, sess, &stats)
	enrichedDoc := p.enrichPapersStage(ctx, opts, files, cleaned, sess)
	synthesisHTML := p.synthesizeStage(ctx, opts, files, sess)
	p.renderStage(opts, files, cleaned, authors, enrichedDoc, synthesisHTML, sess)

	sess.Complete()
	p.log.Infow("run complete", "conference", opts.Conference, "papers", len(cleaned))
	return nil
}

// collectStage produces the cleaned, persisted papers: either reloaded
// from a previous run or freshly collected from the service.
func (p *Pipeline) collectStage(ctx context.Context, opts RunOptions, files OutputFiles, sess *session.Session) ([]model.PaperRecord, int, error) {
	paperStore := &store.PaperStore{Path: files.Papers}

	if opts.ReuseExisting {
		papers, err := paperStore.Load()
		if err == nil {
			sess.SetStep("collect")
			sess.Logf("Reusing %d papers from %s", len(papers), files.Papers)
			sess.CompleteStep("collect")
			sess.CompleteStep("clean")
			sess.CompleteStep("save")
			return papers, 0, nil
		}
		if !errors.Is(err, store.ErrStateNotFound) {
			return nil, 0, fmt.Errorf("load existing papers: %w", err)
		}
		sess.Log(fmt.Sprintf("Reuse requested but no papers file found at %s; performing fresh extraction", files.Papers), "warning")
		p.log.Warnw("reuse requested but papers file missing", "path", files.Papers)
	}

	sess.SetStep("collect")
	sess.Logf("Fetching conference: %s", opts.Conference)

	_, collected, err := p.collector.CollectPapers(ctx, opts.Conference, func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		sess.Log(msg, "info")
		p.log.Debug(msg)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("collect papers: %w", err)
	}
	sess.CompleteStep("collect")

	sess.SetStep("clean")
	cleaned, droppedDupes, droppedLow := CleanPapers(collected, p.cfg.Thresholds.LowRelevance)
	sess.Logf("Filtered out %d duplicate titles and %d low-relevance papers", droppedDupes, droppedLow)
	sess.CompleteStep("clean")

	sess.SetStep("save")
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, 0, fmt.Errorf("create output dir: %w", err)
	}
	if err := paperStore.Save(cleaned); err != nil {
		return nil, 0, fmt.Errorf("save papers: %w", err)
	}
	sess.Logf("Saved %d papers to %s", len(cleaned), files.Papers)
	sess.CompleteStep("save")

	sessions := distinctSessions(cleaned)
	return cleaned, sessions, nil
}

func distinctSessions(papers []model.PaperRecord) int {
	seen := make(map[string]bool)
	for _, p := range papers {
		if p.SessionID != "" {
			seen[p.SessionID] = true
		}
	}
	return len(seen)
}

// enrichAuthorsStage aggregates author stats, partitions against prior
// enrichment state, and runs the lookup pool. Never fatal.
func (p *Pipeline) enrichAuthorsStage(ctx context.Context, opts RunOptions, files OutputFiles, cleaned []model.PaperRecord, sess *session.Session, stats *session.Stats) []model.AuthorRecord {
	sess.SetStep("enrich_authors")

	allStats := analyze.Authors(cleaned, analyze.Options{
		FirstLastOnly:           true,
		HighlyRelevantThreshold: p.cfg.Thresholds.HighlyRelevant,
	})
	candidates := policy.AuthorCandidates(allStats)
	stats.TotalAuthors = len(allStats)
	stats.KeyAuthors = len(candidates)
	sess.SetStats(*stats)
	sess.Logf("Found %d authors, %d with highly relevant papers", len(allStats), len(candidates))

	if p.caller == nil {
		sess.Log("No model API key configured; skipping author enrichment", "warning")
		p.log.Warn("author enrichment skipped: no caller configured")
		return allStats
	}

	authorStore := &store.AuthorStore{Path: files.Authors}
	prior, err := authorStore.Load()
	switch {
	case err == nil:
		// prior state loaded
	case errors.Is(err, store.ErrStateNotFound):
		sess.Logf("No existing author enrichment file found; will enrich all key authors")
	default:
		sess.Log(fmt.Sprintf("Could not load existing authors file: %v", err), "warning")
		p.log.Warnw("author state unreadable, re-enriching from scratch", "error", err)
	}

	part := policy.PartitionAuthors(candidates, prior)
	sess.Logf("Found %d fully enriched authors from previous run", len(part.AlreadyEnriched))
	if len(part.PreviouslyAttempted) > 0 {
		sess.Logf("Found %d authors previously attempted but unresolved (will skip)", len(part.PreviouslyAttempted))
	}

	if len(part.NeedsEnrichment) == 0 {
		sess.Logf("All key authors already enriched")
		if len(part.AlreadyEnriched)+len(part.PreviouslyAttempted) > 0 {
			if err := authorStore.MergeAndSave(part.AlreadyEnriched, part.PreviouslyAttempted, nil); err != nil {
				p.log.Warnw("author state save failed", "error", err)
			}
		}
		sess.CompleteStep("enrich_authors")
		return allStats
	}

	enricher := &enrich.AuthorEnricher{
		Caller: p.caller,
		Model:  p.cfg.Models.Author,
		Retry: enrich.RetryPolicy{
			Attempts: p.cfg.Enrichment.Attempts,
			Timeout:  p.cfg.Enrichment.AuthorTimeout,
			Growth:   p.cfg.Enrichment.TimeoutGrowth,
		},
	}

	total := len(part.NeedsEnrichment)
	var completed int64
	pool := worker.Pool[model.AuthorRecord, model.AuthorRecord]{
		Workers: p.cfg.Enrichment.AuthorWorkers,
		Every:   p.cfg.Enrichment.AuthorCheckpoint,
	}
	done, err := pool.Run(ctx, part.NeedsEnrichment,
		func(ctx context.Context, author model.AuthorRecord) model.AuthorRecord {
			record, outcome := enricher.Enrich(ctx, author)
			n := atomic.AddInt64(&completed, 1)
			switch outcome.Kind {
			case model.OutcomeSuccess:
				sess.Logf("✓ [%d/%d] %s — %s", n, total, record.Name, deref(record.Affiliation))
			case model.OutcomeNotFound:
				sess.Logf("? [%d/%d] %s — not found", n, total, record.Name)
			default:
				sess.Logf("✗ [%d/%d] %s — %s", n, total, record.Name, outcome.Cause)
			}
			sess.SetStepDetail(fmt.Sprintf("%d/%d authors", n, total))
			return record
		},
		func(done []model.AuthorRecord) error {
			return authorStore.MergeAndSave(part.AlreadyEnriched, part.PreviouslyAttempted, done)
		})
	if err != nil {
		sess.Log(fmt.Sprintf("Author enrichment error: %v", err), "warning")
		p.log.Warnw("author enrichment incomplete", "error", err)
	}
	sess.Logf("Saved %d enriched authors to %s (%d reused, %d new)",
		len(part.AlreadyEnriched)+len(part.PreviouslyAttempted)+len(done), files.Authors,
		len(part.AlreadyEnriched), len(done))
	sess.CompleteStep("enrich_authors")
	return allStats
}

// enrichPapersStage partitions papers against prior enrichment state,
// settles the category vocabulary, and runs the analysis pool. Never
// fatal; returns the final document, or nil when nothing was produced.
func (p *Pipeline) enrichPapersStage(ctx context.Context, opts RunOptions, files OutputFiles, cleaned []model.PaperRecord, sess *session.Session) *store.EnrichedPapersDocument {
	sess.SetStep("enrich_papers")

	if p.caller == nil {
		sess.Log("No model API key configured; skipping paper enrichment", "warning")
		return nil
	}

	paperStore := &store.EnrichedPaperStore{Path: files.EnrichedPapers}
	var prior []model.PaperRecord
	var priorCategories []string
	if doc, err := paperStore.Load(); err == nil {
		prior = doc.Papers
		priorCategories = doc.Categories
	} else if !errors.Is(err, store.ErrStateNotFound) {
		sess.Log(fmt.Sprintf("Could not load existing enriched papers: %v", err), "warning")
	}

	part := policy.PartitionPapers(cleaned, prior)
	sess.Logf("%d papers already enriched, %d to enrich", len(part.AlreadyEnriched), len(part.NeedsEnrichment))

	categories := priorCategories
	if enrich.ReuseCategories(priorCategories, len(part.NeedsEnrichment), len(cleaned)) {
		sess.Logf("Reusing %d existing categories", len(priorCategories))
	} else {
		sess.Logf("Generating research categories with %s...", p.cfg.Models.Paper)
		generated, err := enrich.GenerateCategories(ctx, p.caller, p.cfg.Models.Paper, cleaned)
		if err != nil {
			sess.Log(fmt.Sprintf("Category generation failed, using defaults: %v", err), "warning")
		}
		categories = generated
	}

	if len(part.NeedsEnrichment) == 0 {
		doc := &store.EnrichedPapersDocument{Categories: categories, Papers: part.AlreadyEnriched}
		if len(part.AlreadyEnriched) > 0 {
			if err := paperStore.Save(doc); err != nil {
				p.log.Warnw("enriched papers save failed", "error", err)
			}
		}
		sess.CompleteStep("enrich_papers")
		return doc
	}

	enricher := &enrich.PaperEnricher{
		Caller: p.caller,
		Model:  p.cfg.Models.Paper,
		Retry: enrich.RetryPolicy{
			Attempts: p.cfg.Enrichment.Attempts,
			Timeout:  p.cfg.Enrichment.PaperTimeout,
			Growth:   p.cfg.Enrichment.TimeoutGrowth,
		},
		Fetcher:          p.fetcher,
		MaxDocumentChars: p.cfg.Fetch.MaxDocumentChars,
	}

	total := len(part.NeedsEnrichment)
	var completed int64
	pool := worker.Pool[model.PaperRecord, model.PaperRecord]{
		Workers: p.cfg.Enrichment.PaperWorkers,
		Every:   p.cfg.Enrichment.PaperCheckpoint,
	}
	done, err := pool.Run(ctx, part.NeedsEnrichment,
		func(ctx context.Context, paper model.PaperRecord) model.PaperRecord {
			record, outcome := enricher.Enrich(ctx, paper, categories)
			n := atomic.AddInt64(&completed, 1)
			if outcome.Kind == model.OutcomeSuccess {
				sess.Logf("✓ [%d/%d] %s", n, total, truncate(record.Title, 50))
			} else {
				sess.Logf("✗ [%d/%d] %s — %s", n, total, truncate(record.Title, 50), outcome.Cause)
			}
			sess.SetStepDetail(fmt.Sprintf("%d/%d papers", n, total))
			return record
		},
		func(done []model.PaperRecord) error {
			return paperStore.MergeAndSave(categories, part.AlreadyEnriched, done)
		})
	if err != nil {
		sess.Log(fmt.Sprintf("Paper enrichment error: %v", err), "warning")
		p.log.Warnw("paper enrichment incomplete", "error", err)
	}
	sess.Logf("Saved %d enriched papers to %s (%d reused, %d new)",
		len(part.AlreadyEnriched)+len(done), files.EnrichedPapers, len(part.AlreadyEnriched), len(done))
	sess.CompleteStep("enrich_papers")

	merged := make([]model.PaperRecord, 0, len(part.AlreadyEnriched)+len(done))
	merged = append(merged, part.AlreadyEnriched...)
	merged = append(merged, done...)
	return &store.EnrichedPapersDocument{Categories: categories, Papers: merged}
}

// synthesizeStage produces the cross-paper synthesis HTML. Never fatal.
func (p *Pipeline) synthesizeStage(ctx context.Context, opts RunOptions, files OutputFiles, sess *session.Session) string {
	sess.SetStep("synthesize")

	if opts.ReuseExisting {
		if data, err := os.ReadFile(files.Synthesis); err == nil {
			sess.Logf("Reusing existing synthesis: %s", files.Synthesis)
			sess.CompleteStep("synthesize")
			return string(data)
		}
		if p.caller != nil {
			sess.Logf("No synthesis file found for reuse; regenerating with %s", p.cfg.Models.Synthesis)
		}
	}

	if p.caller == nil {
		sess.Log("No model API key configured; skipping synthesis", "warning")
		return ""
	}

	doc, err := (&store.EnrichedPaperStore{Path: files.EnrichedPapers}).Load()
	if err != nil {
		sess.Log(fmt.Sprintf("Skipping synthesis: %v", err), "warning")
		return ""
	}

	sess.Logf("Generating conference synthesis with %s...", p.cfg.Models.Synthesis)
	gen := &synth.Generator{Caller: p.caller, Model: p.cfg.Models.Synthesis}
	html, err := gen.GenerateHTML(ctx, opts.ConferenceName, doc.Papers)
	if err != nil {
		sess.Log(fmt.Sprintf("Synthesis failed: %v", err), "warning")
		p.log.Warnw("synthesis failed", "error", err)
		return ""
	}

	if err := os.WriteFile(files.Synthesis, []byte(html), 0o644); err != nil {
		sess.Log(fmt.Sprintf("Could not save synthesis: %v", err), "warning")
	} else {
		sess.Logf("Saved synthesis to %s", files.Synthesis)
	}
	sess.CompleteStep("synthesize")
	return html
}

// renderStage writes the static website. Never fatal.
func (p *Pipeline) renderStage(opts RunOptions, files OutputFiles, cleaned []model.PaperRecord, authors []model.AuthorRecord, enrichedDoc *store.EnrichedPapersDocument, synthesisHTML string, sess *session.Session) {
	sess.SetStep("render")

	data := website.Data{
		Conference:    opts.ConferenceName,
		Papers:        cleaned,
		Authors:       authors,
		SynthesisHTML: synthesisHTML,
	}
	if enrichedDoc != nil {
		data.Papers = enrichedDoc.Papers
		data.Categories = enrichedDoc.Categories
	}
	if enriched, err := (&store.AuthorStore{Path: files.Authors}).Load(); err == nil {
		data.Authors = enriched
	}

	html, err := website.Render(data)
	if err != nil {
		sess.Log(fmt.Sprintf("Website rendering failed: %v", err), "warning")
		p.log.Warnw("website rendering failed", "error", err)
		return
	}
	if err := os.WriteFile(files.Website, html, 0o644); err != nil {
		sess.Log(fmt.Sprintf("Could not save website: %v", err), "warning")
		return
	}
	sess.SetWebsiteFile(files.Website)
	sess.Logf("Saved website to %s", files.Website)
	sess.CompleteStep("render")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
