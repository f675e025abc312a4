package pipeline

import (
	"context"
	"os"
	"testing"
)

func TestStandaloneStagesRequireCaller(t *testing.T) {
	p := testPipeline(t, "http://unused", nil)
	opts := RunOptions{ConferenceName: "NeurIPS 2025", OutputDir: t.TempDir()}

	if err := p.EnrichAuthors(context.Background(), opts); err == nil {
		t.Error("EnrichAuthors without a caller should fail")
	}
	if err := p.EnrichPapers(context.Background(), opts); err == nil {
		t.Error("EnrichPapers without a caller should fail")
	}
	if err := p.Synthesize(context.Background(), opts); err == nil {
		t.Error("Synthesize without a caller should fail")
	}
}

func TestStandaloneStagesRequirePapersFile(t *testing.T) {
	p := testPipeline(t, "http://unused", newScriptedCaller())
	opts := RunOptions{ConferenceName: "NeurIPS 2025", OutputDir: t.TempDir()}

	if err := p.EnrichAuthors(context.Background(), opts); err == nil {
		t.Error("EnrichAuthors without a papers file should fail")
	}
	if err := p.RenderWebsite(context.Background(), opts); err == nil {
		t.Error("RenderWebsite without a papers file should fail")
	}
}

func TestRenderWebsiteFromSavedRun(t *testing.T) {
	srv := collectorServer(t)
	caller := newScriptedCaller()
	p := testPipeline(t, srv.URL, caller)

	dir := t.TempDir()
	opts := RunOptions{
		Conference:     "neurips2025",
		ConferenceName: "NeurIPS 2025",
		OutputDir:      dir,
	}
	if err := p.Run(context.Background(), opts); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	files := BuildOutputFiles(dir, "NeurIPS 2025", p.cfg.Models.Paper, p.cfg.Models.Synthesis)
	if err := os.Remove(files.Website); err != nil {
		t.Fatalf("remove website: %v", err)
	}

	// Rebuild the website without touching any other stage.
	rebuildOpts := RunOptions{ConferenceName: "NeurIPS 2025", OutputDir: dir}
	if err := p.RenderWebsite(context.Background(), rebuildOpts); err != nil {
		t.Fatalf("RenderWebsite() error = %v", err)
	}
	if _, err := os.Stat(files.Website); err != nil {
		t.Errorf("website not rebuilt: %v", err)
	}
}
