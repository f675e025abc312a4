// Package server exposes the pipeline over HTTP: start a run, poll its
// progress, and download the artifacts. Runs execute in a background
// goroutine per session; the progress endpoint streams incremental
// logs the way a polling UI consumes them.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/aldro61/PaperAtlas/internal/model"
	"github.com/aldro61/PaperAtlas/internal/pipeline"
	"github.com/aldro61/PaperAtlas/internal/session"
)

// Server hosts the progress API.
type Server struct {
	cfg      *model.Config
	log      *zap.SugaredLogger
	pipeline *pipeline.Pipeline
	registry *session.Registry
}

// New creates a server around an assembled pipeline.
func New(cfg *model.Config, logger *zap.SugaredLogger, p *pipeline.Pipeline) *Server {
	return &Server{
		cfg:      cfg,
		log:      logger,
		pipeline: p,
		registry: session.NewRegistry(),
	}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/api/health", s.handleHealth)
	r.Post("/api/extract", s.handleExtract)
	r.Get("/api/progress/{id}", s.handleProgress)
	r.Get("/api/download/{id}", s.handleDownload)
	r.Get("/api/website/{id}", s.handleWebsite)
	return r
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.log.Infow("serving progress API", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type extractRequest struct {
	Conference     string `json:"conference"`
	ConferenceName string `json:"conference_name"`
	OutputDir      string `json:"output_dir"`
	ReuseExisting  bool   `json:"reuse_existing"`
}

// handleExtract starts a pipeline run in the background and returns
// the session ID to poll.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if req.Conference == "" {
		writeError(w, http.StatusBadRequest, "conference is required")
		return
	}
	if req.OutputDir == "" {
		req.OutputDir = s.cfg.Output.Dir
	}

	sess := s.registry.Create()
	opts := pipeline.RunOptions{
		Conference:     req.Conference,
		ConferenceName: req.ConferenceName,
		OutputDir:      req.OutputDir,
		ReuseExisting:  req.ReuseExisting,
		Session:        sess,
	}

	go func() {
		// Detached from the request context: the run outlives the
		// request that started it.
		if err := s.pipeline.Run(context.Background(), opts); err != nil {
			s.log.Errorw("run failed", "session", sess.ID, "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"session_id": sess.ID})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, func(sess *session.Session) string { return sess.OutputFile() })
}

func (s *Server) handleWebsite(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, func(sess *session.Session) string { return sess.WebsiteFile() })
}

func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, pick func(*session.Session) string) {
	sess, ok := s.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	path := pick(sess)
	if path == "" {
		writeError(w, http.StatusNotFound, "artifact not available yet")
		return
	}
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "artifact missing on disk")
		return
	}
	http.ServeFile(w, r, path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
