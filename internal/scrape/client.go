// Package scrape collects conference papers from the Scholar Inbox
// recommendation API: resolve the conference, list its sessions, then
// pull every session's posters (pinned ones included).
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aldro61/PaperAtlas/internal/model"
)

// Conference identifies one conference known to the service.
type Conference struct {
	ID       int    `json:"conference_id"`
	URL      string `json:"conference_url"`
	Title    string `json:"short_title"`
	FullName string `json:"title"`
}

// Session is one poster session within a conference.
type Session struct {
	ID         int    `json:"session_id"`
	Name       string `json:"session_name"`
	NumPosters int    `json:"number_of_posters"`
}

// Progress receives human-readable collection updates. All callbacks
// run from the collecting goroutine's perspective but may be invoked
// concurrently during session fetches.
type Progress func(format string, args ...any)

// Client talks to the Scholar Inbox API.
type Client struct {
	base       string
	httpClient *http.Client
	workers    int
}

// NewClient builds a collector client from configuration.
func NewClient(cfg model.ScholarInboxConfig) *Client {
	workers := cfg.SessionWorkers
	if workers <= 0 {
		workers = 1
	}
	return &Client{
		base:       cfg.APIBase,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		workers:    workers,
	}
}

// FindConference resolves a conference by its URL slug (for example
// "neurips2025") and returns its metadata.
func (c *Client) FindConference(ctx context.Context, slug string) (*Conference, error) {
	var payload struct {
		Conferences []Conference `json:"conferences"`
	}
	if err := c.getJSON(ctx, c.base+"/conference_list", &payload); err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}

	for i := range payload.Conferences {
		if payload.Conferences[i].URL == slug {
			return &payload.Conferences[i], nil
		}
	}
	return nil, fmt.Errorf("conference %q not found", slug)
}

// Sessions lists all poster sessions of a conference across its days.
func (c *Client) Sessions(ctx context.Context, conferenceID int) ([]Session, error) {
	var payload struct {
		ConferenceDates []struct {
			Events []struct {
				EventID     int    `json:"event_id"`
				SessionName string `json:"session_name"`
				NumPosters  int    `json:"number_of_posters"`
			} `json:"events"`
		} `json:"conference_dates"`
	}
	endpoint := fmt.Sprintf("%s/conference/%d/sessions", c.base, conferenceID)
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var sessions []Session
	for _, day := range payload.ConferenceDates {
		for _, event := range day.Events {
			sessions = append(sessions, Session{
				ID:         event.EventID,
				Name:       event.SessionName,
				NumPosters: event.NumPosters,
			})
		}
	}
	return sessions, nil
}

// poster mirrors the service's poster payload. Identifier fields come
// back as either numbers or strings depending on the endpoint, so they
// are decoded leniently.
type poster struct {
	PaperID      json.Number `json:"paper_id"`
	Title        string      `json:"poster_title"`
	Authors      string      `json:"poster_authors"`
	PaperLink    string      `json:"paper_link"`
	PosterID     json.Number `json:"poster_id"`
	PosterNumber json.Number `json:"poster_number"`
	Tag          string      `json:"tag"`
	Relevance    float64     `json:"poster_relevance"`
	Award        bool        `json:"award"`
	Bookmarked   bool        `json:"bookmarked"`
	Liked        bool        `json:"liked"`
	Disliked     bool        `json:"disliked"`
	Pinned       bool        `json:"pinned"`
}

// SessionPosters fetches one session's posters. Pinned posters arrive
// in a separate list and are appended after the regular ones.
func (c *Client) SessionPosters(ctx context.Context, sess Session) ([]model.PaperRecord, error) {
	var payload struct {
		Posters       []poster `json:"posters"`
		PinnedPosters []poster `json:"pinned_posters"`
	}
	endpoint := fmt.Sprintf("%s/conference/get_all_posters?session_id=%s",
		c.base, url.QueryEscape(fmt.Sprint(sess.ID)))
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("session %d posters: %w", sess.ID, err)
	}

	posters := append(payload.Posters, payload.PinnedPosters...)
	papers := make([]model.PaperRecord, 0, len(posters))
	for _, p := range posters {
		papers = append(papers, model.PaperRecord{
			PaperID:      p.PaperID.String(),
			Title:        p.Title,
			Authors:      p.Authors,
			PDFURL:       p.PaperLink,
			SessionID:    fmt.Sprint(sess.ID),
			SessionName:  sess.Name,
			PosterID:     p.PosterID.String(),
			PosterNumber: p.PosterNumber.String(),
			Tag:          p.Tag,
			Score:        p.Relevance,
			Award:        p.Award,
			Bookmarked:   p.Bookmarked,
			Liked:        p.Liked,
			Disliked:     p.Disliked,
			Pinned:       p.Pinned,
		})
	}
	return papers, nil
}

// CollectPapers resolves the conference, enumerates its sessions, and
// fetches every session's posters with bounded concurrency. Results
// keep session enumeration order regardless of fetch completion order.
func (c *Client) CollectPapers(ctx context.Context, slug string, progress Progress) (*Conference, []model.PaperRecord, error) {
	if progress == nil {
		progress = func(string, ...any) {}
	}

	conf, err := c.FindConference(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	progress("Found: %s (ID: %d)", conf.Title, conf.ID)

	sessions, err := c.Sessions(ctx, conf.ID)
	if err != nil {
		return conf, nil, err
	}

	totalExpected := 0
	for _, s := range sessions {
		totalExpected += s.NumPosters
	}
	progress("Found %d sessions with %d papers", len(sessions), totalExpected)

	type batch struct {
		index  int
		papers []model.PaperRecord
	}

	var mu sync.Mutex
	var batches []batch

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, sess := range sessions {
		i, sess := i, sess
		g.Go(func() error {
			papers, err := c.SessionPosters(gctx, sess)
			if err != nil {
				return err
			}
			if len(papers) > 0 {
				progress("%s: %d papers", sess.Name, len(papers))
			}
			mu.Lock()
			batches = append(batches, batch{index: i, papers: papers})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return conf, nil, err
	}

	sort.Slice(batches, func(i, j int) bool { return batches[i].index < batches[j].index })
	var all []model.PaperRecord
	for _, b := range batches {
		all = append(all, b.papers...)
	}
	progress("Extracted %d papers total", len(all))
	return conf, all, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
