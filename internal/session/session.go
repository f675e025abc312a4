// Package session tracks the progress of a running pipeline so the
// HTTP API can report it incrementally. A session accumulates logs;
// each progress poll drains only the entries added since the previous
// poll.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// LogEntry is one progress message with a display type
// (info, success, warning, or error).
type LogEntry struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Stats summarizes a finished or in-flight run.
type Stats struct {
	TotalPapers   int `json:"total_papers,omitempty"`
	TotalSessions int `json:"total_sessions,omitempty"`
	HighRelevance int `json:"high_relevance,omitempty"`
	TotalAuthors  int `json:"total_authors,omitempty"`
	KeyAuthors    int `json:"key_authors,omitempty"`
}

// Session is the mutable progress record of one pipeline run. All
// accessors are safe for concurrent use; the pipeline goroutine writes
// while API handlers read.
type Session struct {
	ID string

	mu             sync.Mutex
	status         string
	currentStep    string
	completedSteps []string
	stepDetail     string
	logs           []LogEntry
	logIndex       int
	stats          Stats
	outputFile     string
	websiteFile    string
	err            string
}

// New creates a running session with a fresh identifier.
func New() *Session {
	return &Session{
		ID:     uuid.NewString(),
		status: StatusRunning,
	}
}

// Log appends a progress message.
func (s *Session) Log(message, logType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, LogEntry{Message: message, Type: logType})
}

// Logf appends a formatted info-level message.
func (s *Session) Logf(format string, args ...any) {
	s.Log(fmt.Sprintf(format, args...), "info")
}

// NewLogs drains the log entries added since the previous call.
func (s *Session) NewLogs() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.logs[s.logIndex:]
	s.logIndex = len(s.logs)
	out := make([]LogEntry, len(entries))
	copy(out, entries)
	return out
}

// SetStep marks the step currently executing.
func (s *Session) SetStep(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentStep = step
	s.stepDetail = ""
}

// CompleteStep records a step as finished, once.
func (s *Session) CompleteStep(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, done := range s.completedSteps {
		if done == step {
			return
		}
	}
	s.completedSteps = append(s.completedSteps, step)
}

// SetStepDetail sets the fine-grained progress line under the current
// step, e.g. "Session 3/12: Poster Session 2".
func (s *Session) SetStepDetail(detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepDetail = detail
}

// SetStats replaces the run statistics.
func (s *Session) SetStats(stats Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
}

// SetOutputFile records the papers artifact available for download.
func (s *Session) SetOutputFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputFile = path
}

// SetWebsiteFile records the rendered website artifact.
func (s *Session) SetWebsiteFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.websiteFile = path
}

// Complete marks the run finished successfully.
func (s *Session) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusCompleted
	s.currentStep = "done"
}

// Fail marks the run failed with the given message.
func (s *Session) Fail(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusError
	s.err = message
}

// Progress is the API view of a session, with new logs drained.
type Progress struct {
	Status         string     `json:"status"`
	CurrentStep    string     `json:"current_step"`
	CompletedSteps []string   `json:"completed_steps"`
	StepDetail     string     `json:"step_detail"`
	NewLogs        []LogEntry `json:"new_logs"`
	Stats          Stats      `json:"stats"`
	Error          string     `json:"error,omitempty"`
}

// Snapshot returns the current progress view and advances the log
// cursor past everything included in it.
func (s *Session) Snapshot() Progress {
	newLogs := s.NewLogs()

	s.mu.Lock()
	defer s.mu.Unlock()
	completed := make([]string, len(s.completedSteps))
	copy(completed, s.completedSteps)
	return Progress{
		Status:         s.status,
		CurrentStep:    s.currentStep,
		CompletedSteps: completed,
		StepDetail:     s.stepDetail,
		NewLogs:        newLogs,
		Stats:          s.stats,
		Error:          s.err,
	}
}

// OutputFile returns the papers artifact path, if recorded.
func (s *Session) OutputFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outputFile
}

// WebsiteFile returns the website artifact path, if recorded.
func (s *Session) WebsiteFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.websiteFile
}

// Status returns the current run status.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}
