// Package enrich implements the enrichment workers: one external
// lookup per subject, with defensive parsing, bounded retry, and
// failure normalization. A worker never lets a single subject's failure
// escape as an error; every outcome degrades to recordable fields.
package enrich

import (
	"context"
	"time"

	"github.com/aldro61/PaperAtlas/internal/llm"
	"github.com/aldro61/PaperAtlas/internal/model"
)

// RetryPolicy bounds the attempts of a single enrichment. The second
// attempt runs with the timeout grown by Growth (at least 1.5x) so a
// slow subject gets a real second chance rather than an identical one.
type RetryPolicy struct {
	Attempts int
	Timeout  time.Duration
	Growth   float64
}

// DefaultRetry returns the standard two-attempt policy.
func DefaultRetry(timeout time.Duration) RetryPolicy {
	return RetryPolicy{Attempts: 2, Timeout: timeout, Growth: 1.5}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.Attempts <= 0 {
		p.Attempts = 2
	}
	if p.Growth < 1.5 {
		p.Growth = 1.5
	}
	return p
}

// callWithRetry invokes the caller up to Attempts times, growing the
// per-attempt timeout each round. Only transport-level failures are
// retried; a malformed payload is a terminal parse problem handled by
// the caller.
func callWithRetry(ctx context.Context, caller llm.Caller, req llm.Request, policy RetryPolicy) (string, model.FailureCause, error) {
	policy = policy.normalized()

	timeout := policy.Timeout
	var lastErr error
	for attempt := 0; attempt < policy.Attempts; attempt++ {
		if attempt > 0 {
			timeout = time.Duration(float64(timeout) * policy.Growth)
		}
		attemptReq := req
		attemptReq.Timeout = timeout

		text, err := caller.Call(ctx, attemptReq)
		if err == nil {
			return text, "", nil
		}
		lastErr = err

		// A cancelled parent context means the run is over, not that
		// the subject deserves another attempt.
		if ctx.Err() != nil {
			break
		}
	}
	return "", llm.ClassifyFailure(lastErr), lastErr
}
