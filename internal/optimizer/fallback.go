package optimizer

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	// DefaultFallbackDelay keeps the fallback's perceived latency close to the remote path.
	DefaultFallbackDelay = 2 * time.Second

	minImprovement = 15
	maxImprovement = 44
	maxScore       = 100
)

// Fallback computes the local approximation used when the remote service
// cannot be used. It is not an optimizer.
type Fallback struct {
	Delay time.Duration
	Rules []Rule

	mu   sync.Mutex
	rand *rand.Rand
}

// NewFallback returns a Fallback with the default rules. A nil rng uses the
// package-level random source.
func NewFallback(delay time.Duration, rng *rand.Rand) *Fallback {
	return &Fallback{Delay: delay, Rules: DefaultRules, rand: rng}
}

// Compute waits for the configured delay and then synthesizes a result. A
// cancelled context cuts the wait short but still yields a result.
func (f *Fallback) Compute(ctx context.Context, html, keyword string, score int) (Result, []string) {
	if f.Delay > 0 {
		t := time.NewTimer(f.Delay)
		select {
		case <-ctx.Done():
		case <-t.C:
		}
		t.Stop()
	}

	improvement := f.improvement()
	rules := f.Rules
	if rules == nil {
		rules = DefaultRules
	}
	optimized, applied := ApplyRules(html, keyword, rules)

	return Result{
		ScoreBefore:   score,
		ScoreAfter:    min(score+improvement, maxScore),
		Improvement:   improvement,
		OptimizedHTML: optimized,
	}, applied
}

// improvement returns a uniform integer in [15, 44].
func (f *Fallback) improvement() int {
	span := maxImprovement - minImprovement + 1
	if f.rand == nil {
		return minImprovement + rand.IntN(span)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return minImprovement + f.rand.IntN(span)
}
