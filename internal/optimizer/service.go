package optimizer

import (
	"context"
	"errors"
	"log"
	"time"
)

// Recorder receives every outcome for diagnostics.
type Recorder interface {
	Record(ctx context.Context, req Request, outcome Outcome) error
}

// Service resolves optimization requests. It tries the remote API first and
// degrades to the local fallback; callers always get a result.
type Service struct {
	remote   Remoter
	fallback *Fallback
	recorder Recorder
}

// NewService wires the optimizer. remote may be nil, in which case every
// request takes the fallback path. recorder may be nil.
func NewService(remote Remoter, fallback *Fallback, recorder Recorder) *Service {
	if fallback == nil {
		fallback = NewFallback(DefaultFallbackDelay, nil)
	}
	return &Service{remote: remote, fallback: fallback, recorder: recorder}
}

var errNoRemote = errors.New("remote optimizer not configured")

// Resolve returns the outcome with its source. The request is expected to be
// valid; a missing score is treated as 0.
func (s *Service) Resolve(ctx context.Context, req Request) Outcome {
	start := time.Now()
	score := req.Score()

	var reason error
	if s.remote != nil {
		res, err := s.remote.Optimize(ctx, req.HTMLCode, req.FocusKeyword, score)
		if err == nil {
			out := Outcome{Result: res, Source: SourceRemote, Duration: time.Since(start)}
			s.record(ctx, req, out)
			return out
		}
		reason = err
		log.Printf("optimizer: remote call failed, using fallback: %v", err)
	} else {
		reason = errNoRemote
	}

	res, applied := s.fallback.Compute(ctx, req.HTMLCode, req.FocusKeyword, score)
	out := Outcome{
		Result:       res,
		Source:       SourceFallback,
		Reason:       reason,
		AppliedRules: applied,
		Duration:     time.Since(start),
	}
	s.record(ctx, req, out)
	return out
}

// Optimize is Resolve without the diagnostics.
func (s *Service) Optimize(ctx context.Context, req Request) Result {
	return s.Resolve(ctx, req).Result
}

func (s *Service) record(ctx context.Context, req Request, out Outcome) {
	if s.recorder == nil {
		return
	}
	// The request context may already be cancelled; the record should still land.
	if err := s.recorder.Record(context.WithoutCancel(ctx), req, out); err != nil {
		log.Printf("optimizer: recording outcome: %v", err)
	}
}
