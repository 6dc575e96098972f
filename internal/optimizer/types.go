package optimizer

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Request is a single demo optimization request as submitted by the form.
type Request struct {
	HTMLCode     string `json:"html_code"`
	FocusKeyword string `json:"focus_keyword"`
	// BaselineScore is a pointer so that a missing score can be told apart from 0.
	BaselineScore *int `json:"seo_score"`
}

// Result is what the display layer renders. It has the same shape whichever
// path produced it.
type Result struct {
	ScoreBefore   int    `json:"score_before"`
	ScoreAfter    int    `json:"score_after"`
	Improvement   int    `json:"improvement"`
	OptimizedHTML string `json:"optimized_html"`
}

// ImprovementLabel is the text shown under the score comparison.
func (r Result) ImprovementLabel() string {
	return fmt.Sprintf("+%d puan iyileştirme!", r.Improvement)
}

// Source identifies which path produced a Result.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Outcome is the internal two-variant view of an optimization: the result plus
// where it came from and, for the fallback path, why the remote call was abandoned.
type Outcome struct {
	Result       Result
	Source       Source
	Reason       error
	AppliedRules []string
	Duration     time.Duration
}

// Fallback reports whether the outcome was synthesized locally.
func (o Outcome) Fallback() bool { return o.Source == SourceFallback }

// Validation errors. They are returned before any network attempt is made.
var (
	ErrMissingHTML    = errors.New("html code is required")
	ErrMissingKeyword = errors.New("focus keyword is required")
	ErrMissingScore   = errors.New("seo score is required")
)

// ValidationNotice is the blocking user-facing message for any validation error.
const ValidationNotice = "Lütfen tüm alanları doldurun!"

// Validate checks that all three fields are present. Only emptiness is checked:
// the score range is not enforced.
func (r Request) Validate() error {
	if r.HTMLCode == "" {
		return ErrMissingHTML
	}
	if r.FocusKeyword == "" {
		return ErrMissingKeyword
	}
	if r.BaselineScore == nil {
		return ErrMissingScore
	}
	return nil
}

// Score returns the baseline score, or 0 when it is missing.
func (r Request) Score() int {
	if r.BaselineScore == nil {
		return 0
	}
	return *r.BaselineScore
}

// NewRequest builds a Request with the score set.
func NewRequest(html, keyword string, score int) Request {
	return Request{HTMLCode: html, FocusKeyword: keyword, BaselineScore: &score}
}

// TransportError wraps a failure to reach the remote service at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is returned when the remote service answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string { return fmt.Sprintf("API Error: %d", e.Code) }

// ApplicationError is returned when the remote body is well formed JSON but
// does not report success, or cannot be decoded.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string { return e.Message }

type clientIDKey struct{}

// WithClientID attaches the requesting client's identifier to ctx so that
// recorders can attribute outcomes.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey{}, id)
}

// ClientIDFrom returns the identifier set by WithClientID, or "".
func ClientIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey{}).(string)
	return id
}
