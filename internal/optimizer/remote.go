package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultEndpoint is the hosted optimization API.
const DefaultEndpoint = "https://blog-seo-optimizer-9b5r.vercel.app/api/optimize"

// Remoter performs the remote optimization call.
type Remoter interface {
	Optimize(ctx context.Context, html, keyword string, score int) (Result, error)
}

// RemoteClient talks to the optimization API over HTTP.
type RemoteClient struct {
	endpoint   string
	httpClient *http.Client
	timeout    *time.Duration
	limiter    *rate.Limiter
}

// RemoteOption configures a RemoteClient.
type RemoteOption func(*RemoteClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(rc *RemoteClient) { rc.httpClient = c }
}

// WithTimeout sets the request timeout. Zero means no timeout. It is applied
// to a copy of the HTTP client, so a client passed to WithHTTPClient is never
// modified.
func WithTimeout(d time.Duration) RemoteOption {
	return func(rc *RemoteClient) { rc.timeout = &d }
}

// WithRateLimit allows at most rpm outbound calls per minute. Zero disables limiting.
func WithRateLimit(rpm int) RemoteOption {
	return func(rc *RemoteClient) {
		if rpm <= 0 {
			rc.limiter = nil
			return
		}
		rc.limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm)
	}
}

// NewRemoteClient creates a client for the given endpoint.
func NewRemoteClient(endpoint string, opts ...RemoteOption) *RemoteClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	rc := &RemoteClient{
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(rc)
	}
	if rc.timeout != nil {
		client := *rc.httpClient
		client.Timeout = *rc.timeout
		rc.httpClient = &client
	}
	return rc
}

// Endpoint returns the configured URL.
func (c *RemoteClient) Endpoint() string { return c.endpoint }

type optimizeRequest struct {
	HTMLCode     string   `json:"html_code"`
	FocusKeyword string   `json:"focus_keyword"`
	SEOScore     int      `json:"seo_score"`
	Categories   []string `json:"categories"`
	Tags         []string `json:"tags"`
	Image        string   `json:"image"`
	Schema       string   `json:"schema"`
}

type optimizeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    *optimizeData `json:"data"`
}

type optimizeData struct {
	SEOScoreBefore         int    `json:"seo_score_before"`
	SEOScoreAfter          int    `json:"seo_score_after"`
	Improvement            int    `json:"improvement"`
	OptimizedHTMLWordpress string `json:"optimized_html_wordpress"`
}

func newOptimizeRequest(html, keyword string, score int) optimizeRequest {
	return optimizeRequest{
		HTMLCode:     html,
		FocusKeyword: keyword,
		SEOScore:     score,
		Categories:   []string{"Blog"},
		Tags:         []string{},
		Image:        "",
		Schema:       "Article",
	}
}

// Optimize posts the document to the API. Every failure is returned as a
// *TransportError, *StatusError or *ApplicationError.
func (c *RemoteClient) Optimize(ctx context.Context, html, keyword string, score int) (Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Result{}, &TransportError{Err: fmt.Errorf("rate limit: %w", err)}
		}
	}

	body, err := json.Marshal(newOptimizeRequest(html, keyword, score))
	if err != nil {
		return Result{}, fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, &TransportError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, &TransportError{Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	var parsed optimizeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Result{}, &ApplicationError{Message: fmt.Sprintf("parsing response: %v", err)}
	}

	if !parsed.Success {
		msg := parsed.Error
		if msg == "" {
			msg = "Optimization failed"
		}
		return Result{}, &ApplicationError{Message: msg}
	}
	if parsed.Data == nil {
		return Result{}, &ApplicationError{Message: "response has no data"}
	}

	return Result{
		ScoreBefore:   parsed.Data.SEOScoreBefore,
		ScoreAfter:    parsed.Data.SEOScoreAfter,
		Improvement:   parsed.Data.Improvement,
		OptimizedHTML: parsed.Data.OptimizedHTMLWordpress,
	}, nil
}
