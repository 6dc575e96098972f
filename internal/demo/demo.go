package demo

import (
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/blogseo/blogseo/internal/optimizer"
)

// BusyNotice is returned while a client already has an optimization running.
const BusyNotice = "Optimizasyon zaten devam ediyor"

// Response is the payload rendered by the page. It never says which path
// produced the numbers.
type Response struct {
	ScoreBefore      int    `json:"score_before"`
	ScoreAfter       int    `json:"score_after"`
	Improvement      int    `json:"improvement"`
	OptimizedHTML    string `json:"optimized_html"`
	ImprovementLabel string `json:"improvement_label"`
}

func newResponse(res optimizer.Result) Response {
	return Response{
		ScoreBefore:      res.ScoreBefore,
		ScoreAfter:       res.ScoreAfter,
		Improvement:      res.Improvement,
		OptimizedHTML:    res.OptimizedHTML,
		ImprovementLabel: res.ImprovementLabel(),
	}
}

// Handler serves the demo form's endpoints.
type Handler struct {
	svc *optimizer.Service

	mu       sync.Mutex
	inflight map[string]struct{}
}

// New creates a Handler backed by svc.
func New(svc *optimizer.Service) *Handler {
	return &Handler{svc: svc, inflight: make(map[string]struct{})}
}

// RegisterRoutes mounts the demo endpoints on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/optimize", h.handleOptimize)
	r.Get("/ws/optimize", h.handleWebSocket)
}

// acquire marks clientID busy. It reports false when a run is already active.
func (h *Handler) acquire(clientID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, busy := h.inflight[clientID]; busy {
		return false
	}
	h.inflight[clientID] = struct{}{}
	return true
}

func (h *Handler) release(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.inflight, clientID)
}
