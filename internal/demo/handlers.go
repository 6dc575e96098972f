package demo

import (
	"encoding/json"
	"net/http"

	"github.com/blogseo/blogseo/internal/optimizer"
	"github.com/blogseo/blogseo/internal/server"
)

func (h *Handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizer.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": optimizer.ValidationNotice})
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": optimizer.ValidationNotice})
		return
	}

	clientID := server.ClientID(r)
	if !h.acquire(clientID) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": BusyNotice})
		return
	}
	defer h.release(clientID)

	ctx := optimizer.WithClientID(r.Context(), clientID)
	res := h.svc.Optimize(ctx, req)
	writeJSON(w, http.StatusOK, newResponse(res))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
