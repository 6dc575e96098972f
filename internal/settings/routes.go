package settings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blogseo/blogseo/internal/server"
)

type themeBody struct {
	Theme Theme `json:"theme"`
}

// RegisterRoutes mounts theme endpoints under /api/settings on the given router.
func RegisterRoutes(r chi.Router, themes *ThemeService) {
	r.Route("/api/settings/theme", func(r chi.Router) {
		r.Get("/", handleGetTheme(themes))
		r.Put("/", handleSetTheme(themes))
		r.Post("/toggle", handleToggleTheme(themes))
	})
}

func handleGetTheme(themes *ThemeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := themes.Current(r.Context(), server.ClientID(r))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, themeBody{Theme: t})
	}
}

func handleSetTheme(themes *ThemeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Theme string `json:"theme"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		t, err := themes.Set(r.Context(), server.ClientID(r), body.Theme)
		if errors.Is(err, ErrInvalidTheme) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, themeBody{Theme: t})
	}
}

func handleToggleTheme(themes *ThemeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := themes.Toggle(r.Context(), server.ClientID(r))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, themeBody{Theme: t})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
