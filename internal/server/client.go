package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	// ClientIDCookie identifies a browser across requests.
	ClientIDCookie = "blogseo_client"
	// ClientIDHeader lets non-browser clients pick their own identity.
	ClientIDHeader = "X-Client-ID"
)

type clientIDKey struct{}

// EnsureClientID resolves the caller's client id and issues a cookie when
// the request carries none.
func EnsureClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := requestClientID(r)
		if id == "" {
			id = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     ClientIDCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   365 * 24 * 60 * 60,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), clientIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientID returns the id resolved by EnsureClientID, falling back to the
// request header and cookie when the middleware did not run.
func ClientID(r *http.Request) string {
	if id, ok := r.Context().Value(clientIDKey{}).(string); ok && id != "" {
		return id
	}
	return requestClientID(r)
}

func requestClientID(r *http.Request) string {
	if id := r.Header.Get(ClientIDHeader); id != "" {
		return id
	}
	if c, err := r.Cookie(ClientIDCookie); err == nil {
		return c.Value
	}
	return ""
}
