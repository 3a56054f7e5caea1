// Package middleware provides the HTTP middleware stack: request metadata,
// player identity headers, and admin JWT auth.
package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"clanhall/pkg/requestcontext"
)

// RequestMeta assigns a correlation ID and pins the request clock so every
// timestamp taken during one request agrees.
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		ctx = requestcontext.WithTime(ctx, time.Now())
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PlayerIdentity copies the trusted player identity headers, set by the game
// gateway in front of this service, into the request context. Requests
// without the headers stay anonymous; handlers that need an actor reject
// them.
func PlayerIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := r.Header.Get("X-Player-ID"); id != "" {
			ctx = requestcontext.WithActorID(ctx, id)
		}
		if name := r.Header.Get("X-Player-Name"); name != "" {
			ctx = requestcontext.WithActorName(ctx, name)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
