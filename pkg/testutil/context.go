package testutil

import (
	"context"
	"net/http"
	"time"

	"clanhall/pkg/requestcontext"
)

// WithActor stamps the acting player onto the request context the way the
// identity middleware does for real requests.
func WithActor(req *http.Request, playerID, playerName string) *http.Request {
	ctx := req.Context()
	if playerID != "" {
		ctx = requestcontext.WithActorID(ctx, playerID)
	}
	if playerName != "" {
		ctx = requestcontext.WithActorName(ctx, playerName)
	}
	return req.WithContext(ctx)
}

// WithRequestTime pins the request clock so assertions on timestamps are
// deterministic.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
