package testutil

import (
	"context"
	"net/http"
	"time"

	"kycdesk/pkg/requestcontext"
)

// FixedTime is the clock used by tests that compare timestamps.
var FixedTime = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

// Context returns a background context pinned to at, the way RequestTime
// middleware pins a request.
func Context(at time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), at)
}

// WithRequestTime pins the request clock.
func WithRequestTime(req *http.Request, at time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), at))
}

// WithClient attaches caller metadata as ClientMetadata middleware would.
func WithClient(ctx context.Context, ip, name string) context.Context {
	ctx = requestcontext.WithClientMetadata(ctx, ip, name)
	return requestcontext.WithClientName(ctx, name)
}
