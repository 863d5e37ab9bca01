package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/google/uuid"

	"github.com/swiftserve/swiftserve/internal/orders"
)

type ctxKey int

const actorKey ctxKey = iota

// ActorFrom returns the authenticated actor attached by the middleware.
func ActorFrom(ctx context.Context) (orders.Actor, bool) {
	a, ok := ctx.Value(actorKey).(orders.Actor)
	return a, ok
}

// ActorStore resolves a user id to an actor; backed by the persistence
// layer in production. Credential verification itself lives outside this
// service, so the middleware trusts the X-Actor-ID header the edge proxy
// sets after authentication.
type ActorStore interface {
	GetActor(ctx context.Context, id int64) (orders.Actor, error)
}

// WithActor attaches the acting user to the request context when the
// X-Actor-ID header is present. Resolution failures leave the request
// anonymous; handlers that need an identity use RequireActor.
func WithActor(users ActorStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := r.Header.Get("X-Actor-ID"); raw != "" {
				if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
					if actor, err := users.GetActor(r.Context(), id); err == nil {
						r = r.WithContext(context.WithValue(r.Context(), actorKey, actor))
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireActor rejects requests that did not resolve to a known user.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFrom(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware logs every request with a trace id, reusing an
// upstream X-Request-ID when one is supplied.
func LoggingMiddleware(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			traceID := r.Header.Get("X-Request-ID")
			if traceID == "" {
				traceID = uuid.NewString()
			}

			next.ServeHTTP(ww, r)

			log.Info("http request complete",
				zap.String("trace_id", traceID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter captures the HTTP status for logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
