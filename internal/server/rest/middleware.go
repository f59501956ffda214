package rest

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dmitrijs2005/clouddb/internal/common"
	"github.com/dmitrijs2005/clouddb/internal/logging"
	"github.com/dmitrijs2005/clouddb/internal/server/auth"
	"github.com/dmitrijs2005/clouddb/internal/server/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	claimsKey    ctxKey = "claims"
)

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so that the first one is outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestIDFromContext returns the ID assigned by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ClaimsFromContext returns the claims stored by RequireAuth.
func ClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	return c, ok
}

// statusRecorder remembers the status code written by the next handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) code() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

// RequestID reuses an incoming X-Request-ID or generates a UUID, and echoes
// it on the response.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(common.RequestIDHeaderName)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(common.RequestIDHeaderName, id)

			ctx := context.WithValue(r.Context(), requestIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Recover turns a handler panic into a 500 response.
func Recover(logger logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					logger.Error(r.Context(), "panic in handler",
						"panic", v,
						"request_id", RequestIDFromContext(r.Context()),
						"stack", string(debug.Stack()))
					writeJSON(w, http.StatusInternalServerError, message{Message: "Internal server error."})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog logs one line per request.
func AccessLog(logger logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			logger.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.code(),
				"duration", time.Since(start),
				"request_id", RequestIDFromContext(r.Context()))
		})
	}
}

// Instrument records request metrics labelled by the matched route template.
// It must be installed with (*mux.Router).Use so the route is known.
func Instrument(m *metrics.Registry) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			route := "unknown"
			if cur := mux.CurrentRoute(r); cur != nil {
				if tpl, err := cur.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			m.ObserveRequest(r.Method, route, rec.code(), time.Since(start))
		})
	}
}

// RequireAuth admits requests carrying a valid bearer token and stores its
// claims in the request context. Expired tokens are reported separately so
// clients know to re-authenticate.
func RequireAuth(secret []byte, m *metrics.Registry) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := auth.BearerToken(r.Header.Get(common.AuthorizationHeaderName))
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="clouddb"`)
				writeJSON(w, http.StatusUnauthorized, message{Message: "Authorization token required."})
				return
			}

			claims, err := auth.VerifyToken(token, secret)
			if err != nil {
				m.ObserveValidation(auth.Reason(err))
				w.Header().Set("WWW-Authenticate", `Bearer realm="clouddb", error="invalid_token"`)
				if auth.IsExpired(err) {
					writeJSON(w, http.StatusUnauthorized, message{Message: "Token expired."})
					return
				}
				writeJSON(w, http.StatusUnauthorized, message{Message: "Invalid token."})
				return
			}
			m.ObserveValidation("ok")

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
