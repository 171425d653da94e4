package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/clinova/clinic-ops/internal/session"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	identityKey  contextKey = "acting_identity"
	managerKey   contextKey = "session_manager"
)

// ClientIDHeader names the opaque per-client identifier the frontend sends
// with every request. It keys the server-side copy of that client's session.
const ClientIDHeader = "X-Client-ID"

// RequestIDMiddleware adds a unique request ID to each request context
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware logs HTTP requests with method, path, status, duration, and request ID
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		requestID := GetRequestID(r.Context())

		log.Printf(
			"method=%s path=%s status=%d duration=%s request_id=%s",
			r.Method,
			r.URL.Path,
			wrapped.statusCode,
			duration,
			requestID,
		)
	})
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// RequireSession restores the calling client's session and rejects the
// request unless it is currently authenticated. A missing client id, an
// absent session, a malformed token, and an expired one all produce the same
// 401; callers cannot tell which it was.
func (h *Handlers) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := r.Header.Get(ClientIDHeader)
		if clientID == "" {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "sign in required")
			return
		}

		mgr := h.managerFor(clientID)
		if err := mgr.Restore(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "could not restore session")
			return
		}
		if !mgr.IsAuthenticated(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "sign in required")
			return
		}
		ident, ok := mgr.Current()
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "sign in required")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, ident)
		ctx = context.WithValue(ctx, managerKey, mgr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actingIdentity(ctx context.Context) session.Identity {
	ident, _ := ctx.Value(identityKey).(session.Identity)
	return ident
}

func sessionManager(ctx context.Context) *session.Manager {
	mgr, _ := ctx.Value(managerKey).(*session.Manager)
	return mgr
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
