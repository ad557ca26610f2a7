package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"fleetrental-backend/internal/logger"
	"fleetrental-backend/internal/security"
)

// AuthMiddleware validates the Bearer token and stores the resolved
// principal on the request context. Refresh tokens are rejected here;
// they are only good for the refresh endpoint.
func AuthMiddleware(tokens security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing authorization header"})
				return
			}
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authorization header must use the Bearer scheme"})
				return
			}

			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if claims.Type != security.TokenTypeAccess {
				writeError(w, r, security.ErrWrongTokenType)
				return
			}

			ctx := withPrincipal(r.Context(), claims.Principal())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware logs one line per request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
