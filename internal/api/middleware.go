package api

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/oklog/ulid/v2"

	"github.com/wonny/buildbid/backend/pkg/logger"
	"github.com/wonny/buildbid/backend/pkg/metrics"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

type routeKey struct{}

// unmatchedRoute labels requests no route matched (404, 405)
const unmatchedRoute = "unmatched"

// matchedRoute is filled in by captureRouteMiddleware once mux has matched
type matchedRoute struct {
	template string
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0) //nolint:gosec // ids, not secrets
)

func newRequestID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return id.String()
}

// RequestIDFrom returns the id assigned by requestIDMiddleware
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// MaintenanceChecker reports whether the platform is in maintenance
type MaintenanceChecker interface {
	Active(ctx context.Context) bool
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestIDMiddleware keeps an incoming X-Request-ID or assigns a ULID
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = newRequestID()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// routeTemplate returns the matched mux path template, or the raw path
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

// captureRouteMiddleware hands the matched template back to loggingMiddleware,
// which runs outside the router and never sees mux.CurrentRoute
func captureRouteMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m, ok := r.Context().Value(routeKey{}).(*matchedRoute); ok {
			m.template = routeTemplate(r)
		}
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests and records request metrics.
// Unmatched requests are labelled "unmatched" to keep metric cardinality bounded.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			matched := &matchedRoute{}

			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), routeKey{}, matched)))

			duration := time.Since(start)
			route := matched.template
			if route == "" {
				route = unmatchedRoute
			}
			metrics.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(duration.Seconds())

			entry := log.WithRequestID(RequestIDFrom(r.Context())).WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"route":    route,
				"status":   rec.status,
				"duration": duration,
			})
			if rec.status >= http.StatusInternalServerError {
				entry.Warn("HTTP request")
			} else {
				entry.Debug("HTTP request")
			}
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithRequestID(RequestIDFrom(r.Context())).WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					writeJSONError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// maintenanceMiddleware answers 503 on user-facing API routes while maintenance is on.
// Admin routes and the maintenance toggle stay reachable.
func maintenanceMiddleware(checker MaintenanceChecker) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if checker == nil || maintenanceExempt(r.URL.Path) || !checker.Active(r.Context()) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "Platform is under maintenance",
			})
		})
	}
}

func maintenanceExempt(path string) bool {
	if !strings.HasPrefix(path, "/api/") {
		return true
	}
	return strings.HasPrefix(path, "/api/admin/") || path == "/api/maintenance"
}
