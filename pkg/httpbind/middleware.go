package httpbind

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gridline/gridline/pkg/observability/logger"
)

// RequestIDHeader is the HTTP header name for request IDs.
const RequestIDHeader = "X-Request-ID"

// Middleware is a standard net/http middleware.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware left to right around a handler: the first
// middleware becomes the outermost wrapper.
func Chain(h http.Handler, middleware ...Middleware) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}

// RequestID generates or propagates the X-Request-ID header and stores
// the ID in the request context for log correlation.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			w.Header().Set(RequestIDHeader, requestID)
			ctx := logger.WithRequestID(r.Context(), requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logging logs one structured entry per request with method, path,
// status, duration, and the request ID from the context.
func Logging(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := newStatusRecorder(w)

			next.ServeHTTP(recorder, r)

			log.WithContext(r.Context()).Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// Metrics records the Prometheus request histogram, counter, and
// in-flight gauge for every request.
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			incrementInFlight()
			defer decrementInFlight()

			start := time.Now()
			recorder := newStatusRecorder(w)

			next.ServeHTTP(recorder, r)

			recordHTTPMetrics(r.Method, r.URL.Path, recorder.Status(), time.Since(start))
		})
	}
}

// statusRecorder tracks the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records the status code.
func (r *statusRecorder) WriteHeader(status int) {
	if !r.written {
		r.status = status
		r.written = true
	}
	r.ResponseWriter.WriteHeader(status)
}

// Write marks the response as written.
func (r *statusRecorder) Write(b []byte) (int, error) {
	r.written = true
	return r.ResponseWriter.Write(b)
}

// Status returns the recorded status code.
func (r *statusRecorder) Status() int {
	return r.status
}
