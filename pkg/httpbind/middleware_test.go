package httpbind

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gridline/gridline/pkg/observability/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestRequestID_GeneratesUUID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()
	Chain(inner, RequestID()).ServeHTTP(w, req)

	uuidPattern := regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)
	header := w.Header().Get(RequestIDHeader)
	if !uuidPattern.MatchString(header) {
		t.Errorf("generated request ID %q is not a UUID", header)
	}
	if seen != header {
		t.Errorf("context request ID %q != header %q", seen, header)
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	Chain(okHandler(), RequestID()).ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "req-42" {
		t.Errorf("request ID = %q, want req-42", got)
	}
}

func TestLoggingAndMetrics_PassThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()

	Chain(okHandler(), RequestID(), Logging(logger.NewNop()), Metrics()).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Errorf("body = %q, want ok", w.Body.String())
	}
}

func TestStatusRecorder(t *testing.T) {
	w := httptest.NewRecorder()
	recorder := newStatusRecorder(w)

	if recorder.Status() != http.StatusOK {
		t.Errorf("default status = %d, want 200", recorder.Status())
	}

	recorder.WriteHeader(http.StatusTeapot)
	recorder.WriteHeader(http.StatusOK) // second call must not overwrite
	if recorder.Status() != http.StatusTeapot {
		t.Errorf("status = %d, want 418", recorder.Status())
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	Chain(okHandler(), tag("outer"), tag("inner")).ServeHTTP(httptest.NewRecorder(), req)

	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("middleware order = %v, want [outer inner]", order)
	}
}
