package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stock-assistant/internal/http/metric"
	"github.com/tuanvumaihuynh/stock-assistant/internal/http/middleware"
	"github.com/tuanvumaihuynh/stock-assistant/pkg/correlationid"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func assertEnvelopeHeaders(t *testing.T, h http.Header) {
	t.Helper()
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.Equal(t, "*", h.Get(middleware.HeaderAllowOrigin))
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", h.Get(middleware.HeaderAllowMethods))
	assert.Equal(t, "Content-Type", h.Get(middleware.HeaderAllowHeaders))
}

func TestEnvelope(t *testing.T) {
	called := false
	handler := middleware.Envelope()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("Should answer OPTIONS without calling the handler", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/anything", nil))

		assert.False(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"CORS preflight"}`, rec.Body.String())
		assertEnvelopeHeaders(t, rec.Header())
	})

	t.Run("Should stamp headers on other methods", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

		assert.True(t, called)
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assertEnvelopeHeaders(t, rec.Header())
	})
}

func TestCorsWithEnvelope(t *testing.T) {
	handler := middleware.Cors()(middleware.Envelope()(http.NotFoundHandler()))

	t.Run("Should keep the fixed headers on a browser preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/products", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assertEnvelopeHeaders(t, rec.Header())
	})
}

func TestCorrelationID(t *testing.T) {
	var seen string
	handler := middleware.CorrelationID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = correlationid.FromContext(r.Context())
	}))

	t.Run("Should propagate the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(correlationid.Header, "abc-123")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(correlationid.Header))
	})

	t.Run("Should mint an id when none is sent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(correlationid.Header))
	})
}

func TestRecoverer(t *testing.T) {
	t.Run("Should turn a panic into a JSON 500", func(t *testing.T) {
		handler := middleware.Recoverer(discardLogger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
		assertEnvelopeHeaders(t, rec.Header())
	})

	t.Run("Should re-panic on ErrAbortHandler", func(t *testing.T) {
		handler := middleware.Recoverer(discardLogger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}

func TestMetrics(t *testing.T) {
	t.Run("Should count requests by route pattern", func(t *testing.T) {
		m := metric.New()
		r := chi.NewRouter()
		r.Use(middleware.Metrics(m))
		r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		for _, id := range []string{"A1", "B2"} {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/"+id, nil))
		}

		count := testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/products/{id}", "200"))
		require.InDelta(t, 2, count, 0)
	})
}
