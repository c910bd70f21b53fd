package swagger_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stock-assistant/internal/http/swagger"
)

func TestRegister(t *testing.T) {
	r := chi.NewRouter()
	require.NoError(t, swagger.Register(r))

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("Should serve the docs page", func(t *testing.T) {
		rec := get("/docs")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "<title>Stock Assistant API</title>")
	})

	t.Run("Should serve the yaml contract", func(t *testing.T) {
		rec := get("/docs/openapi.yml")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/yaml")
		assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")
	})

	t.Run("Should serve the json contract", func(t *testing.T) {
		rec := get("/docs/openapi.json")

		require.Equal(t, http.StatusOK, rec.Code)
		var doc map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Equal(t, "3.0.3", doc["openapi"])
		assert.Contains(t, doc["paths"], "/recommendations")
	})
}
