package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/code-editor/internal/handler"
	"github.com/sakif/code-editor/internal/model"
)

func TestHandleLanguages(t *testing.T) {
	rr := httptest.NewRecorder()
	handler.HandleLanguages(rr, httptest.NewRequest(http.MethodGet, "/api/languages", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var langs []model.Language
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&langs))
	assert.Equal(t, model.Languages(), langs)
}

func TestHandleLanguage(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/languages/{value}", handler.HandleLanguage)

	t.Run("known", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/languages/python", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"value":"python","label":"Python","executable":false}`, rr.Body.String())
	})

	t.Run("unknown", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/languages/cobol", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandleHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	handler.HandleHealth("local")(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","backend":"local"}`, rr.Body.String())
}
