package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/code-editor/internal/model"
)

// HandleLanguages lists the editor's language selector.
//
// HTTP: GET /api/languages
func HandleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.Languages())
}

// HandleLanguage returns one catalogue entry.
//
// HTTP: GET /api/languages/{value}
func HandleLanguage(w http.ResponseWriter, r *http.Request) {
	lang, err := model.LookupLanguage(chi.URLParam(r, "value"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lang)
}
