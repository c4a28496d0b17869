// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// CatsHandler serves the cat list and breed lookups as JSON.
type CatsHandler struct {
	deps Dependencies
}

// NewCatsHandler creates a new cats handler.
func NewCatsHandler(deps Dependencies) *CatsHandler {
	return &CatsHandler{deps: deps}
}

// HandleList handles GET /api/cats?offset=N requests.
func (h *CatsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	offset, err := parseOffset(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	page, err := h.deps.ListCats(r.Context(), offset)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleBreed handles GET /api/cats/{name}?offset=N requests.
func (h *CatsHandler) HandleBreed(w http.ResponseWriter, r *http.Request) {
	offset, err := parseOffset(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	cats, err := h.deps.CatsByBreed(r.Context(), r.PathValue("name"), offset)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}
