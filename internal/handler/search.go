package handler

import (
	"net/http"

	"github.com/programpal/pathfinder/internal/model"
	"github.com/programpal/pathfinder/internal/service/search"
)

type SearchHandler struct {
	aggregator *search.Aggregator
}

func NewSearchHandler(aggregator *search.Aggregator) *SearchHandler {
	return &SearchHandler{aggregator: aggregator}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req model.SearchRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := h.aggregator.Search(r.Context(), req.Query)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
