package handler

import (
	"net/http"

	"github.com/programpal/pathfinder/internal/ctxkeys"
	"github.com/programpal/pathfinder/internal/model"
	"github.com/programpal/pathfinder/internal/service"
)

type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// AnalyzeDocument answers 200 for both completed and failed analyses.
func (h *AnalysisHandler) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req model.AnalysisRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := h.analysisService.AnalyzeDocument(r.Context(), user.ID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
