package model

const (
	AnalysisSummary   = "summary"
	AnalysisKeyPoints = "key_points"
	AnalysisQA        = "qa"
)

const (
	AnalysisCompleted = "completed"
	AnalysisFailed    = "failed"
)

type AnalysisRequest struct {
	DocumentID   string  `json:"document_id"`
	AnalysisType string  `json:"analysis_type"`
	Query        *string `json:"query"`
}

type AnalysisResponse struct {
	DocumentID   string  `json:"document_id"`
	AnalysisType string  `json:"analysis_type"`
	Status       string  `json:"status"`
	Result       any     `json:"result"`
	ErrorMessage *string `json:"error_message"`
}
