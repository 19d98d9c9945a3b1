package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/programpal/pathfinder/internal/model"
)

// Analyzer turns document content into a result for one analysis kind.
type Analyzer interface {
	Analyze(ctx context.Context, content []byte, filename, kind string, query *string) (any, error)
}

// ValidateAnalysis checks the kind and, for qa, that a question was asked.
func ValidateAnalysis(kind string, query *string) error {
	switch kind {
	case model.AnalysisSummary, model.AnalysisKeyPoints:
		return nil
	case model.AnalysisQA:
		if query == nil || strings.TrimSpace(*query) == "" {
			return invalidf("a query is required for qa analysis")
		}
		return nil
	default:
		return invalidf("invalid analysis_type %q", kind)
	}
}

// StubAnalyzer returns canned results without looking at the content.
type StubAnalyzer struct{}

func (StubAnalyzer) Analyze(_ context.Context, _ []byte, _ string, kind string, query *string) (any, error) {
	err := ValidateAnalysis(kind, query)
	if err != nil {
		return nil, err
	}

	switch kind {
	case model.AnalysisSummary:
		return "This is a dummy summary of the document content provided.", nil
	case model.AnalysisKeyPoints:
		return []string{
			"Dummy key point 1 from the document.",
			"Dummy key point 2 highlighting important information.",
			"Dummy key point 3 summarizing a conclusion.",
		}, nil
	default:
		return fmt.Sprintf("This is a dummy answer to your question: %s based on the document.", strings.TrimSpace(*query)), nil
	}
}

type AnalysisService struct {
	documentService *DocumentService
	analyzer        Analyzer
	maxBytes        int64
}

func NewAnalysisService(documentService *DocumentService, analyzer Analyzer, maxBytes int64) *AnalysisService {
	return &AnalysisService{
		documentService: documentService,
		analyzer:        analyzer,
		maxBytes:        maxBytes,
	}
}

// AnalyzeDocument runs one analysis on an owned document.
// Malformed requests and missing documents are errors; failures while reading
// or analyzing come back as a response with status "failed".
func (s *AnalysisService) AnalyzeDocument(ctx context.Context, ownerID string, req model.AnalysisRequest) (*model.AnalysisResponse, error) {
	if strings.TrimSpace(req.DocumentID) == "" {
		return nil, invalidf("document_id is required")
	}
	err := ValidateAnalysis(req.AnalysisType, req.Query)
	if err != nil {
		return nil, err
	}

	resp := &model.AnalysisResponse{
		DocumentID:   req.DocumentID,
		AnalysisType: req.AnalysisType,
	}

	doc, rc, err := s.documentService.Content(ctx, ownerID, req.DocumentID)
	if doc == nil {
		return nil, err
	}
	if err != nil {
		slog.Error("failed to open document for analysis", "error", err, "document_id", doc.ID, "user_id", ownerID)
		return failed(resp, "could not read document content"), nil
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, s.maxBytes))
	if err != nil {
		slog.Error("failed to read document for analysis", "error", err, "document_id", doc.ID, "user_id", ownerID)
		return failed(resp, "could not read document content"), nil
	}

	result, err := s.analyzer.Analyze(ctx, content, doc.Filename, req.AnalysisType, req.Query)
	if err != nil {
		slog.Warn("document analysis failed", "error", err, "document_id", doc.ID, "analysis_type", req.AnalysisType)
		return failed(resp, err.Error()), nil
	}

	resp.Status = model.AnalysisCompleted
	resp.Result = result
	return resp, nil
}

func failed(resp *model.AnalysisResponse, message string) *model.AnalysisResponse {
	resp.Status = model.AnalysisFailed
	resp.ErrorMessage = &message
	return resp
}
