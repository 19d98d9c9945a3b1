package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/programpal/pathfinder/internal/model"
	"github.com/programpal/pathfinder/internal/repository"
	"github.com/programpal/pathfinder/internal/storage"
)

func TestAnalyzeDocument(t *testing.T) {
	ctx := context.Background()
	database := openDB(t)
	owner := seedUser(t, database, "owner@example.com")
	other := seedUser(t, database, "other@example.com")
	blobs := newMemStorage()
	documents := NewDocumentService(repository.NewDocumentRepository(database), storage.NewDocumentStore(blobs), 1<<20)
	analysis := NewAnalysisService(documents, StubAnalyzer{}, 1<<20)

	doc, err := documents.Upload(ctx, owner.ID, textUpload("statement.txt", "I want to study robotics."))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	resp, err := analysis.AnalyzeDocument(ctx, owner.ID, model.AnalysisRequest{DocumentID: doc.ID, AnalysisType: model.AnalysisKeyPoints})
	if err != nil {
		t.Fatalf("key points: %v", err)
	}
	points, ok := resp.Result.([]string)
	if resp.Status != model.AnalysisCompleted || !ok || len(points) != 3 {
		t.Fatalf("unexpected key points response %+v", resp)
	}

	resp, err = analysis.AnalyzeDocument(ctx, owner.ID, model.AnalysisRequest{
		DocumentID:   doc.ID,
		AnalysisType: model.AnalysisQA,
		Query:        ptr("What is the deadline?"),
	})
	if err != nil {
		t.Fatalf("qa: %v", err)
	}
	answer, _ := resp.Result.(string)
	if !strings.Contains(answer, "What is the deadline?") {
		t.Fatalf("expected the question echoed, got %q", answer)
	}

	_, err = analysis.AnalyzeDocument(ctx, other.ID, model.AnalysisRequest{DocumentID: doc.ID, AnalysisType: model.AnalysisSummary})
	if !errors.Is(err, repository.ErrDocumentNotFound) {
		t.Fatalf("expected other owner to get not found, got %v", err)
	}
}

func TestAnalyzeDocumentValidation(t *testing.T) {
	database := openDB(t)
	owner := seedUser(t, database, "owner@example.com")
	documents := NewDocumentService(repository.NewDocumentRepository(database), storage.NewDocumentStore(newMemStorage()), 1<<20)
	analysis := NewAnalysisService(documents, StubAnalyzer{}, 1<<20)

	tests := []struct {
		name string
		req  model.AnalysisRequest
	}{
		{"missing document", model.AnalysisRequest{AnalysisType: model.AnalysisSummary}},
		{"unknown kind", model.AnalysisRequest{DocumentID: "x", AnalysisType: "translate"}},
		{"qa without query", model.AnalysisRequest{DocumentID: "x", AnalysisType: model.AnalysisQA}},
		{"qa with blank query", model.AnalysisRequest{DocumentID: "x", AnalysisType: model.AnalysisQA, Query: ptr("  ")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := analysis.AnalyzeDocument(context.Background(), owner.ID, tt.req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestAnalyzeDocumentMissingBlobFails(t *testing.T) {
	ctx := context.Background()
	database := openDB(t)
	owner := seedUser(t, database, "owner@example.com")
	blobs := newMemStorage()
	documents := NewDocumentService(repository.NewDocumentRepository(database), storage.NewDocumentStore(blobs), 1<<20)
	analysis := NewAnalysisService(documents, StubAnalyzer{}, 1<<20)

	doc, err := documents.Upload(ctx, owner.ID, textUpload("cv.txt", "experience"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	delete(blobs.objects, doc.FilePath)

	resp, err := analysis.AnalyzeDocument(ctx, owner.ID, model.AnalysisRequest{DocumentID: doc.ID, AnalysisType: model.AnalysisSummary})
	if err != nil {
		t.Fatalf("expected a failed response, not an error: %v", err)
	}
	if resp.Status != model.AnalysisFailed || resp.ErrorMessage == nil || resp.Result != nil {
		t.Fatalf("unexpected response %+v", resp)
	}
}
