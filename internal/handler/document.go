package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/programpal/pathfinder/internal/ctxkeys"
	"github.com/programpal/pathfinder/internal/repository"
	"github.com/programpal/pathfinder/internal/service"
)

// multipartOverhead leaves room for boundaries and the description field.
const multipartOverhead = 1 << 20

type DocumentHandler struct {
	documentService *service.DocumentService
	maxUploadBytes  int64
}

func NewDocumentHandler(documentService *service.DocumentService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		maxUploadBytes:  maxUploadBytes,
	}
}

// Upload accepts multipart/form-data with a "file" part and an optional "description".
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	err := r.ParseMultipartForm(h.maxUploadBytes)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large: maximum size is "+strconv.FormatInt(h.maxUploadBytes, 10)+" bytes")
			return
		}
		writeError(w, http.StatusBadRequest, "request must be multipart/form-data")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close file", "error", closeErr)
		}
	}()

	var description *string
	if values, ok := r.MultipartForm.Value["description"]; ok && len(values) > 0 {
		description = &values[0]
	}

	doc, err := h.documentService.Upload(r.Context(), user.ID, service.UploadInput{
		Filename:    header.Filename,
		Description: description,
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.Info("document uploaded", "user_id", user.ID, "document_id", doc.ID, "size", doc.Size)
	writeJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	page, err := pageFromQuery(r, repository.DefaultLimit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	docs, err := h.documentService.List(r.Context(), user.ID, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	doc, err := h.documentService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// Content streams the stored file back as an attachment.
func (h *DocumentHandler) Content(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	doc, rc, err := h.documentService.Content(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(doc.Size, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	_, err = io.Copy(w, rc)
	if err != nil {
		slog.Warn("document download interrupted", "error", err, "user_id", user.ID, "document_id", doc.ID)
	}
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	documentID := r.PathValue("id")

	err := h.documentService.Delete(r.Context(), user.ID, documentID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.Info("document deleted", "user_id", user.ID, "document_id", documentID)
	w.WriteHeader(http.StatusNoContent)
}
