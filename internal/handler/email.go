package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/programpal/pathfinder/internal/ctxkeys"
	"github.com/programpal/pathfinder/internal/model"
	"github.com/programpal/pathfinder/internal/service"
)

type EmailHandler struct {
	emailService *service.EmailService
}

func NewEmailHandler(emailService *service.EmailService) *EmailHandler {
	return &EmailHandler{emailService: emailService}
}

func (h *EmailHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.EmailInput
	err := decodeJSON(w, r, &in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	email, err := h.emailService.Create(r.Context(), user.ID, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, email)
}

// List supports ?folder=, ?is_read=, ?skip= and ?limit= (default 50).
func (h *EmailHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	page, err := pageFromQuery(r, service.DefaultEmailLimit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var filter model.EmailFilter
	q := r.URL.Query()
	if q.Has("folder") {
		folder := q.Get("folder")
		filter.Folder = &folder
	}
	if v := q.Get("is_read"); v != "" {
		isRead, err := strconv.ParseBool(v)
		if err != nil {
			writeServiceError(w, r, fmt.Errorf("%w: is_read must be true or false", service.ErrInvalidRequest))
			return
		}
		filter.IsRead = &isRead
	}

	emails, err := h.emailService.List(r.Context(), user.ID, filter, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, emails)
}

func (h *EmailHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	email, err := h.emailService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, email)
}

// UpdateStatus accepts only is_read and folder. A JSON null counts as not supplied.
func (h *EmailHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var update model.EmailStatusUpdate
	err := decodeJSON(w, r, &update)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	email, err := h.emailService.UpdateStatus(r.Context(), user.ID, r.PathValue("id"), update)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, email)
}

func (h *EmailHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	emailID := r.PathValue("id")

	err := h.emailService.Delete(r.Context(), user.ID, emailID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.Info("email deleted", "user_id", user.ID, "email_id", emailID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *EmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.SendInput
	err := decodeJSON(w, r, &in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	email, err := h.emailService.Send(r.Context(), user, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.Info("email sent", "user_id", user.ID, "email_id", email.ID)
	writeJSON(w, http.StatusCreated, email)
}
