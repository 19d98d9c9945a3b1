package handler

import (
	"log/slog"
	"net/http"

	"github.com/programpal/pathfinder/internal/ctxkeys"
	"github.com/programpal/pathfinder/internal/repository"
	"github.com/programpal/pathfinder/internal/service"
)

type ProgramHandler struct {
	programService *service.ProgramService
}

func NewProgramHandler(programService *service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

func (h *ProgramHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.ProgramInput
	err := decodeJSON(w, r, &in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	program, err := h.programService.Create(r.Context(), user.ID, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.Info("program created", "user_id", user.ID, "program_id", program.ID)
	writeJSON(w, http.StatusCreated, program)
}

func (h *ProgramHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	page, err := pageFromQuery(r, repository.DefaultLimit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	programs, err := h.programService.List(r.Context(), user.ID, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, programs)
}

func (h *ProgramHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	program, err := h.programService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, program)
}

func (h *ProgramHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	programID := r.PathValue("id")

	err := h.programService.Delete(r.Context(), user.ID, programID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.Info("program deleted", "user_id", user.ID, "program_id", programID)
	w.WriteHeader(http.StatusNoContent)
}
