package handler

import (
	"net/http"

	"practice_tracker/internal/api/middleware"
	"practice_tracker/internal/app/service"
	"practice_tracker/internal/common"
	"practice_tracker/internal/platform/logging"

	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	problemService *service.ProblemService
	log            logging.Logger
}

func NewProblemHandler(ps *service.ProblemService, log logging.Logger) *ProblemHandler {
	return &ProblemHandler{problemService: ps, log: log}
}

// RegisterRoutes expects to be mounted at /problems behind the
// authenticator.
func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProblems)
	r.Post("/", h.createProblem)
	r.Get("/{problemID}", h.getProblem)
	r.Put("/{problemID}", h.updateProblem)
	r.Delete("/{problemID}", h.deleteProblem)
}

func userIDOrReject(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return userID, ok
}

func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrReject(w, r)
	if !ok {
		return
	}
	problems, err := h.problemService.ListProblems(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problems)
}

func (h *ProblemHandler) createProblem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrReject(w, r)
	if !ok {
		return
	}
	var req service.CreateProblemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	problem, err := h.problemService.CreateProblem(r.Context(), userID, req)
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, problem)
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrReject(w, r)
	if !ok {
		return
	}
	problem, err := h.problemService.GetProblem(r.Context(), userID, chi.URLParam(r, "problemID"))
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func (h *ProblemHandler) updateProblem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrReject(w, r)
	if !ok {
		return
	}
	var req service.UpdateProblemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	problem, err := h.problemService.UpdateProblem(r.Context(), userID, chi.URLParam(r, "problemID"), req)
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func (h *ProblemHandler) deleteProblem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrReject(w, r)
	if !ok {
		return
	}
	if err := h.problemService.DeleteProblem(r.Context(), userID, chi.URLParam(r, "problemID")); err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Problem deleted successfully")
}
