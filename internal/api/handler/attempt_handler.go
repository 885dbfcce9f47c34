package handler

import (
	"net/http"

	"practice_tracker/internal/app/service"
	"practice_tracker/internal/common"
	"practice_tracker/internal/platform/logging"

	"github.com/go-chi/chi/v5"
)

type AttemptHandler struct {
	attemptService *service.AttemptService
	log            logging.Logger
}

func NewAttemptHandler(as *service.AttemptService, log logging.Logger) *AttemptHandler {
	return &AttemptHandler{attemptService: as, log: log}
}

// RegisterRoutes expects to be mounted at /problems/{problemID}/attempts.
func (h *AttemptHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listAttempts)
	r.Post("/", h.createAttempt)
	r.Delete("/{attemptID}", h.deleteAttempt)
}

func (h *AttemptHandler) listAttempts(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrReject(w, r)
	if !ok {
		return
	}
	attempts, err := h.attemptService.ListAttempts(r.Context(), userID, chi.URLParam(r, "problemID"))
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, attempts)
}

func (h *AttemptHandler) createAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrReject(w, r)
	if !ok {
		return
	}
	var req service.CreateAttemptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	attempt, err := h.attemptService.CreateAttempt(r.Context(), userID, chi.URLParam(r, "problemID"), req)
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, attempt)
}

func (h *AttemptHandler) deleteAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrReject(w, r)
	if !ok {
		return
	}
	err := h.attemptService.DeleteAttempt(r.Context(), userID, chi.URLParam(r, "problemID"), chi.URLParam(r, "attemptID"))
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Attempt deleted successfully")
}
