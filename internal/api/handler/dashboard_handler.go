package handler

import (
	"fmt"
	"net/http"

	"practice_tracker/internal/app/service"
	"practice_tracker/internal/common"
	"practice_tracker/internal/platform/logging"

	"github.com/go-chi/chi/v5"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	problemService   *service.ProblemService
	log              logging.Logger
}

func NewDashboardHandler(ds *service.DashboardService, ps *service.ProblemService, log logging.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: ds, problemService: ps, log: log}
}

type normalizeURLsResponse struct {
	Message      string `json:"message"`
	UpdatedCount int    `json:"updatedCount"`
}

func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/stats", h.getStats)
	r.Post("/normalize-urls", h.normalizeURLs)
}

func (h *DashboardHandler) getStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrReject(w, r)
	if !ok {
		return
	}
	stats, err := h.dashboardService.GetStats(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *DashboardHandler) normalizeURLs(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrReject(w, r)
	if !ok {
		return
	}
	n, err := h.problemService.NormalizeURLs(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, r, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, normalizeURLsResponse{
		Message:      fmt.Sprintf("Normalized %d URLs", n),
		UpdatedCount: n,
	})
}
