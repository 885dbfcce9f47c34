package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"practice_tracker/internal/app/service"
	"practice_tracker/internal/common"
	"practice_tracker/internal/domain/model"
	"practice_tracker/internal/platform/logging"
)

type conflictResponse struct {
	Error           string         `json:"error"`
	ExistingProblem *model.Problem `json:"existingProblem"`
}

// respondWithServiceError writes err as JSON. Only messages the services
// marked as public reach the caller; anything unexpected is logged and
// answered with a bare 500.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error) {
	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		common.RespondWithJSON(w, http.StatusConflict, conflictResponse{
			Error:           conflict.Error(),
			ExistingProblem: conflict.Existing,
		})
		return
	}

	status := common.HTTPStatusFromError(err)
	if status == http.StatusInternalServerError {
		log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		common.RespondWithError(w, status, common.InternalErrorMessage)
		return
	}
	msg, ok := common.PublicMessage(err)
	if !ok {
		msg = http.StatusText(status)
	}
	common.RespondWithError(w, status, msg)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
