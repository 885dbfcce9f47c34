package middleware

import (
	"context"
	"net/http"

	"practice_tracker/internal/common"
	"practice_tracker/internal/common/security"
	"practice_tracker/internal/platform/logging"
)

type contextKey string

const UserIDCtxKey contextKey = "userID"

// Authenticator resolves the caller through idp and stores the user id in
// the request context. Unresolved callers get 401 without detail.
func Authenticator(idp security.IdentityProvider, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := idp.UserID(r)
			if err != nil || userID == "" {
				log.Debugf("unauthorized %s %s: %v", r.Method, r.URL.Path, err)
				common.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok && userID != ""
}
