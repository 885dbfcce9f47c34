package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"practice_tracker/internal/common"
	"practice_tracker/internal/platform/logging"

	"github.com/stretchr/testify/assert"
)

type stubIdentity struct {
	id  string
	err error
}

func (s stubIdentity) UserID(*http.Request) (string, error) { return s.id, s.err }

func TestAuthenticator(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	Authenticator(stubIdentity{id: "user_1"}, logging.Nop())(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "user_1", seen)

	for _, idp := range []stubIdentity{
		{err: errors.Join(errors.New("token expired"), common.ErrUnauthorized)},
		{id: ""},
	} {
		rec := httptest.NewRecorder()
		Authenticator(idp, logging.Nop())(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	}
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	_, ok := GetUserIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
