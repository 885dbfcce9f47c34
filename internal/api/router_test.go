package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"practice_tracker/internal/app/service"
	"practice_tracker/internal/common/security"
	"practice_tracker/internal/domain/model"
	"practice_tracker/internal/domain/repository/repotest"
	"practice_tracker/internal/platform/cache"
	"practice_tracker/internal/platform/config"
	"practice_tracker/internal/platform/logging"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	idp     *security.JWTIdentity
	store   *repotest.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := repotest.New()
	statsCache := cache.NewMemStatsCache(16, time.Minute)
	log := logging.Nop()
	svc := Services{
		Problems:  service.NewProblemService(store, store, store, statsCache, log),
		Attempts:  service.NewAttemptService(store, store, statsCache, log),
		Dashboard: service.NewDashboardService(store, store, statsCache, log),
	}
	idp := security.NewJWTIdentity([]byte("router-test-secret"), time.Hour)
	cfg := &config.Config{CORSAllowedOrigins: []string{"http://localhost:3000"}}
	return &testServer{t: t, handler: NewRouter(cfg, idp, svc, log), idp: idp, store: store}
}

// do sends body (marshalled unless it is a string) as user and decodes the
// JSON response into out when out is non-nil.
func (s *testServer) do(user, method, path string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		token, err := s.idp.GenerateToken(user)
		require.NoError(s.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if out != nil {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec
}

func (s *testServer) createProblem(user, url string) model.Problem {
	s.t.Helper()
	var p model.Problem
	rec := s.do(user, http.MethodPost, "/api/problems", map[string]string{"url": url}, &p)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return p
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do("", http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestUnauthorized(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/problems", "/api/problems", "/api/dashboard/stats", "/api/problems/" + uuid.NewString() + "/attempts"} {
		rec := s.do("", http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/problems", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProblemLifecycle(t *testing.T) {
	s := newTestServer(t)

	var created map[string]interface{}
	rec := s.do("alice", http.MethodPost, "/api/problems", map[string]string{
		"url":  "https://leetcode.com/problems/two-sum/?envType=daily",
		"tags": "array, hash map",
	}, &created)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "https://leetcode.com/problems/two-sum", created["url"])
	assert.Equal(t, "Two Sum", created["title"])
	assert.Equal(t, "medium", created["difficulty"])
	assert.Equal(t, "unknown", created["platform"])
	assert.Equal(t, "alice", created["userId"])
	assert.Equal(t, []interface{}{"array", "hash map"}, created["tags"])
	assert.Contains(t, created, "createdAt")
	assert.Contains(t, created, "description")
	id := created["id"].(string)

	// Both mount points serve the same data.
	var list []model.Problem
	rec = s.do("alice", http.MethodGet, "/problems", nil, &list)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	var got model.Problem
	rec = s.do("alice", http.MethodGet, "/api/problems/"+id, nil, &got)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Two Sum", got.Title)

	var updated model.Problem
	rec = s.do("alice", http.MethodPut, "/api/problems/"+id, map[string]string{
		"title": "Two Sum", "platform": "leetcode", "difficulty": "easy", "description": "classic",
	}, &updated)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "leetcode", updated.Platform)
	assert.Equal(t, model.DifficultyEasy, updated.Difficulty)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "classic", *updated.Description)

	rec = s.do("alice", http.MethodDelete, "/api/problems/"+id, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Problem deleted successfully"}`, rec.Body.String())

	rec = s.do("alice", http.MethodGet, "/api/problems/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Problem not found"}`, rec.Body.String())
}

func TestCreateProblem_Errors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("alice", http.MethodPost, "/api/problems", map[string]string{"title": "No URL"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"URL is required"}`, rec.Body.String())

	rec = s.do("alice", http.MethodPost, "/api/problems", "{not json", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	first := s.createProblem("alice", "https://leetcode.com/problems/two-sum")

	var conflict struct {
		Error           string        `json:"error"`
		ExistingProblem model.Problem `json:"existingProblem"`
	}
	rec = s.do("alice", http.MethodPost, "/api/problems", map[string]string{"url": "https://leetcode.com/problems/two-sum/#x"}, &conflict)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "You already have a problem with this URL", conflict.Error)
	assert.Equal(t, first.ID, conflict.ExistingProblem.ID)
}

func TestUpdateProblem_Errors(t *testing.T) {
	s := newTestServer(t)
	p := s.createProblem("alice", "https://x.test/a")
	s.createProblem("alice", "https://x.test/b")

	rec := s.do("alice", http.MethodPut, "/api/problems/"+p.ID, map[string]string{"title": "A"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Missing required fields"}`, rec.Body.String())

	full := map[string]string{"title": "A", "platform": "x", "difficulty": "hard"}
	rec = s.do("bob", http.MethodPut, "/api/problems/"+p.ID, full, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	full["url"] = "https://x.test/b?page=2"
	rec = s.do("alice", http.MethodPut, "/api/problems/"+p.ID, full, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "existingProblem")
}

func TestOtherUsersProblemsAreInvisible(t *testing.T) {
	s := newTestServer(t)
	p := s.createProblem("alice", "https://x.test/a")

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/problems/" + p.ID},
		{http.MethodDelete, "/api/problems/" + p.ID},
		{http.MethodGet, "/api/problems/" + p.ID + "/attempts"},
		{http.MethodPost, "/api/problems/" + p.ID + "/attempts"},
		{http.MethodGet, "/api/problems/not-a-uuid"},
	} {
		rec := s.do("bob", tc.method, tc.path, map[string]string{"status": "solved"}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.method+" "+tc.path)
	}

	var list []model.Problem
	s.do("bob", http.MethodGet, "/api/problems", nil, &list)
	assert.Empty(t, list)
	assert.True(t, strings.HasPrefix(s.do("bob", http.MethodGet, "/api/problems", nil, nil).Body.String(), "["))
}

func TestAttemptsAndDashboard(t *testing.T) {
	s := newTestServer(t)
	p := s.createProblem("alice", "https://x.test/a")
	q := s.createProblem("alice", "https://x.test/b")
	base := "/api/problems/" + p.ID + "/attempts"

	rec := s.do("alice", http.MethodPost, base, map[string]interface{}{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Status is required"}`, rec.Body.String())

	var failed map[string]interface{}
	rec = s.do("alice", http.MethodPost, base, map[string]interface{}{"status": "failed", "timeTaken": 0}, &failed)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Nil(t, failed["timeTaken"])
	assert.Equal(t, p.ID, failed["problemId"])

	var solved model.Attempt
	rec = s.do("alice", http.MethodPost, base, map[string]interface{}{"status": "solved", "timeTaken": 20, "notes": "hash map"}, &solved)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, solved.TimeTaken)
	assert.Equal(t, 20, *solved.TimeTaken)

	var attempts []model.Attempt
	rec = s.do("alice", http.MethodGet, base, nil, &attempts)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, attempts, 2)

	rec = s.do("alice", http.MethodPost, "/api/problems/"+q.ID+"/attempts", map[string]string{"status": "partial"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var stats map[string]int
	rec = s.do("alice", http.MethodGet, "/api/dashboard/stats", nil, &stats)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]int{
		"totalProblems":  2,
		"solved":         1,
		"inProgress":     1,
		"successRate":    50,
		"completedToday": 1,
	}, stats)

	// Attempt must be addressed through its own problem.
	rec = s.do("alice", http.MethodDelete, "/api/problems/"+q.ID+"/attempts/"+solved.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Attempt not found"}`, rec.Body.String())

	rec = s.do("alice", http.MethodDelete, base+"/"+solved.ID, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Attempt deleted successfully"}`, rec.Body.String())

	rec = s.do("alice", http.MethodGet, "/dashboard/stats", nil, &stats)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, stats["solved"])
	assert.Equal(t, 0, stats["completedToday"])
}

func TestNormalizeURLsEndpoint(t *testing.T) {
	s := newTestServer(t)
	raw := "https://x.test/a/?q=1"
	s.store.PutProblem(model.Problem{ID: uuid.NewString(), UserID: "alice", Title: "A", URL: &raw})

	var resp struct {
		Message      string `json:"message"`
		UpdatedCount int    `json:"updatedCount"`
	}
	rec := s.do("alice", http.MethodPost, "/api/normalize-urls", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Normalized 1 URLs", resp.Message)
	assert.Equal(t, 1, resp.UpdatedCount)
}

func TestInternalErrorsAreOpaque(t *testing.T) {
	s := newTestServer(t)
	s.store.FailNext = assert.AnError

	rec := s.do("alice", http.MethodGet, "/api/problems", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/problems", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
