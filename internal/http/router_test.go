package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/force-backend/internal/data/repos"
	"github.com/yungbote/force-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/force-backend/internal/http/handlers"
	httpMW "github.com/yungbote/force-backend/internal/http/middleware"
	"github.com/yungbote/force-backend/internal/modules/generation"
	"github.com/yungbote/force-backend/internal/modules/generation/prompts"
	"github.com/yungbote/force-backend/internal/observability"
	"github.com/yungbote/force-backend/internal/platform/googleauth"
	"github.com/yungbote/force-backend/internal/platform/openai"
	"github.com/yungbote/force-backend/internal/platform/sessionstore"
	"github.com/yungbote/force-backend/internal/services"
)

type cannedLLM struct {
	calls  atomic.Int32
	answer string
}

func (l *cannedLLM) Complete(context.Context, openai.Request) (string, error) {
	l.calls.Add(1)
	if l.answer == "" {
		return "", &openai.Error{Kind: openai.KindServiceUnavailable, StatusCode: 503}
	}
	return l.answer, nil
}

type staticIdentity struct{ profile googleauth.Profile }

func (s staticIdentity) Exchange(context.Context, string, string) (*googleauth.Profile, error) {
	p := s.profile
	return &p, nil
}

// countingStore fails the test if a request reaches revocation storage.
type countingStore struct {
	sessionstore.Store
	hits atomic.Int32
}

func (s *countingStore) IsRevoked(ctx context.Context, id string) (bool, error) {
	s.hits.Add(1)
	return s.Store.IsRevoked(ctx, id)
}

type testServer struct {
	router *gin.Engine
	llm    *cannedLLM
	store  *countingStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	metrics := observability.New()
	reg, err := prompts.Default()
	require.NoError(t, err)

	llm := &cannedLLM{}
	engine := generation.NewEngine(llm, reg, log, metrics)
	store := &countingStore{Store: sessionstore.NewMemoryStore()}

	userRepo := repos.NewUserRepo(db, log)
	itemRepo := repos.NewGrowthItemRepo(db, log)
	skillRepo := repos.NewSkillAssessmentRepo(db, log)
	reflectionRepo := repos.NewReflectionRepo(db, log)
	sessionRepo := repos.NewMentalModelSessionRepo(db, log)

	identity := staticIdentity{profile: googleauth.Profile{ID: "g-1", Email: testutil.UniqueEmail("router"), Name: "Router Test"}}
	authService := services.NewAuthService(db, log, userRepo, identity, store, "router-secret", time.Hour)
	userService := services.NewUserService(log, userRepo)
	avatarService, err := services.NewAvatarService(log)
	require.NoError(t, err)
	growthPlans := services.NewGrowthPlanService(log, metrics, engine, skillRepo, itemRepo)
	mentalModels := services.NewMentalModelService(log, engine, sessionRepo, reflectionRepo)

	router := NewRouter(RouterConfig{
		Log:            log,
		Metrics:        metrics,
		CORSOrigins:    []string{"http://localhost:5173"},
		RateLimit:      httpMW.RateLimitConfig{RPS: 100, Burst: 100},
		AuthMiddleware: httpMW.NewAuthMiddleware(log, authService),
		AuthHandler:    httpH.NewAuthHandler(log, authService, userService, false),
		UserHandler:    httpH.NewUserHandler(userService, avatarService),
		GenerationHandler: httpH.NewGenerationHandler(
			services.NewRoleProfileService(log, engine, nil, userRepo),
			growthPlans,
			mentalModels,
		),
		GrowthHandler: httpH.NewGrowthHandler(httpH.GrowthHandlerDeps{
			GrowthPlans:  growthPlans,
			MentalModels: mentalModels,
			Skills:       services.NewSkillService(log, skillRepo),
			Reflections:  services.NewReflectionService(log, reflectionRepo),
			Progress:     services.NewProgressService(log, skillRepo, itemRepo, reflectionRepo),
		}),
		HealthHandler: httpH.NewHealthHandler(db),
	})
	return &testServer{router: router, llm: llm, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T) (string, *http.Cookie) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/google", "", map[string]string{"code": "c", "redirectUri": "http://localhost:5173/cb"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == httpMW.SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	return out.Token, cookie
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Error.Code
}

func TestUnauthenticatedRequestsTouchNothing(t *testing.T) {
	s := newTestServer(t)
	for _, r := range []struct{ method, path string }{
		{http.MethodPost, "/api/role-profile"},
		{http.MethodPost, "/api/growth-plan"},
		{http.MethodPost, "/api/mental-models"},
		{http.MethodGet, "/api/skills"},
		{http.MethodGet, "/api/progress"},
		{http.MethodPut, "/api/growth-items/status"},
	} {
		rec := s.do(t, r.method, r.path, "", map[string]string{"prompt": "x"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, r.path)
		assert.Equal(t, "unauthenticated", errorCode(t, rec))
	}
	rec := s.do(t, http.MethodGet, "/api/progress", "forged.token.value", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Zero(t, s.llm.calls.Load())
	assert.Zero(t, s.store.hits.Load())
}

func TestLoginSetsSessionCookie(t *testing.T) {
	s := newTestServer(t)
	token, cookie := s.login(t)
	assert.NotEmpty(t, token)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Router Test")

	rec = s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")

	rec = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMentalModelsEndpoint(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t)

	model := `{"name":"Inversion","explanation":"e","newPerspective":"n","keyInsight":"k","practicalAction":"p"}`
	s.llm.answer = `{"models":[` + strings.Repeat(model+",", 4) + model + `]}`
	rec := s.do(t, http.MethodPost, "/api/mental-models", token, map[string]string{"prompt": "Should I switch teams?"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session struct {
		ID     string            `json:"id"`
		Models []json.RawMessage `json:"models"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Len(t, session.Models, 5)

	rec = s.do(t, http.MethodGet, "/api/mental-models/"+session.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/mental-models/"+session.ID+"/journal", token, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/reflections?type=mental_model", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mental Models Analysis for")

	s.llm.answer = `{"models":[` + strings.Repeat(model+",", 3) + model + `]}`
	rec = s.do(t, http.MethodPost, "/api/mental-models", token, map[string]string{"prompt": "Again?"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "invalid_ai_response", errorCode(t, rec))
	assert.Contains(t, rec.Body.String(), "expected 5, got 4")

	s.llm.answer = ""
	rec = s.do(t, http.MethodPost, "/api/mental-models", token, map[string]string{"prompt": "Again?"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "upstream_unavailable", errorCode(t, rec))
}

func TestSkillsAndGrowthItems(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t)

	rec := s.do(t, http.MethodPost, "/api/skills", token, map[string]any{
		"skillId": "negotiation", "area": "Leadership", "name": "Negotiation",
		"targetLevel": 4, "currentLevel": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/skills", token, map[string]any{
		"skillId": "x", "area": "A", "name": "X", "targetLevel": 6, "currentLevel": 2,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.llm.answer = `{"growthItems":[
		{"type":"book","title":"A","description":"a"},
		{"type":"course","title":"B","description":"b"},
		{"type":"habit","title":"C","description":"c"}]}`
	rec = s.do(t, http.MethodPost, "/api/growth-plan", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var plan struct {
		GrowthItems []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"growthItems"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	require.Len(t, plan.GrowthItems, 3)
	assert.Equal(t, "pending", plan.GrowthItems[0].Status)

	id := plan.GrowthItems[0].ID
	rec = s.do(t, http.MethodPut, "/api/growth-items/status", token, map[string]string{"itemId": id, "status": "done"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPut, "/api/growth-items/"+id+"/status", token, map[string]string{"status": "finished"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPut, "/api/growth-items/not-a-uuid/status", token, map[string]string{"status": "done"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/progress", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"completedItems":1`)
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "force_http_requests_total")

	rec = s.do(t, http.MethodPost, "/api/users", "", map[string]string{"email": testutil.UniqueEmail("new"), "name": "New"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/users", "", map[string]string{"name": "No Email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_argument", errorCode(t, rec))
}
