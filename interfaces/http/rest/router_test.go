package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skinsight/application/services"
	infracatalog "skinsight/infrastructure/catalog"
	"skinsight/infrastructure/config"
	"skinsight/infrastructure/persistence/memory"
	"skinsight/infrastructure/persistence/sqlite"
	"skinsight/pkg/auth"
	"skinsight/pkg/observability"
)

// Seed catalog products used throughout: the retinol serum carries
// {retinoid}, the C15 booster {vitamin c, vitamin e}.
const (
	retinolID = "the-ordinary-retinol-0-5-in-squalane"
	vitCID    = "paulas-choice-c15-super-booster"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type graphData struct {
	View     string `json:"view"`
	Elements []struct {
		Data struct {
			ID     string `json:"id"`
			Label  string `json:"label"`
			Source string `json:"source"`
			Target string `json:"target"`
		} `json:"data"`
	} `json:"elements"`
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()

	users, err := sqlite.NewUserStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = users.Close() })

	sessions := memory.NewSessionStore()

	dataset, err := infracatalog.Load("", logger)
	require.NoError(t, err)

	tables, err := config.NewTableWatcher("", logger)
	require.NoError(t, err)
	t.Cleanup(tables.Stop)

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	router := NewRouter(
		services.NewAccountService(users, sessions, tokens, logger),
		services.NewRoutineService(users, sessions, logger),
		services.NewInsightsService(sessions, dataset, tables, logger),
		services.NewCatalogService(dataset),
		tokens,
		sessions,
		observability.NewMetrics(),
		false,
		logger,
	)
	return router.Setup()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any, cookies []*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func register(t *testing.T, handler http.Handler, username, password string) []*http.Cookie {
	t.Helper()
	rec, _ := doJSON(t, handler, http.MethodPost, "/api/v1/auth/register",
		map[string]string{"username": username, "password": password}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func TestHealthAndReady(t *testing.T) {
	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	handler := newTestHandler(t)

	for _, path := range []string{"/api/v1/routine", "/api/v1/products/search", "/api/v1/insights/graph"} {
		rec, env := doJSON(t, handler, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.False(t, env.Success)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	handler := newTestHandler(t)
	register(t, handler, "alice", "hunter2")

	rec, env := doJSON(t, handler, http.MethodPost, "/api/v1/auth/register",
		map[string]string{"username": "alice", "password": "other"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "User alice is already registered.", env.Error.Message)
}

func TestRegisterValidation(t *testing.T) {
	handler := newTestHandler(t)

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/v1/auth/register",
		map[string]string{"username": "", "password": "pw"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, handler, http.MethodPost, "/api/v1/auth/register",
		map[string]string{"username": "bob", "password": ""}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoutineSubmitAndReadBack(t *testing.T) {
	handler := newTestHandler(t)
	cookies := register(t, handler, "alice", "hunter2")

	// Fresh account has an empty routine.
	rec, env := doJSON(t, handler, http.MethodGet, "/api/v1/routine", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"routine":[]}`, string(env.Data))

	submission := map[string]any{
		"routine": []map[string]any{
			{"section": "", "products": []string{retinolID, ""}},
			{"section": "PM", "products": []string{vitCID}},
		},
	}
	rec, env = doJSON(t, handler, http.MethodPut, "/api/v1/routine", submission, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Routine []struct {
			Title    string   `json:"title"`
			Products []string `json:"products"`
		} `json:"routine"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.Len(t, resp.Routine, 2)
	assert.Equal(t, "Unnamed step", resp.Routine[0].Title)
	assert.Equal(t, []string{retinolID}, resp.Routine[0].Products)
	assert.Equal(t, "PM", resp.Routine[1].Title)
}

func TestRoutineSurvivesSignOutViaPersistence(t *testing.T) {
	handler := newTestHandler(t)
	cookies := register(t, handler, "alice", "hunter2")

	submission := map[string]any{
		"routine": []map[string]any{{"section": "AM", "products": []string{retinolID}}},
	}
	rec, _ := doJSON(t, handler, http.MethodPut, "/api/v1/routine", submission, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, handler, http.MethodPost, "/api/v1/auth/sign-out", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	// The session copy is gone.
	rec, _ = doJSON(t, handler, http.MethodGet, "/api/v1/routine", nil, cookies)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Signing back in restores the mirror from the persisted record.
	rec, _ = doJSON(t, handler, http.MethodPost, "/api/v1/auth/sign-in",
		map[string]string{"username": "alice", "password": "hunter2"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies = rec.Result().Cookies()

	rec, env := doJSON(t, handler, http.MethodGet, "/api/v1/routine", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), retinolID)
}

func TestSignInWrongPassword(t *testing.T) {
	handler := newTestHandler(t)
	register(t, handler, "alice", "hunter2")

	rec, env := doJSON(t, handler, http.MethodPost, "/api/v1/auth/sign-in",
		map[string]string{"username": "alice", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Incorrect password.", env.Error.Message)

	rec, env = doJSON(t, handler, http.MethodPost, "/api/v1/auth/sign-in",
		map[string]string{"username": "nobody", "password": "pw"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Incorrect username.", env.Error.Message)
}

func TestInsightsGraphViews(t *testing.T) {
	handler := newTestHandler(t)
	cookies := register(t, handler, "alice", "hunter2")

	submission := map[string]any{
		"routine": []map[string]any{
			{"section": "AM", "products": []string{retinolID}},
			{"section": "PM", "products": []string{vitCID}},
		},
	}
	rec, _ := doJSON(t, handler, http.MethodPut, "/api/v1/routine", submission, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	// Conflict view: two nodes then both directed edges.
	rec, env := doJSON(t, handler, http.MethodGet, "/api/v1/insights/graph?view=conflicts", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var graph graphData
	require.NoError(t, json.Unmarshal(env.Data, &graph))
	assert.Equal(t, "conflicts", graph.View)
	require.Len(t, graph.Elements, 4)
	assert.Equal(t, retinolID, graph.Elements[0].Data.ID)
	assert.Equal(t, vitCID, graph.Elements[1].Data.ID)

	forward := graph.Elements[2]
	assert.Equal(t, retinolID, forward.Data.Source)
	assert.Equal(t, vitCID, forward.Data.Target)
	assert.Equal(t, retinolID+vitCID, forward.Data.ID)
	assert.Contains(t, []string{"retinoid", "vitamin c", "benzoyl peroxide", "aha", "bha"}, forward.Data.Label)

	backward := graph.Elements[3]
	assert.Equal(t, vitCID, backward.Data.Source)
	assert.Equal(t, retinolID, backward.Data.Target)

	// Synergy view over the same routine: nodes only (vitamin c and
	// vitamin e synergize but live in the same product).
	rec, env = doJSON(t, handler, http.MethodGet, "/api/v1/insights/graph?view=synergies", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &graph))
	assert.Equal(t, "synergies", graph.View)
	assert.Len(t, graph.Elements, 2)

	// Unknown view falls back to conflicts.
	rec, env = doJSON(t, handler, http.MethodGet, "/api/v1/insights/graph?view=bogus", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &graph))
	assert.Equal(t, "conflicts", graph.View)
}

func TestInsightsEmptyRoutine(t *testing.T) {
	handler := newTestHandler(t)
	cookies := register(t, handler, "alice", "hunter2")

	rec, env := doJSON(t, handler, http.MethodGet, "/api/v1/insights/graph", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var graph graphData
	require.NoError(t, json.Unmarshal(env.Data, &graph))
	assert.Empty(t, graph.Elements)
}

func TestProductSearch(t *testing.T) {
	handler := newTestHandler(t)
	cookies := register(t, handler, "alice", "hunter2")

	rec, env := doJSON(t, handler, http.MethodGet, "/api/v1/products/search?query=cerave", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Products []string `json:"products"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Len(t, resp.Products, 2)

	rec, env = doJSON(t, handler, http.MethodGet, "/api/v1/products/search?query=", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Empty(t, resp.Products)
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
