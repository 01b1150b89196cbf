package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"coursepick/internal/api/controllers"
	"coursepick/internal/clients/recommender"
	"coursepick/internal/config"
	"coursepick/internal/models/db_models"
	"coursepick/internal/models/request_models"
	"coursepick/internal/services"
	mem "coursepick/pkg/memcache"
	"coursepick/pkg/metrics"
	"coursepick/pkg/middleware"
)

type historyRepo struct {
	mu   sync.Mutex
	rows []db_models.Submission
}

func (h *historyRepo) CreateSubmission(_ context.Context, s *db_models.Submission) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rows = append(h.rows, *s)
	return nil
}

func (h *historyRepo) ListSubmissions(_ context.Context, sessionID string, page, pageSize int) ([]db_models.Submission, int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rows := []db_models.Submission{}
	for _, row := range h.rows {
		if row.SessionID == sessionID {
			rows = append(rows, row)
		}
	}
	return rows, int64(len(rows)), nil
}

type testApp struct {
	router   *gin.Engine
	payloads chan map[string]any
	cookie   *http.Cookie
	history  *historyRepo
}

// visitor shares the app's router but starts without a session cookie.
func (a *testApp) visitor() *testApp {
	return &testApp{router: a.router, payloads: a.payloads, history: a.history}
}

const scheduleReply = `{
	"schedule": {
		"2": [{"name": "统计学", "credits": 2, "teacher": "李老师"}],
		"1": {"total_credits": 3, "courses": [{"name": "会计学", "credits": 3, "subject_category": ["财务分析"]}]}
	},
	"message": "推荐完成"
}`

func newTestApp(t *testing.T, handler http.HandlerFunc) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := &testApp{payloads: make(chan map[string]any, 8), history: &historyRepo{}}
	if handler == nil {
		handler = func(w http.ResponseWriter, r *http.Request) {
			var p map[string]any
			_ = json.NewDecoder(r.Body).Decode(&p)
			app.payloads <- p
			_, _ = io.WriteString(w, scheduleReply)
		}
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	store := mem.NewFormSessions()
	client := recommender.New(srv.URL, 0, recommender.DefaultRetryConfig(), nil)

	formSvc := services.NewFormService(store, time.Hour, m, nil)
	recSvc := services.NewRecommendationService(client, store, app.history, services.RecommendationServiceConfig{
		SplitMode:  config.SplitModePunctuation,
		SessionTTL: time.Hour,
		LockTTL:    time.Minute,
	}, m, nil)

	app.router = NewRouter(RouterConfig{CORSAllowOrigin: "*", SessionTTL: time.Hour}, Controllers{
		Page:       controllers.NewPageController(formSvc, recSvc, nil),
		Form:       controllers.NewFormController(formSvc),
		Recommend:  controllers.NewRecommendController(recSvc),
		Export:     controllers.NewExportController(services.NewExportService(recSvc, m)),
		Submission: controllers.NewSubmissionController(services.NewSubmissionService(app.history, nil)),
		Health:     controllers.NewHealthController(),
	}, m, reg, zap.NewNop())
	return app
}

func (a *testApp) do(t *testing.T, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			a.cookie = c
		}
	}
	return rec
}

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	TraceID string          `json:"trace_id"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestPageRoundTrip(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.NotNil(t, app.cookie)

	form := url.Values{
		"current_grade":       {"2"},
		"current_semester":    {"1"},
		"completed_courses":   {"高等数学，线性代数"},
		"planning_type":       {"Minimal Effort"},
		"upperbound_credits":  {"16"},
		"internship_semester": {"3"},
		"preferred_subjects":  {"财务分析", "市场营销"},
	}
	rec = app.do(t, http.MethodPost, "/", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusOK, rec.Code)

	html := rec.Body.String()
	assert.Equal(t, 2, strings.Count(html, `<table class="semester"`))
	assert.Less(t, strings.Index(html, `data-semester="1"`), strings.Index(html, `data-semester="2"`))
	assert.Contains(t, html, "推荐完成")

	p := <-app.payloads
	assert.Equal(t, []any{"高等数学", "线性代数"}, p["completed_courses"])
	assert.Nil(t, p["internship_semester"])
	assert.NotContains(t, p, "target_credits_per_semester")
	assert.Equal(t, []any{"财务分析", "市场营销"}, p["preferred_subjects"])

	rec = app.do(t, http.MethodGet, "/", "", "")
	assert.Contains(t, rec.Body.String(), "推荐完成")
}

func TestPageShowsRecommenderErrorOnly(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error": "学分上限过低"}`)
	})

	rec := app.do(t, http.MethodPost, "/", "application/x-www-form-urlencoded", "current_grade=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="result-error">学分上限过低<`)
	assert.NotContains(t, rec.Body.String(), `<table class="semester"`)
}

func TestPageRejectsBadPost(t *testing.T) {
	app := newTestApp(t, nil)
	rec := app.do(t, http.MethodPost, "/", "application/x-www-form-urlencoded", "upperbound_credits=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="notice"`)
	assert.Empty(t, app.payloads)
}

func TestFormAPI(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodGet, "/api/options", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.NotEmpty(t, env.TraceID)

	rec = app.do(t, http.MethodPatch, "/api/form/fields", "application/json", `{"name": "internship", "value": "true"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(t, http.MethodPatch, "/api/form/fields", "application/json", `{"name": "internship_semester", "value": "6"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodPatch, "/api/form/fields", "application/json", `{"name": "gpa", "value": "4"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", decode(t, rec).Status)

	for i, tag := range request_models.Subjects[:4] {
		rec = app.do(t, http.MethodPost, "/api/form/subjects/toggle", "application/json", `{"subject": "`+tag+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var res struct {
			Changed bool `json:"changed"`
		}
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &res))
		assert.Equal(t, i < 3, res.Changed, tag)
	}

	rec = app.do(t, http.MethodGet, "/api/form", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var form struct {
		State request_models.FormState `json:"state"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &form))
	assert.True(t, form.State.Internship)
	assert.Equal(t, 6, *form.State.InternshipSemester)
	assert.Equal(t, request_models.Subjects[:3], form.State.PreferredSubjects)

	rec = app.do(t, http.MethodPost, "/api/recommend", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	p := <-app.payloads
	assert.Equal(t, float64(6), p["internship_semester"])

	rec = app.do(t, http.MethodGet, "/api/schedule/export?format=csv", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "schedule.csv")
	assert.Contains(t, rec.Body.String(), "会计学")

	rec = app.do(t, http.MethodGet, "/api/schedule/export?format=xlsx", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")

	rec = app.do(t, http.MethodPost, "/api/form/reset", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(t, http.MethodGet, "/api/schedule/export", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecommendWithBody(t *testing.T) {
	app := newTestApp(t, nil)

	body := `{"current_grade": 3, "current_semester": 2, "completed_courses": ["会计学"],
		"planning_type": "Balanced Workload", "target_credits_per_semester": 12,
		"preferred_subjects": [], "upperbound_credits": 18}`
	rec := app.do(t, http.MethodPost, "/api/recommend", "application/json", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var outcome struct {
		Message   string `json:"message"`
		Semesters []struct {
			Label string `json:"label"`
		} `json:"semesters"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &outcome))
	assert.Equal(t, "推荐完成", outcome.Message)
	require.Len(t, outcome.Semesters, 2)
	assert.Equal(t, "1", outcome.Semesters[0].Label)

	p := <-app.payloads
	assert.Equal(t, float64(12), p["target_credits_per_semester"])
	assert.Equal(t, []any{"会计学"}, p["completed_courses"])
}

func TestRecommendInvalidBody(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodPost, "/api/recommend", "application/json", `{"current_grade": 9, "planning_type": "Minimal Effort", "upperbound_credits": 15, "current_semester": 1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode(t, rec)
	assert.Contains(t, env.Message, "current_grade")
	assert.Contains(t, string(env.Data), services.InvalidFormMessage)
}

func TestRecommendNetworkFailure(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>oops</html>")
	})

	rec := app.do(t, http.MethodPost, "/api/recommend", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var outcome struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &outcome))
	assert.Equal(t, services.NetworkErrorMessage, outcome.Error)
}

func TestSubmissionsAndOps(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodGet, "/api/submissions?page=1&pageSize=5", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/submissions?pageSize=500", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestSubmissionsAreScopedToSession(t *testing.T) {
	alice := newTestApp(t, nil)

	rec := alice.do(t, http.MethodPatch, "/api/form/fields", "application/json", `{"name": "completed_courses", "value": "私密课程"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = alice.do(t, http.MethodPost, "/api/recommend", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	<-alice.payloads
	require.NotNil(t, alice.cookie)

	rec = alice.do(t, http.MethodGet, "/api/submissions", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items []map[string]any `json:"items"`
		Total int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &page))
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "success", page.Items[0]["status"])
	assert.NotContains(t, page.Items[0], "session_id")
	assert.NotContains(t, rec.Body.String(), alice.cookie.Value)

	bob := alice.visitor()
	rec = bob.do(t, http.MethodGet, "/api/submissions", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &page))
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Items)
	assert.NotContains(t, rec.Body.String(), alice.cookie.Value)
	require.NotNil(t, bob.cookie)
	assert.NotEqual(t, alice.cookie.Value, bob.cookie.Value)
}
