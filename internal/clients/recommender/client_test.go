package recommender

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursepick/internal/models/request_models"
	"coursepick/pkg/utils"
)

func testPayload() request_models.RecommendPayload {
	return request_models.RecommendPayload{
		CurrentGrade:      2,
		CurrentSemester:   1,
		CompletedCourses:  []string{"高等数学"},
		PlanningType:      request_models.PlanningMinimalEffort,
		PreferredSubjects: []string{},
		UpperboundCredits: 15,
	}
}

func TestRecommendPostsJSON(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(b, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"schedule": {"3": [{"name": "会计学", "credits": 3}]}, "message": "ok"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, DefaultRetryConfig(), nil)
	resp, err := c.Recommend(context.Background(), testPayload())
	require.NoError(t, err)

	assert.Equal(t, "ok", resp.Message)
	require.Contains(t, resp.Schedule, "3")
	assert.Equal(t, "会计学", resp.Schedule["3"].Courses[0].Name)

	assert.Equal(t, float64(2), got["current_grade"])
	assert.Equal(t, []any{"高等数学"}, got["completed_courses"])
	assert.Contains(t, got, "internship_semester")
	assert.Nil(t, got["internship_semester"])
	assert.NotContains(t, got, "target_credits_per_semester")
}

func TestRecommendErrorBodyOnFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Invalid input"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, DefaultRetryConfig(), nil)
	resp, err := c.Recommend(context.Background(), testPayload())
	require.NoError(t, err)
	assert.Equal(t, "Invalid input", resp.Error)
}

func TestRecommendUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<html><body>Internal Server Error</body></html>`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, DefaultRetryConfig(), nil)
	_, err := c.Recommend(context.Background(), testPayload())
	assert.ErrorIs(t, err, utils.ErrUndecodableResponse)
}

func TestRecommendTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, 0, DefaultRetryConfig(), nil)
	_, err := c.Recommend(context.Background(), testPayload())
	assert.ErrorIs(t, err, utils.ErrRecommenderUnavailable)
}

func TestRecommendSendsOnceByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, 0, DefaultRetryConfig(), nil)
	_, err := c.Recommend(context.Background(), testPayload())
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRecommendRetriesWhenConfigured(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"schedule": {}, "message": "third time"}`))
	}))
	defer srv.Close()

	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = 3
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond

	c := New(srv.URL, 0, cfg, nil)
	resp, err := c.Recommend(context.Background(), testPayload())
	require.NoError(t, err)
	assert.Equal(t, "third time", resp.Message)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRecommendDoesNotRetryApplicationError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": "solver busy"}`))
	}))
	defer srv.Close()

	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = 4
	cfg.BaseDelay = time.Millisecond

	c := New(srv.URL, 0, cfg, nil)
	resp, err := c.Recommend(context.Background(), testPayload())
	require.NoError(t, err)
	assert.Equal(t, "solver busy", resp.Error)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestParseRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	assert.Equal(t, time.Duration(0), ParseRetryAfter(resp))

	resp.Header.Set("Retry-After", "2")
	assert.Equal(t, 2*time.Second, ParseRetryAfter(resp))

	resp.Header.Set("Retry-After", "garbage")
	assert.Equal(t, time.Duration(0), ParseRetryAfter(resp))
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", snippet([]byte("  short  "), 10))
	assert.Equal(t, "abc…", snippet([]byte("abcdef"), 3))
}
