package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchTasksResolvesProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/projects":
			_, _ = w.Write([]byte(`[{"id":"p1","name":"Work"},{"id":"p2","name":"Someday/Maybe"}]`))
		case "/tasks":
			_, _ = w.Write([]byte(`[
				{"id":"1","content":"ship it","description":"","priority":4,
				 "due":{"date":"2026-03-10","datetime":"2026-03-10T09:00:00","is_recurring":false,"string":"today 9am"},
				 "labels":["work"],"project_id":"p1","created_at":"2026-03-01T10:00:00.000000Z","order":1},
				{"id":"2","content":"idea","priority":1,"due":null,"labels":[],"project_id":"p9","created_at":"2026-03-02T10:00:00.000000Z","order":2}
			]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tasks, err := NewClient("secret", srv.URL+"/").FetchTasks(context.Background())

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Work", tasks[0].ProjectName)
	assert.Equal(t, 4, tasks[0].Priority)
	require.NotNil(t, tasks[0].Due)
	assert.True(t, tasks[0].Due.HasTime())
	assert.Equal(t, "today 9am", tasks[0].Due.String)
	assert.Equal(t, []string{"work"}, tasks[0].Labels)
	assert.Empty(t, tasks[1].ProjectName)
	assert.Nil(t, tasks[1].Due)
}

func TestFetchTasksSurvivesProjectFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/projects" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"id":"1","content":"a","priority":1,"project_id":"p1"}]`))
	}))
	defer srv.Close()

	tasks, err := NewClient("secret", srv.URL).FetchTasks(context.Background())

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Empty(t, tasks[0].ProjectName)
}

func TestFetchTasksErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path == "/projects" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient("", srv.URL).FetchTasks(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Zero(t, calls.Load(), "no request without a token")

	_, err = NewClient("secret", srv.URL).FetchTasks(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "500")
}

func TestCompleteTaskPostsClose(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	c := NewClient("secret", srv.URL)

	require.NoError(t, c.CompleteTask(context.Background(), "123"))
	assert.Equal(t, "/tasks/123/close", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)

	assert.ErrorIs(t, c.CompleteTask(context.Background(), " "), ErrUnavailable)
}

func TestAddTaskSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "buy milk", body["content"])
		assert.Equal(t, float64(3), body["priority"])
		assert.NotContains(t, body, "project_id")
		_, _ = w.Write([]byte(`{"id":"77","content":"buy milk","priority":3,"project_id":"inbox"}`))
	}))
	defer srv.Close()

	task, err := NewClient("secret", srv.URL).AddTask(context.Background(), "buy milk", "", 3)

	require.NoError(t, err)
	assert.Equal(t, "77", task.ID)
	assert.Equal(t, "inbox", task.ProjectID)
}

func TestClientHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient("secret", srv.URL).FetchTasks(ctx)

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
