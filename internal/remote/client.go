package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.todoist.com/rest/v2"
	defaultTimeout = 10 * time.Second
)

// Source fetches and completes remote tasks.
type Source interface {
	FetchTasks(ctx context.Context) ([]Task, error)
	CompleteTask(ctx context.Context, id string) error
}

// Client talks to the Todoist REST API.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		token:   strings.TrimSpace(token),
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

type project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FetchTasks returns every active task with ProjectName resolved. A failed
// project lookup leaves names empty rather than failing the fetch.
func (c *Client) FetchTasks(ctx context.Context) ([]Task, error) {
	names := map[string]string{}
	var projects []project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err == nil {
		for _, p := range projects {
			names[p.ID] = p.Name
		}
	} else if ctx.Err() != nil {
		return nil, err
	}

	var tasks []Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].ProjectName = names[tasks[i].ProjectID]
	}
	return tasks, nil
}

func (c *Client) CompleteTask(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: task id required", ErrUnavailable)
	}
	return c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/close", nil, nil)
}

type addTaskRequest struct {
	Content   string `json:"content"`
	ProjectID string `json:"project_id,omitempty"`
	Priority  int    `json:"priority,omitempty"`
}

// AddTask creates a task. Empty projectID means the inbox; priority 0 keeps
// the server default.
func (c *Client) AddTask(ctx context.Context, content, projectID string, priority int) (Task, error) {
	body, err := json.Marshal(addTaskRequest{Content: content, ProjectID: projectID, Priority: priority})
	if err != nil {
		return Task{}, fmt.Errorf("marshal task: %w", err)
	}
	var task Task
	if err := c.do(ctx, http.MethodPost, "/tasks", body, &task); err != nil {
		return Task{}, err
	}
	return task, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	if c.token == "" {
		return fmt.Errorf("%w: api token not set", ErrUnavailable)
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrUnavailable, method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, path, err)
	}
	return nil
}
