package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/benvon/simple-todo/internal/models"
)

// DefaultBaseURL is the server the client talks to when none is configured
const DefaultBaseURL = "http://localhost:8080"

const todosPath = "/api/todos"

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("todo api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("todo api returned status %d: %s", e.StatusCode, e.Message)
}

// StatusCode extracts the HTTP status from err, or 0 when err is not an *APIError
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Client calls the todo HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Without it requests are bounded only by ctx
// and the transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a client for the server at baseURL
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server the client is bound to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UpdateRequest is the body of an update. Nil fields are omitted from the request.
type UpdateRequest struct {
	ID    string  `json:"id"`
	Done  *bool   `json:"done,omitempty"`
	Title *string `json:"title,omitempty"`
}

// List fetches every todo, newest first
func (c *Client) List(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if err := c.do(ctx, http.MethodGet, todosPath, nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

// Create adds a todo with the given title
func (c *Client) Create(ctx context.Context, title string) (*models.Todo, error) {
	var todo models.Todo
	body := struct {
		Title string `json:"title"`
	}{Title: title}
	if err := c.do(ctx, http.MethodPost, todosPath, body, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// Update applies req to the todo it names
func (c *Client) Update(ctx context.Context, req UpdateRequest) (*models.Todo, error) {
	var todo models.Todo
	if err := c.do(ctx, http.MethodPut, todosPath, req, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// Delete removes one todo
func (c *Client) Delete(ctx context.Context, id string) error {
	body := struct {
		ID string `json:"id"`
	}{ID: id}
	var resp models.DeleteResponse
	return c.do(ctx, http.MethodDelete, todosPath, body, &resp)
}

// DeleteAll removes every todo and returns how many were deleted
func (c *Client) DeleteAll(ctx context.Context) (int64, error) {
	var resp models.DeleteResponse
	if err := c.do(ctx, http.MethodDelete, todosPath+"?all=true", nil, &resp); err != nil {
		return 0, err
	}
	if resp.DeletedCount == nil {
		return 0, nil
	}
	return *resp.DeletedCount, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody models.ErrorBody
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
