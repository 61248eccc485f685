// Package api is the data access layer for the explanation visualizer backend.
//
// Every endpoint answers with the same envelope:
//
//	{"message": "...", "data": <payload>, "errors": [...]}
//
// The client returns the decoded data payload. Non-2xx responses become *Error
// carrying the raw response body so callers can surface the server's payload.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"xaidash/internal/jsonutil"
)

const (
	// DefaultBaseURL is the backend address used when none is configured.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	// maxResponseSize caps how much of a response body is read.
	maxResponseSize = 32 * 1024 * 1024
)

// ErrEmptyBaseURL is returned by NewClient when no base URL is given.
var ErrEmptyBaseURL = errors.New("api: base URL is empty")

// Envelope is the common response wrapper of the backend.
type Envelope[T any] struct {
	Message string          `json:"message"`
	Data    T               `json:"data"`
	Errors  json.RawMessage `json:"errors,omitempty"`
}

// ProjectRecord is a project as listed by the backend.
type ProjectRecord struct {
	ID          string             `json:"id"`
	Experiments []ExperimentRecord `json:"experiments"`
}

// ExperimentRecord is an experiment entry inside a ProjectRecord.
type ExperimentRecord struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Error is a non-2xx answer from the backend.
type Error struct {
	Method  string
	Path    string
	Status  int
	Payload json.RawMessage // raw response body
}

// Error implements the error interface.
func (e *Error) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("api: %s %s returned %d: %s", e.Method, e.Path, e.Status, msg)
	}
	return fmt.Sprintf("api: %s %s returned %d", e.Method, e.Path, e.Status)
}

// Message returns the envelope's "message" field when the payload has one.
func (e *Error) Message() string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Payload, &env); err != nil {
		return ""
	}
	return env.Message
}

// Client talks to the backend over HTTP.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit paces requests to at most rps per second.
// A non-positive rps disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrEmptyBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parse base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: base URL %q must be http or https", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListProjects fetches every project with its experiment list.
func (c *Client) ListProjects(ctx context.Context) ([]ProjectRecord, error) {
	var env Envelope[[]ProjectRecord]
	if err := c.get(ctx, "projects", &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// ListModels fetches the models of a project, in experiment order.
func (c *Client) ListModels(ctx context.Context, projectID string) ([]json.RawMessage, error) {
	var env Envelope[[]json.RawMessage]
	if err := c.get(ctx, "projects/"+url.PathEscape(projectID)+"/models", &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// ListInputs fetches the serialized input samples of an experiment.
func (c *Client) ListInputs(ctx context.Context, projectID, experimentID string) ([]string, error) {
	var env Envelope[[]string]
	path := "projects/" + url.PathEscape(projectID) + "/experiments/" + url.PathEscape(experimentID) + "/inputs"
	if err := c.get(ctx, path, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// get issues GET {base}/api/{path}/ and decodes the body into v.
func (c *Client) get(ctx context.Context, path string, v interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	// path segments are already escaped by the callers.
	endpoint := c.baseURL.String() + "/api/" + path + "/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: GET /api/%s/: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("api: read /api/%s/: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("api.get: GET /api/%s/ returned status %d", path, resp.StatusCode)
		return &Error{
			Method:  http.MethodGet,
			Path:    "/api/" + path + "/",
			Status:  resp.StatusCode,
			Payload: json.RawMessage(body),
		}
	}

	return jsonutil.UnmarshalWithContext(body, v, "api: decode /api/"+path+"/")
}
