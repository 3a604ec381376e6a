package api

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Client issues requests against a fixed base URL. Each call is a single
// attempt; nothing is retried.
type Client struct {
	baseURL string
	http    *fasthttp.Client
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request. Zero, the default, waits indefinitely.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger attaches a diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDial replaces the dialer, e.g. with an in-memory listener in tests.
func WithDial(dial fasthttp.DialFunc) Option {
	return func(c *Client) { c.http.Dial = dial }
}

// New returns a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &fasthttp.Client{
			Name: "taskdeck",
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(email, password string) (AuthResult, error) {
	var out AuthResult
	err := c.do(fasthttp.MethodPost, "/api/auth/login", "", loginRequest{Email: email, Password: password}, &out, "Login failed")
	if err != nil {
		if IsUnauthorized(err) {
			err.(*Error).Message = "Invalid email or password"
		}
		return AuthResult{}, err
	}
	if out.Token == "" {
		return AuthResult{}, &Error{Code: CodeDecode, Message: "Login failed", Err: fmt.Errorf("response has no token")}
	}
	return out, nil
}

// Signup registers a new account and returns its bearer token.
func (c *Client) Signup(name, email, password string) (AuthResult, error) {
	var out AuthResult
	err := c.do(fasthttp.MethodPost, "/api/auth/register", "", signupRequest{Name: name, Email: email, Password: password}, &out, "Signup failed")
	if err != nil {
		return AuthResult{}, err
	}
	if out.Token == "" {
		return AuthResult{}, &Error{Code: CodeDecode, Message: "Signup failed", Err: fmt.Errorf("response has no token")}
	}
	return out, nil
}

// GetProfile returns the user the token belongs to.
func (c *Client) GetProfile(token string) (User, error) {
	var out User
	if err := c.do(fasthttp.MethodGet, "/api/auth/profile", token, nil, &out, "Failed to fetch user profile"); err != nil {
		return User{}, err
	}
	return out, nil
}

// ListTasks returns the user's tasks in server order.
func (c *Client) ListTasks(token string) ([]Task, error) {
	var out []Task
	if err := c.do(fasthttp.MethodGet, "/api/task", token, nil, &out, "Failed to fetch tasks"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Task{}
	}
	return out, nil
}

// GetTask returns a single task.
func (c *Client) GetTask(token, id string) (Task, error) {
	var out Task
	if err := c.do(fasthttp.MethodGet, taskPath(id), token, nil, &out, "Failed to fetch task"); err != nil {
		return Task{}, err
	}
	return out, nil
}

// CreateTask creates a task and returns the server's representation.
func (c *Client) CreateTask(token string, in TaskInput) (Task, error) {
	var out Task
	if err := c.do(fasthttp.MethodPost, "/api/task", token, in, &out, "Failed to create task"); err != nil {
		return Task{}, err
	}
	return out, nil
}

// UpdateTask replaces a task's title and description.
func (c *Client) UpdateTask(token, id string, in TaskInput) (Task, error) {
	var out Task
	if err := c.do(fasthttp.MethodPut, taskPath(id), token, in, &out, "Failed to update task"); err != nil {
		return Task{}, err
	}
	return out, nil
}

// DeleteTask removes a task. Only the status code is inspected.
func (c *Client) DeleteTask(token, id string) error {
	return c.do(fasthttp.MethodDelete, taskPath(id), token, nil, nil, "Failed to delete task")
}

func taskPath(id string) string {
	return "/api/task/" + url.PathEscape(id)
}

// do performs one round trip. A nil out skips decoding the response body.
func (c *Client) do(method, path, token string, body, out interface{}, fallback string) error {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	requestID := uuid.NewString()
	log := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
	)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Code: CodeRequest, Message: fallback, Err: fmt.Errorf("encode request: %w", err)}
		}
		req.Header.SetContentType("application/json")
		req.SetBody(data)
	}

	start := time.Now()
	var err error
	if c.timeout > 0 {
		err = c.http.DoTimeout(req, resp, c.timeout)
	} else {
		err = c.http.Do(req, resp)
	}
	if err != nil {
		log.Warn("request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return &Error{Code: CodeNetwork, Message: networkMessage, Err: err}
	}

	status := resp.StatusCode()
	log.Debug("response received", zap.Int("status", status), zap.Duration("elapsed", time.Since(start)))

	if status < 200 || status >= 300 {
		apiErr := statusError(status, resp.Body(), fallback)
		log.Info("request rejected", zap.Int("status", status), zap.String("code", string(apiErr.Code)))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		log.Warn("decoding response failed", zap.Error(err))
		return &Error{Code: CodeDecode, Status: status, Message: fallback, Err: err}
	}
	return nil
}
