package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pkt.systems/pslog"

	"github.com/pytutor/pytutor-terminal/pkg/models"
)

// Endpoint paths on the tutoring service
const (
	PathRunCode        = "/run_code"
	PathAIHint         = "/get_ai_hint"
	PathAIExplanation  = "/get_ai_explanation"
	PathAIFixedCode    = "/get_ai_fixed_code"
	maxErrorBodyPrefix = 200
)

// Status is the HTTP status of a completed exchange
type Status struct {
	Code int
	Text string
}

// OK reports a 2xx status.
func (s Status) OK() bool {
	return s.Code >= 200 && s.Code < 300
}

func (s Status) String() string {
	if s.Text == "" {
		return fmt.Sprintf("%d", s.Code)
	}
	return s.Text
}

// ExecuteResponse is the /run_code payload
type ExecuteResponse struct {
	Output string        `json:"output"`
	Error  string        `json:"error"`
	Hints  []models.Hint `json:"hints"`
	Status Status        `json:"-"`
}

// AssistResponse carries the text of any of the three AI endpoints
type AssistResponse struct {
	Text   string
	Status Status
}

// TransportError means no well-formed response was received: the request
// could not be sent, the connection failed, or the body was not JSON.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client talks to the execution/AI service over JSON HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        pslog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each exchange; zero keeps the transport default
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d, Transport: c.httpClient.Transport}
		}
	}
}

// WithLogger attaches a logger
func WithLogger(logger pslog.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Execute runs code on the service. A non-2xx response is not an error:
// whatever output, error and hints it carries are returned with its status.
func (c *Client) Execute(ctx context.Context, code string) (*ExecuteResponse, error) {
	var resp ExecuteResponse
	status, err := c.post(ctx, PathRunCode, map[string]string{"code": code}, &resp)
	if err != nil {
		return nil, err
	}
	resp.Status = status
	return &resp, nil
}

// Hint asks for an AI hint about code and the last runtime error
func (c *Client) Hint(ctx context.Context, code, errText string) (*AssistResponse, error) {
	var body struct {
		AIHint string `json:"ai_hint"`
	}
	status, err := c.post(ctx, PathAIHint, map[string]string{"code": code, "error": errText}, &body)
	if err != nil {
		return nil, err
	}
	return &AssistResponse{Text: body.AIHint, Status: status}, nil
}

// Explain asks for an AI explanation of code
func (c *Client) Explain(ctx context.Context, code string) (*AssistResponse, error) {
	var body struct {
		AIExplanation string `json:"ai_explanation"`
	}
	status, err := c.post(ctx, PathAIExplanation, map[string]string{"code": code}, &body)
	if err != nil {
		return nil, err
	}
	return &AssistResponse{Text: body.AIExplanation, Status: status}, nil
}

// Fix asks for an AI-corrected version of code
func (c *Client) Fix(ctx context.Context, code, errText string) (*AssistResponse, error) {
	var body struct {
		AIFixedCode string `json:"ai_fixed_code"`
	}
	status, err := c.post(ctx, PathAIFixedCode, map[string]string{"code": code, "error": errText}, &body)
	if err != nil {
		return nil, err
	}
	return &AssistResponse{Text: body.AIFixedCode, Status: status}, nil
}

// Assist dispatches one of the three AI operations by kind
func (c *Client) Assist(ctx context.Context, kind models.OperationKind, code, errText string) (*AssistResponse, error) {
	switch kind {
	case models.OpHint:
		return c.Hint(ctx, code, errText)
	case models.OpExplain:
		return c.Explain(ctx, code)
	case models.OpFix:
		return c.Fix(ctx, code, errText)
	default:
		return nil, fmt.Errorf("operation %s is not an assist operation", kind)
	}
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) (Status, error) {
	log := c.logger(ctx).With("path", path)

	body, err := json.Marshal(payload)
	if err != nil {
		return Status{}, &TransportError{Op: "encode request", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return Status{}, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("service request failed", "err", err)
		return Status{}, &TransportError{Op: "POST " + path, Err: err}
	}
	defer resp.Body.Close()

	status := Status{Code: resp.StatusCode, Text: resp.Status}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn("service response read failed", "status", resp.StatusCode, "err", err)
		return status, &TransportError{Op: "read response", Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Warn("service response malformed", "status", resp.StatusCode, "err", err)
		return status, &TransportError{
			Op:  "decode response",
			Err: fmt.Errorf("%w (status %s, body %q)", err, status, prefix(string(raw), maxErrorBodyPrefix)),
		}
	}
	log.Debug("service request done", "status", resp.StatusCode, "elapsed", time.Since(start))
	return status, nil
}

func (c *Client) logger(ctx context.Context) pslog.Logger {
	if c.log != nil {
		return c.log
	}
	return pslog.Ctx(ctx)
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
