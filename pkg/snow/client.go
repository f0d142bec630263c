package snow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	tableAPIPath      = "/api/now/table/"
	totalCountHeader  = "X-Total-Count"
	defaultTimeout    = 30 * time.Second
	maxErrorBodyBytes = 512
)

// TableClient is the subset of the ServiceNow Table API used by srenow. It is
// an interface so that calls to ServiceNow can be mocked in tests.
type TableClient interface {
	ListRecords(ctx context.Context, table string, opts ListOptions) (*ListResponse, error)
	CreateRecord(ctx context.Context, table string, fields Fields) (*RecordRef, error)
	UpdateRecord(ctx context.Context, table string, sysID string, fields Fields) error
}

// ListOptions are the sysparm_* parameters of a list request
type ListOptions struct {
	Query  string
	Fields []string
	Limit  int
	Offset int
}

// ListResponse is one page of raw records plus the total number of matching records
type ListResponse struct {
	Result     []json.RawMessage
	TotalCount int
}

type tableResponse struct {
	Result []json.RawMessage `json:"result"`
}

type recordResponse struct {
	Result RecordRef `json:"result"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	} `json:"error"`
}

// Client talks to the ServiceNow Table API over HTTP
type Client struct {
	baseURL     string
	token       string
	username    string
	password    string
	httpClient  *http.Client
	retryConfig RetryConfig
	metrics     *clientMetrics
}

type ClientOption func(*Client)

// WithBearerToken authenticates with "Authorization: Bearer <token>"
func WithBearerToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// WithBasicAuth authenticates with HTTP basic auth; ignored when a bearer token is set
func WithBasicAuth(username, password string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

func WithRetryConfig(r RetryConfig) ClientOption {
	return func(c *Client) { c.retryConfig = r }
}

// WithMetrics registers request metrics on reg
func WithMetrics(reg prometheus.Registerer) ClientOption {
	return func(c *Client) { c.metrics = newClientMetrics(reg) }
}

// NewClient returns a Table API client for baseURL, which is either the
// instance URL or a proxy prefix that forwards to it
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		httpClient:  &http.Client{Timeout: defaultTimeout},
		retryConfig: DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ListRecords fetches one page of records. GET is retried on transient errors.
func (c *Client) ListRecords(ctx context.Context, table string, opts ListOptions) (*ListResponse, error) {
	params := url.Values{}
	if opts.Query != "" {
		params.Set("sysparm_query", opts.Query)
	}
	if len(opts.Fields) > 0 {
		params.Set("sysparm_fields", strings.Join(opts.Fields, ","))
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	params.Set("sysparm_limit", strconv.Itoa(limit))
	params.Set("sysparm_offset", strconv.Itoa(opts.Offset))

	endpoint := c.tableURL(table) + "?" + params.Encode()

	log.Debug("snow.ListRecords()", "table", table, "query", opts.Query, "limit", limit, "offset", opts.Offset)

	var out *ListResponse
	err := WithRetry(ctx, c.retryConfig, func() error {
		body, header, err := c.do(ctx, "list "+table, http.MethodGet, table, endpoint, nil)
		if err != nil {
			return err
		}

		var tr tableResponse
		if err := json.Unmarshal(body, &tr); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}

		out = &ListResponse{
			Result:     tr.Result,
			TotalCount: parseTotalCount(header.Get(totalCountHeader), opts.Offset, len(tr.Result)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// CreateRecord inserts a record. POST is never retried; a retry could create a duplicate.
func (c *Client) CreateRecord(ctx context.Context, table string, fields Fields) (*RecordRef, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	log.Debug("snow.CreateRecord()", "table", table, "short_description", fields["short_description"])

	respBody, _, err := c.do(ctx, "create "+table, http.MethodPost, table, c.tableURL(table), body)
	if err != nil {
		return nil, err
	}

	var rr recordResponse
	if err := json.Unmarshal(respBody, &rr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	rr.Result.Table = table

	return &rr.Result, nil
}

// UpdateRecord patches the given fields of a record. PATCH is retried on transient errors.
func (c *Client) UpdateRecord(ctx context.Context, table string, sysID string, fields Fields) error {
	if sysID == "" {
		return ErrMissingSysID
	}

	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal update payload: %w", err)
	}

	endpoint := c.tableURL(table) + "/" + url.PathEscape(sysID)

	log.Debug("snow.UpdateRecord()", "table", table, "sys_id", sysID)

	return WithRetry(ctx, c.retryConfig, func() error {
		_, _, err := c.do(ctx, "update "+table, http.MethodPatch, table, endpoint, body)
		return err
	})
}

func (c *Client) tableURL(table string) string {
	return c.baseURL + tableAPIPath + url.PathEscape(table)
}

func (c *Client) do(ctx context.Context, op, method, table, endpoint string, body []byte) ([]byte, http.Header, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(table, method, "error", time.Since(start))
		return nil, nil, fmt.Errorf("%s: failed to send request: %w", op, err)
	}
	defer resp.Body.Close() //nolint:errcheck
	c.metrics.observe(table, method, strconv.Itoa(resp.StatusCode), time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.Header, fmt.Errorf("%s: failed to read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(op, resp, respBody)
		log.Error("ServiceNow API error", "op", op, "status_code", resp.StatusCode, "message", apiErr.Message)
		return nil, resp.Header, apiErr
	}

	return respBody, resp.Header, nil
}

func (c *Client) setHeaders(req *http.Request) {
	switch {
	case c.token != "":
		req.Header.Set("Authorization", "Bearer "+c.token)
	case c.username != "":
		req.SetBasicAuth(c.username, c.password)
	}
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
}

func newAPIError(op string, resp *http.Response, body []byte) *APIError {
	e := &APIError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}

	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && (er.Error.Message != "" || er.Error.Detail != "") {
		e.Message = er.Error.Message
		e.Detail = er.Error.Detail
		return e
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBodyBytes {
		text = text[:maxErrorBodyBytes]
	}
	e.Message = text
	return e
}

// parseTotalCount reads X-Total-Count, falling back to the number of records
// seen so far when the header is missing or malformed
func parseTotalCount(header string, offset int, n int) int {
	if header != "" {
		if total, err := strconv.Atoi(strings.TrimSpace(header)); err == nil && total >= 0 {
			return total
		}
	}
	return offset + n
}
