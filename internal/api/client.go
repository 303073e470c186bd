package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// errorBody is the backend's error envelope. FastAPI-style backends
// use "detail"; others use "message". Either carries the text shown to
// the user verbatim.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Detail
}

// Client is a thin HTTP client for the orgbot backend API. It handles
// Bearer token authentication, JSON marshaling, and mapping of failure
// responses onto the typed error taxonomy. It never retries: the
// surrounding UI decides whether to let the user re-submit.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a backend client. The baseURL should be the root
// URL of the orgbot server (e.g., http://localhost:8000). The token is
// the API token used for Bearer authentication; it may be empty for
// unauthenticated local servers.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Post performs an HTTP POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// Put performs an HTTP PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

// Delete performs an HTTP DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do builds the request, handles auth, and maps the response status
// onto the error taxonomy: 404 → NotFoundError, 409 → ConflictError,
// any other non-2xx → ServerError with the backend message, transport
// failures → NetworkError.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	op := method + " " + path
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return &NetworkError{Op: op, Err: readErr}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope errorBody
		_ = json.Unmarshal(respBody, &envelope)

		switch resp.StatusCode {
		case http.StatusNotFound:
			return &NotFoundError{}
		case http.StatusConflict:
			return &ConflictError{Message: envelope.text()}
		default:
			return &ServerError{
				Status:  resp.StatusCode,
				Message: envelope.text(),
			}
		}
	}

	// No content to parse (e.g. 204).
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s: %w", op, err)
	}

	return nil
}
