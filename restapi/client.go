package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Client is the shared HTTP client for the school backend. It is safe for
// concurrent use; the bearer token is passed per call rather than stored, so
// every request is authenticated with the session that issued it.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx backend response. Message carries the backend's own
// wording when it sent one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// messageBody is the backend's mutation/error envelope.
type messageBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (m messageBody) text() string {
	if m.Message != "" {
		return m.Message
	}
	return m.Error
}

func (c *Client) do(ctx context.Context, token, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var msg messageBody
		_ = json.Unmarshal(data, &msg) // best effort; fall back to status text
		return &APIError{StatusCode: res.StatusCode, Message: msg.text()}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return errors.Wrapf(err, "decoding %s %s response", method, path)
		}
	}
	return nil
}

// download streams a binary response (spreadsheet exports) to w.
func (c *Client) download(ctx context.Context, token, path string, w io.Writer) (contentType string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", errors.Wrap(err, "building request")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "GET %s", path)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		data, _ := io.ReadAll(res.Body)
		var msg messageBody
		_ = json.Unmarshal(data, &msg)
		return "", &APIError{StatusCode: res.StatusCode, Message: msg.text()}
	}

	if _, err := io.Copy(w, res.Body); err != nil {
		return "", errors.Wrapf(err, "streaming %s", path)
	}
	return res.Header.Get("Content-Type"), nil
}

// Ping checks backend reachability without authenticating.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/users", nil)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "pinging backend")
	}
	res.Body.Close()
	return nil
}
