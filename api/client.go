// Package api is the typed HTTP client for the nutrition backend. Every
// endpoint gets its own request and response records; responses are decoded
// and checked on receipt instead of being passed around as loose maps.
package api

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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "http://127.0.0.1:5000"
	DefaultTimeout = 30 * time.Second
)

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  logrus.FieldLogger
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log.WithField("component", "api"),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Error is a non-2xx response from the backend.
type Error struct {
	Status int
	// Message is the backend's "message" field, empty when absent.
	Message string
	Body    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// MessageResponse is the generic acknowledgement most mutating endpoints
// return.
type MessageResponse struct {
	Message string `json:"message"`
}

// do sends a JSON request and returns the raw response body of a 2xx reply.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in any) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"path":       path,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Status:  resp.StatusCode,
			Message: gjson.GetBytes(respBody, "message").String(),
			Body:    string(respBody),
		}
	}

	return respBody, nil
}

func decode[T any](body []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &out, nil
}
