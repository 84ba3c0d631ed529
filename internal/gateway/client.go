// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/copilot-tui/internal/session"
)

// Configuration constants for the copilot service API.
const (
	PathLogin    = "/auth/login"
	PathProfile  = "/auth/profile"
	PathQuery    = "/chat/query"
	PathFeedback = "/feedback/submit"

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// sharedHTTPClient pools connections across requests. It has no overall
// timeout: requests end when the service answers or the context is
// cancelled.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the copilot service: authentication, queries and
// feedback. Successful logins store the token in the session store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *session.Store
	limiter    *rate.Limiter // nil means unthrottled
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, store *session.Store) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: sharedHTTPClient,
		store:      store,
	}
}

// WithHTTPClient replaces the HTTP client (tests use httptest clients).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithRateLimit throttles requests to perSecond with an equal burst.
// Zero or less removes the limit.
func (c *Client) WithRateLimit(perSecond int) *Client {
	if perSecond <= 0 {
		c.limiter = nil
		return c
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
	return c
}

// BaseURL returns the service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Store returns the session store tokens are written to.
func (c *Client) Store() *session.Store {
	return c.store
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// response is a fully read HTTP response.
type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// errorField extracts {"error": "..."} from a body, or "".
func (r *response) errorField() string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(r.body, &e); err != nil {
		return ""
	}
	return e.Error
}

// do sends one request. A non-nil error means no response was received.
func (c *Client) do(ctx context.Context, method, path, token string, body interface{}) (*response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	log.Printf("API_REQUEST | method=%s path=%s", method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("API_UNREACHABLE | method=%s path=%s error=%v", method, path, err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := readResponse(resp)
	if err != nil {
		return nil, err
	}
	log.Printf("API_RESPONSE | method=%s path=%s status=%d duration=%v", method, path, resp.StatusCode, time.Since(start))

	return &response{status: resp.StatusCode, body: data}, nil
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}
