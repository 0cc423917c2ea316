// Package gatewayclient provides the one concrete, net/http-based
// implementation of gatewayiface.Client. It is wired the way the example
// pack's upstream HTTP callers are (github.com/joestump/joe-links's
// internal/llm): http.NewRequestWithContext, a shared *http.Client, and
// every transport/status failure wrapped into the caller's "safe
// substitute" contract rather than bubbled up as a Go error.
package gatewayclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/livefir/fragmentgw/internal/fragment"
	"github.com/livefir/fragmentgw/internal/gatewayiface"
)

// Client is the default GatewayClient: plain HTTP, one timeout per call,
// one X-Request-Id header per fetch for upstream trace correlation.
type Client struct {
	HTTP           *http.Client
	DefaultTimeout time.Duration
}

// New builds a Client with sane defaults.
func New() *Client {
	return &Client{
		HTTP:           &http.Client{},
		DefaultTimeout: 2 * time.Second,
	}
}

var _ gatewayiface.Client = (*Client)(nil)

func (c *Client) newRequest(ctx context.Context, fullURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}

// FetchConfig resolves a fragment's gateway-exposed metadata by GETting
// "<fragmentURL>/config". A non-2xx response or any transport error is
// reported as (nil, false, nil): unreachable or unexposed are the same
// Unfetched outcome from the planner's point of view.
func (c *Client) FetchConfig(ctx context.Context, _, _, fragmentURL string) (*fragment.Config, bool, error) {
	req, err := c.newRequest(ctx, fragmentURL+"/config")
	if err != nil {
		return nil, false, fmt.Errorf("gatewayclient: build config request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, false, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, nil
	}

	var cfg fragment.Config
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return nil, false, nil
	}
	return &cfg, true, nil
}

// FetchPlaceholder GETs "<fragmentURL>/placeholder". Failures resolve to
// an empty string, never an error.
func (c *Client) FetchPlaceholder(ctx context.Context, fragmentURL string) (string, error) {
	req, err := c.newRequest(ctx, fragmentURL+"/placeholder")
	if err != nil {
		return "", nil
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", nil
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil
	}
	return string(body), nil
}

// FetchContent GETs "<fragmentURL><render.URL>?<query>&__renderMode=stream"
// bounded by render.Timeout (falling back to c.DefaultTimeout). A
// transport error or timeout resolves to the "missing partials" contract
// — status 500, empty HTML map — never a Go error, so callers can treat
// every return as safe to render.
func (c *Client) FetchContent(ctx context.Context, fragmentURL string, render fragment.RenderConfig, query url.Values) (*gatewayiface.FragmentResponse, error) {
	timeout := render.Timeout
	if timeout <= 0 {
		timeout = c.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	q := query
	if q == nil {
		q = url.Values{}
	}
	q.Set("__renderMode", "stream")

	full := fragmentURL + render.URL + "?" + q.Encode()
	req, err := c.newRequest(ctx, full)
	if err != nil {
		return &gatewayiface.FragmentResponse{Status: 500, HTML: map[string]string{}}, nil
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &gatewayiface.FragmentResponse{Status: 500, HTML: map[string]string{}}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusMovedPermanently {
			return &gatewayiface.FragmentResponse{Status: resp.StatusCode, Headers: resp.Header, HTML: map[string]string{}}, nil
		}
		return &gatewayiface.FragmentResponse{Status: 500, HTML: map[string]string{}}, nil
	}

	var payload struct {
		Model map[string]interface{} `json:"model"`
		Rest  map[string]string      `json:"-"`
	}
	raw := map[string]json.RawMessage{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return &gatewayiface.FragmentResponse{Status: 500, HTML: map[string]string{}}, nil
	}

	html := map[string]string{}
	for key, v := range raw {
		if key == "model" {
			_ = json.Unmarshal(v, &payload.Model)
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			html[key] = s
		}
	}

	return &gatewayiface.FragmentResponse{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		HTML:    html,
		Model:   payload.Model,
	}, nil
}

// FetchStatic GETs "<fragmentURL>/static/<fileName>". Failures resolve to
// an empty string.
func (c *Client) FetchStatic(ctx context.Context, fragmentURL, fileName string) (string, error) {
	req, err := c.newRequest(ctx, fragmentURL+"/static/"+fileName)
	if err != nil {
		return "", nil
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", nil
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil
	}
	return string(body), nil
}
