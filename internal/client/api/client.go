// Package api is the HTTP client for the ORCHA backend. Every method is a
// single request/response round trip: no retries, no client-side timeouts
// (cancellation, if any, comes from the caller's context).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/orcha-labs/orchactl/internal/common"
)

// Client talks to one ORCHA base URL and carries at most one bearer token.
// The auth and admin endpoint families use distinct tokens, so each state
// machine owns its own Client instance.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// SetToken sets the bearer token attached to authenticated requests.
func (c *Client) SetToken(token string) { c.token = token }

// ClearToken drops the bearer token.
func (c *Client) ClearToken() { c.token = "" }

// Token returns the current bearer token ("" when unauthenticated).
func (c *Client) Token() string { return c.token }

// doJSON sends a JSON request and decodes a JSON response into out (out may
// be nil for endpoints whose body is ignored). When authed is true the call
// fails with common.ErrUnauthorized before any network I/O if no token is set.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any, authed bool) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.authorize(req, authed); err != nil {
		return err
	}

	return c.send(req, out)
}

// doMultipart uploads a single file field and decodes a JSON response.
func (c *Client) doMultipart(ctx context.Context, path, field, filename string, content io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, content); err != nil {
		return fmt.Errorf("copy file content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := c.authorize(req, true); err != nil {
		return err
	}

	return c.send(req, out)
}

func (c *Client) authorize(req *http.Request, authed bool) error {
	if !authed {
		return nil
	}
	if c.token == "" {
		return common.ErrUnauthorized
	}
	req.Header.Set(common.AuthHeaderName, common.BearerPrefix+c.token)
	return nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp); err != nil {
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
