// Package graph is a Meta Graph API client covering the surface the
// publishing pipeline needs: Facebook page/group photo, video and feed
// posts, Instagram container publishing, and follow-up comments.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL    = "https://graph.facebook.com"
	defaultAPIVersion = "v21.0"
	defaultTimeout    = 60 * time.Second
)

// Client is a Meta Graph API client
type Client struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
}

// ClientOption is a function that configures the Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithAPIVersion sets the API version
func WithAPIVersion(version string) ClientOption {
	return func(c *Client) {
		c.apiVersion = version
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a new Graph API client
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiVersion: defaultAPIVersion,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// endpoint builds a versioned object path
func (c *Client) endpoint(parts ...string) string {
	path := c.baseURL + "/" + c.apiVersion
	for _, p := range parts {
		path += "/" + p
	}
	return path
}

// postForm issues a POST with URL-encoded params and decodes the response
func (c *Client) postForm(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, out)
}

// postMultipart issues a POST with a binary file part named "source" plus
// the given params, the way the photos/videos endpoints expect uploads
func (c *Client) postMultipart(ctx context.Context, endpoint string, params url.Values, filename string, data []byte, out interface{}) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key := range params {
		if err := writer.WriteField(key, params.Get(key)); err != nil {
			return fmt.Errorf("writing form field: %w", err)
		}
	}

	part, err := writer.CreateFormFile("source", filename)
	if err != nil {
		return fmt.Errorf("creating file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("writing file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, out)
}

// get issues a GET and decodes the response
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, out)
}

// do executes an HTTP request and decodes the response, mapping the Graph
// error envelope to APIError
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
			return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
		}
		return &errResp.Error
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
