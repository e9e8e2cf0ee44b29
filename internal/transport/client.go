package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"atoma-accounts-client/pkg/apierror"
)

// Client performs JSON requests against one API with a fixed authorization
// header. It never panics and never returns a raw transport error: every
// failure is converted into an *apierror.Error at the call site.
type Client struct {
	baseURL       string
	authorization string
	http          *http.Client
}

// NewClient creates a client bound to baseURL. authorization is sent as the
// full Authorization header value ("Bearer <token>", "SteamWeb <url>", ...);
// pass "" for unauthenticated calls.
func NewClient(baseURL, authorization string, timeout time.Duration) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		authorization: authorization,
		http:          &http.Client{Timeout: timeout},
	}
}

// Bearer formats a credential as a bearer Authorization header value.
func Bearer(token string) string {
	return "Bearer " + token
}

// Get performs a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	_, err := c.Do(ctx, http.MethodGet, path, nil, out)
	return err
}

// Post performs a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	_, err := c.Do(ctx, http.MethodPost, path, body, out)
	return err
}

// Put performs a PUT request with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	_, err := c.Do(ctx, http.MethodPut, path, body, out)
	return err
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	_, err := c.Do(ctx, http.MethodDelete, path, nil, out)
	return err
}

// Do performs a request and decodes the JSON response into out (when out is
// non-nil and the body is non-empty). It returns the HTTP status code of the
// response, or 0 when the request never produced one.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, apierror.Transport(err)
		}
		reader = bytes.NewReader(raw)
	}

	url := c.baseURL + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, apierror.Transport(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.authorization != "" {
		req.Header.Set("Authorization", c.authorization)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, apierror.Transport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, apierror.Status(resp.StatusCode)
	}

	// Void endpoints: a 2xx with any (or no) body is success.
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			// Empty body on a success status is still success.
			return resp.StatusCode, nil
		}
		return resp.StatusCode, apierror.Decode(err)
	}

	return resp.StatusCode, nil
}
