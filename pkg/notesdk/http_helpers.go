package notesdk

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
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	StatusText string
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// url builds a complete URL by appending the path and query to the base URL.
func (c *SDKClient) url(path string, query url.Values) string {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// send performs one HTTP round trip and reads the whole body. Cookies are
// handled by the client's jar.
func (c *SDKClient) send(
	ctx context.Context,
	method, path string,
	query url.Values,
	header http.Header,
	body []byte,
) (*Response, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), rdr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		StatusText: statusText(resp),
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// sendJSON marshals in (when non-nil) and sends it as a JSON body.
func (c *SDKClient) sendJSON(ctx context.Context, method, path string, in any) (*Response, error) {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
	}
	return c.send(ctx, method, path, nil, nil, body)
}

// statusText strips the numeric prefix from resp.Status ("404 Not Found").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// checkStatus returns an *HTTPError for any non-2xx response.
func checkStatus(resp *Response) error {
	if resp.OK() {
		return nil
	}
	return newHTTPError(resp)
}

func newHTTPError(resp *Response) *HTTPError {
	return &HTTPError{
		StatusCode: resp.StatusCode,
		StatusText: resp.StatusText,
		Body:       string(resp.Body),
	}
}

// decodeBody parses a success body. An empty or literal null body is an
// absent result (nil, nil); invalid JSON is a *MalformedResponseError and
// never a partially filled value.
func decodeBody[T any](resp *Response) (*T, error) {
	trimmed := bytes.TrimSpace(resp.Body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var out T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, &MalformedResponseError{
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
			Err:        err,
		}
	}
	return &out, nil
}
