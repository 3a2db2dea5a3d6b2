package notesdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aussiebroadwan/notes/pkg/idx"
)

// maxAttempts is the initial dispatch plus exactly one retry after a 401.
const maxAttempts = 2

// HeaderRequestID correlates both attempts of one logical call in backend logs.
const HeaderRequestID = "X-Request-ID"

// Request describes one protected call. Body is kept as bytes so the retry
// can replay it.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// NewJSONRequest builds a Request whose body is v encoded as JSON.
func NewJSONRequest(method, path string, v any) (Request, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Request{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	return Request{Method: method, Path: path, Body: body}, nil
}

// attemptResult is the outcome of a single dispatch.
type attemptResult struct {
	resp     *Response
	rejected bool // 401: the bearer was refused
}

// Executor dispatches protected requests with a fresh bearer credential and
// recovers once from a rejected credential.
type Executor struct {
	client *SDKClient
	tokens *TokenProvider
}

// NewExecutor creates an executor sending through client with credentials
// from tokens.
func NewExecutor(client *SDKClient, tokens *TokenProvider) *Executor {
	return &Executor{client: client, tokens: tokens}
}

// Do runs req. It returns the response for any 2xx status, ErrUnauthenticated
// when no bearer can be issued, an error matching ErrAuthorizationRejected
// when the retry is also refused, and *HTTPError for any other status.
func (e *Executor) Do(ctx context.Context, req Request) (*Response, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	header := req.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	if header.Get(HeaderRequestID) == "" {
		header.Set(HeaderRequestID, idx.New().String())
	}
	req.Header = header

	var rejected *HTTPError
	for range maxAttempts {
		cred, err := e.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}

		res, err := e.attempt(ctx, req, cred)
		if err != nil {
			return nil, err
		}
		if !res.rejected {
			if err := checkStatus(res.resp); err != nil {
				return nil, err
			}
			return res.resp, nil
		}

		rejected = newHTTPError(res.resp)
		e.tokens.Reject(cred.Token)
	}

	return nil, fmt.Errorf("%w: %w", ErrAuthorizationRejected, rejected)
}

func (e *Executor) attempt(ctx context.Context, req Request, cred Credential) (attemptResult, error) {
	header := req.Header.Clone()
	header.Set("Authorization", "Bearer "+cred.Token)

	resp, err := e.client.send(ctx, req.Method, req.Path, req.Query, header, req.Body)
	if err != nil {
		return attemptResult{}, err
	}

	return attemptResult{
		resp:     resp,
		rejected: resp.StatusCode == http.StatusUnauthorized,
	}, nil
}

// DoJSON runs req through e and decodes the body into T. An empty body
// yields (nil, nil).
func DoJSON[T any](ctx context.Context, e *Executor, req Request) (*T, error) {
	resp, err := e.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return decodeBody[T](resp)
}
