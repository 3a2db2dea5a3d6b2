package notesdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// IssueToken exchanges the session cookie for a short-lived bearer token.
// A 401 from the issuer means there is no usable session and is reported as
// ErrUnauthenticated. Most callers never need this directly: the Executor
// calls it through the TokenProvider.
func (c *SDKClient) IssueToken(ctx context.Context) (*TokenResponse, error) {
	resp, err := c.sendJSON(ctx, http.MethodPost, pathIssueBearer, struct{}{})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, newHTTPError(resp))
	}
	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}

	tokenResp, err := decodeBody[TokenResponse](resp)
	if err != nil {
		return nil, err
	}
	if tokenResp == nil {
		return nil, &MalformedResponseError{
			StatusCode: resp.StatusCode,
			Err:        errors.New("empty token response"),
		}
	}

	return tokenResp, nil
}
