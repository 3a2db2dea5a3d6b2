package notesdk

import (
	"context"
	"net/http"
)

// Session operations - cookie authenticated, no bearer involved

const (
	pathGetSession  = "/api/auth/get-session"
	pathSignUpEmail = "/api/auth/sign-up/email"
	pathSignInEmail = "/api/auth/sign-in/email"
	pathSignInAnon  = "/api/auth/sign-in/anonymous"
	pathSignOut     = "/api/auth/sign-out"
	pathIssueBearer = "/auth/issue"
)

// GetSession returns the current user and session, or nil when there is
// none. Any non-2xx answer is treated as "no session"; transport and parse
// failures are still returned as errors.
func (c *SDKClient) GetSession(ctx context.Context) (*SessionInfo, error) {
	resp, err := c.send(ctx, http.MethodGet, pathGetSession, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, nil
	}

	info, err := decodeBody[SessionInfo](resp)
	if err != nil {
		return nil, err
	}
	if info == nil || info.User == nil || info.Session == nil {
		return nil, nil
	}
	return info, nil
}

// SignUpEmail creates an account and starts a session for it.
func (c *SDKClient) SignUpEmail(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	return c.authenticate(ctx, pathSignUpEmail, req)
}

// SignInEmail starts a session with email and password.
func (c *SDKClient) SignInEmail(ctx context.Context, req SignInRequest) (*AuthResponse, error) {
	return c.authenticate(ctx, pathSignInEmail, req)
}

// SignInAnonymous starts a session for a fresh anonymous user.
func (c *SDKClient) SignInAnonymous(ctx context.Context) (*AuthResponse, error) {
	return c.authenticate(ctx, pathSignInAnon, struct{}{})
}

// SignOut ends the session. The cached bearer is dropped even if the call fails.
func (c *SDKClient) SignOut(ctx context.Context) error {
	// Once before the cookie is cleared and once after, so a refresh that
	// raced the request cannot bring the old bearer back.
	c.tokens.Invalidate()
	defer c.tokens.Invalidate()

	resp, err := c.sendJSON(ctx, http.MethodPost, pathSignOut, struct{}{})
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}

	_, err = decodeBody[SignOutResponse](resp)
	return err
}

// authenticate posts a session-creating call. Whatever identity the bearer
// cache held no longer applies once the cookie changes.
func (c *SDKClient) authenticate(ctx context.Context, path string, in any) (*AuthResponse, error) {
	resp, err := c.sendJSON(ctx, http.MethodPost, path, in)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	c.tokens.Invalidate()
	return decodeBody[AuthResponse](resp)
}
