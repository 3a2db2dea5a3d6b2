package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/aussiebroadwan/notes/pkg/notesdk"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

// AuthHandler serves the cookie session endpoints and the bearer issue
// endpoint.
type AuthHandler struct {
	AuthService *service.AuthService
	cookies     cookieConfig
}

// HandleGetSession godoc
//
//	@Summary		Get the current session
//	@Description	Returns the user and session behind the session cookie, or null when there is none.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	notesdk.SessionInfo	"user and session, or null"
//	@Router			/api/auth/get-session [get].
func (h *AuthHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, user, err := h.AuthService.ResolveSession(ctx, sessionToken(r))
	if err != nil {
		if !errors.Is(err, service.ErrLoginRequired) {
			writeServiceError(w, slogx.FromContext(ctx), err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, notesdk.SessionInfo{
		User:    toUser(user),
		Session: toSession(sess),
	})
}

// HandleSignUp godoc
//
//	@Summary		Sign up with email
//	@Description	Creates an account and starts a session. Notes of a current anonymous session move to the new account.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		notesdk.SignUpRequest	true	"email, password, name"
//	@Success		200		{object}	notesdk.AuthResponse	"token, user"
//	@Failure		400		{object}	notesdk.ErrorResponse	"invalid_request"
//	@Failure		409		{object}	notesdk.ErrorResponse	"email_taken"
//	@Failure		429		{object}	notesdk.ErrorResponse	"rate_limit_exceeded"
//	@Header			200		{string}	Set-Cookie				"notes_session"
//	@Router			/api/auth/sign-up/email [post].
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req notesdk.SignUpRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		notesdk.NewAPIError(http.StatusBadRequest, notesdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
		return
	}

	res, err := h.AuthService.SignUp(ctx, req.Email, req.Password, req.Name, sessionToken(r))
	if err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}
	h.writeSignedIn(w, res)
}

// HandleSignIn godoc
//
//	@Summary		Sign in with email
//	@Description	Checks the credentials and starts a new session.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		notesdk.SignInRequest	true	"email, password"
//	@Success		200		{object}	notesdk.AuthResponse	"token, user"
//	@Failure		400		{object}	notesdk.ErrorResponse	"invalid_request"
//	@Failure		401		{object}	notesdk.ErrorResponse	"invalid_credentials"
//	@Failure		429		{object}	notesdk.ErrorResponse	"rate_limit_exceeded"
//	@Header			200		{string}	Set-Cookie				"notes_session"
//	@Router			/api/auth/sign-in/email [post].
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req notesdk.SignInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		notesdk.NewAPIError(http.StatusBadRequest, notesdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
		return
	}

	res, err := h.AuthService.SignIn(ctx, req.Email, req.Password, sessionToken(r))
	if err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}
	h.writeSignedIn(w, res)
}

// HandleSignInAnonymous godoc
//
//	@Summary		Sign in anonymously
//	@Description	Creates a guest user and starts a session for it.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	notesdk.AuthResponse	"token, user"
//	@Failure		429	{object}	notesdk.ErrorResponse	"rate_limit_exceeded"
//	@Header			200	{string}	Set-Cookie				"notes_session"
//	@Router			/api/auth/sign-in/anonymous [post].
func (h *AuthHandler) HandleSignInAnonymous(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.AuthService.SignInAnonymous(ctx, sessionToken(r))
	if err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}
	h.writeSignedIn(w, res)
}

// HandleSignOut godoc
//
//	@Summary		Sign out
//	@Description	Revokes the current session and clears the cookie. Succeeds without a session.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	notesdk.SignOutResponse	"success"
//	@Router			/api/auth/sign-out [post].
func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.AuthService.SignOut(ctx, sessionToken(r)); err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}

	h.cookies.clear(w)
	httpx.WriteJSON(w, http.StatusOK, notesdk.SignOutResponse{Success: true})
}

// HandleIssue godoc
//
//	@Summary		Issue a bearer token
//	@Description	Mints a short-lived EdDSA access token for the session behind the cookie.
//	@Description	The token carries the notes:read and notes:write scopes.
//	@Tags			Token
//	@Produce		json
//	@Success		200	{object}	notesdk.TokenResponse	"token, expiresIn"
//	@Failure		401	{object}	notesdk.ErrorResponse	"login_required"
//	@Header			200	{string}	Cache-Control			"no-store"
//	@Router			/auth/issue [post].
func (h *AuthHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	issued, err := h.AuthService.IssueToken(ctx, sessionToken(r))
	if err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}

	expiresIn := int(issued.ExpiresIn.Seconds())
	httpx.WriteJSON(w, http.StatusOK, notesdk.TokenResponse{
		Token:     issued.Token,
		ExpiresIn: &expiresIn,
	})
}

func (h *AuthHandler) writeSignedIn(w http.ResponseWriter, res *service.SignInResult) {
	h.cookies.set(w, res.Token, res.Session.ExpiresAt)
	httpx.WriteJSON(w, http.StatusOK, notesdk.AuthResponse{
		Token: res.Token,
		User:  toUser(res.User),
	})
}
