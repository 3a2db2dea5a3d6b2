package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
	"github.com/aussiebroadwan/notes/internal/notes/store"
	"github.com/aussiebroadwan/notes/pkg/cryptox"
	"github.com/aussiebroadwan/notes/pkg/idx"
	"github.com/aussiebroadwan/notes/pkg/jwtx"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

const (
	ScopeNotesRead  = "notes:read"
	ScopeNotesWrite = "notes:write"

	minPasswordLength = 8
	maxPasswordLength = 128
	maxNameLength     = 100
)

// DefaultScopes are granted to every bearer token.
var DefaultScopes = []string{ScopeNotesRead, ScopeNotesWrite}

// AuthService owns cookie sessions and mints bearer tokens from them.
type AuthService struct {
	Store      store.Store
	Hasher     *cryptox.PasswordHasher
	KeyManager *jwtx.KeyManager
	TokenTTL   time.Duration
	SessionTTL time.Duration

	// Now replaces time.Now, for tests.
	Now func() time.Time
}

// SignInResult is a freshly started session. Token is the raw cookie value
// and is never stored.
type SignInResult struct {
	User    domain.User
	Session domain.Session
	Token   string
}

// IssuedToken is a signed bearer access token.
type IssuedToken struct {
	Token     string
	ExpiresIn time.Duration
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// SignUp creates an email account and starts a session for it. When
// prevToken belongs to an anonymous session, that user's notes move to the
// new account and the anonymous user is removed.
func (s *AuthService) SignUp(ctx context.Context, email, password, name, prevToken string) (*SignInResult, error) {
	email, err := normaliseEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if len(name) > maxNameLength {
		return nil, invalid("name", fmt.Sprintf("must be at most %d characters", maxNameLength))
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	anon := s.anonymousOwner(ctx, prevToken)

	var res *SignInResult
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}
		if err := linkAnonymous(ctx, tx, anon, user.ID); err != nil {
			return err
		}
		res, err = s.startSession(ctx, tx, user, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("user signed up", "user_id", user.ID, "linked_anonymous", anon != "")
	return res, nil
}

// SignIn checks email and password and starts a new session. Anonymous
// notes are carried over as in SignUp.
func (s *AuthService) SignIn(ctx context.Context, email, password, prevToken string) (*SignInResult, error) {
	email, err := normaliseEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.Hasher.Verify(password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			slogx.FromContext(ctx).Error("password verify failed", "user_id", user.ID, "err", err)
		}
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	anon := s.anonymousOwner(ctx, prevToken)

	var res *SignInResult
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := linkAnonymous(ctx, tx, anon, user.ID); err != nil {
			return err
		}
		res, err = s.startSession(ctx, tx, user, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("user signed in", "user_id", user.ID)
	return res, nil
}

// SignInAnonymous creates a guest user with a session. Any session carried
// in prevToken is revoked first.
func (s *AuthService) SignInAnonymous(ctx context.Context, prevToken string) (*SignInResult, error) {
	if err := s.SignOut(ctx, prevToken); err != nil {
		return nil, err
	}

	now := s.now()
	user := domain.User{
		ID:        idx.NewAt(now).String(),
		Name:      "Anonymous",
		Anonymous: true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var res *SignInResult
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		var err error
		res, err = s.startSession(ctx, tx, user, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("anonymous sign-in", "user_id", user.ID)
	return res, nil
}

// SignOut revokes the session behind token. Unknown or empty tokens are
// not an error.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sess, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if sess.RevokedAt != nil {
		return nil
	}
	return s.Store.Sessions().RevokeSession(ctx, sess.ID, s.now())
}

// ResolveSession returns the active session and user behind token, or
// ErrLoginRequired.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (domain.Session, domain.User, error) {
	if token == "" {
		return domain.Session{}, domain.User{}, ErrLoginRequired
	}

	sess, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, domain.User{}, ErrLoginRequired
		}
		return domain.Session{}, domain.User{}, err
	}
	if !sess.ActiveAt(s.now()) {
		return domain.Session{}, domain.User{}, ErrLoginRequired
	}

	user, err := s.Store.Users().GetUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, domain.User{}, ErrLoginRequired
		}
		return domain.Session{}, domain.User{}, err
	}
	return sess, user, nil
}

// IssueToken mints a short-lived bearer token for the session behind token.
func (s *AuthService) IssueToken(ctx context.Context, token string) (*IssuedToken, error) {
	sess, user, err := s.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}

	signer := s.KeyManager.Signer()
	if signer == nil {
		return nil, errors.New("no signing key available")
	}

	claims := jwtx.NewAccessClaims(
		user.ID, sess.ID, DefaultScopes, s.TokenTTL,
		s.KeyManager.Issuer(), s.KeyManager.Audience(), s.now(),
	)
	claims.Email = user.Email
	claims.Name = user.Name
	claims.Anonymous = user.Anonymous

	signed, err := signer.Sign(claims)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	slogx.FromContext(ctx).Debug("bearer issued", "user_id", user.ID, "kid", signer.KID())
	return &IssuedToken{Token: signed, ExpiresIn: s.TokenTTL}, nil
}

func (s *AuthService) startSession(ctx context.Context, tx store.Tx, user domain.User, now time.Time) (*SignInResult, error) {
	raw, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	sess := domain.Session{
		ID:        idx.NewAt(now).String(),
		UserID:    user.ID,
		TokenHash: cryptox.FingerprintToken(raw),
		ExpiresAt: now.Add(s.SessionTTL),
		CreatedAt: now,
	}
	if err := tx.Sessions().CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	return &SignInResult{User: user, Session: sess, Token: raw}, nil
}

// anonymousOwner returns the user ID behind prevToken when it is an active
// anonymous session, else "".
func (s *AuthService) anonymousOwner(ctx context.Context, prevToken string) string {
	if prevToken == "" {
		return ""
	}
	_, user, err := s.ResolveSession(ctx, prevToken)
	if err != nil || !user.Anonymous {
		return ""
	}
	return user.ID
}

func linkAnonymous(ctx context.Context, tx store.Tx, anonID, userID string) error {
	if anonID == "" || anonID == userID {
		return nil
	}
	if _, err := tx.Notes().ReassignNotes(ctx, anonID, userID); err != nil {
		return fmt.Errorf("reassign anonymous notes: %w", err)
	}
	// Cascades to the anonymous sessions.
	if err := tx.Users().DeleteUser(ctx, anonID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete anonymous user: %w", err)
	}
	return nil
}

func normaliseEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", invalid("email", "is required")
	}
	if len(email) > 254 {
		return "", invalid("email", "is too long")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalid("email", "is not a valid address")
	}
	return email, nil
}

func validatePassword(password string) error {
	switch {
	case len(password) < minPasswordLength:
		return invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	case len(password) > maxPasswordLength:
		return invalid("password", fmt.Sprintf("must be at most %d characters", maxPasswordLength))
	}
	return nil
}
