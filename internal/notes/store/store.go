package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by the drivers. Repos
// are exposed as methods so a Tx can hand out the same repos bound to the
// transaction.
type Store interface {
	Users() Users
	Sessions() Sessions
	Notes() Notes

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches the lower-cased email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// DeleteUser cascades to sessions and notes.
	DeleteUser(ctx context.Context, id string) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error

	GetSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error)

	// RevokeSession sets revoked_at; revoking twice is not an error.
	RevokeSession(ctx context.Context, id string, at time.Time) error

	// DeleteInactiveSessions removes sessions that expired or were revoked
	// before cutoff and returns how many were removed.
	DeleteInactiveSessions(ctx context.Context, cutoff time.Time) (int64, error)
}

type Notes interface {
	// ListNotes returns the owner's notes, newest first.
	ListNotes(ctx context.Context, ownerID string) ([]domain.Note, error)

	// GetNote only finds notes owned by ownerID.
	GetNote(ctx context.Context, ownerID, id string) (domain.Note, error)

	CreateNote(ctx context.Context, n domain.Note) error

	// UpdateNote replaces title and description; ErrNotFound when the note
	// does not exist or belongs to someone else.
	UpdateNote(ctx context.Context, n domain.Note) error

	DeleteNote(ctx context.Context, ownerID, id string) error

	// ReassignNotes moves every note of fromOwner to toOwner. Used when an
	// anonymous user signs up or signs in.
	ReassignNotes(ctx context.Context, fromOwner, toOwner string) (int64, error)
}
