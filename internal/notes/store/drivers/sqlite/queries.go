package sqlite

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repo can run inside
// or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const userColumns = `id, email, name, password_hash, anonymous, created_at, updated_at`

const (
	getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	createUser = `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	deleteUser = `DELETE FROM users WHERE id = ?`
)

const sessionColumns = `id, user_id, token_hash, expires_at, revoked_at, created_at`

const (
	createSession = `INSERT INTO sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

	getSessionByTokenHash = `SELECT ` + sessionColumns + ` FROM sessions WHERE token_hash = ?`

	revokeSession = `UPDATE sessions SET revoked_at = COALESCE(revoked_at, ?) WHERE id = ?`

	deleteInactiveSessions = `DELETE FROM sessions
WHERE expires_at < ?1 OR (revoked_at IS NOT NULL AND revoked_at < ?1)`
)

const noteColumns = `id, owner_id, title, description, created_at, updated_at`

const (
	// ULIDs sort by creation time.
	listNotes = `SELECT ` + noteColumns + ` FROM notes WHERE owner_id = ? ORDER BY id DESC`

	getNote = `SELECT ` + noteColumns + ` FROM notes WHERE owner_id = ? AND id = ?`

	createNote = `INSERT INTO notes (` + noteColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

	updateNote = `UPDATE notes SET title = ?, description = ?, updated_at = ?
WHERE owner_id = ? AND id = ?`

	deleteNote = `DELETE FROM notes WHERE owner_id = ? AND id = ?`

	reassignNotes = `UPDATE notes SET owner_id = ? WHERE owner_id = ?`
)

type rowScanner interface {
	Scan(dest ...any) error
}
