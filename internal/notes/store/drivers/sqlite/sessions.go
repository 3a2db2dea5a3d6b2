package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
)

type sessionsRepo struct {
	db DBTX
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, createSession,
		s.ID,
		s.UserID,
		s.TokenHash,
		toMillis(s.ExpiresAt),
		mapOptionalTime(s.RevokedAt),
		toMillis(s.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error) {
	var (
		s                    domain.Session
		expiresAt, createdAt int64
		revokedAt            sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, getSessionByTokenHash, hash).
		Scan(&s.ID, &s.UserID, &s.TokenHash, &expiresAt, &revokedAt, &createdAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.ExpiresAt = fromMillis(expiresAt)
	s.RevokedAt = mapNullTimePtr(revokedAt)
	s.CreatedAt = fromMillis(createdAt)
	return s, nil
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, id string, at time.Time) error {
	return execOne(ctx, r.db, revokeSession, toMillis(at), id)
}

func (r *sessionsRepo) DeleteInactiveSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteInactiveSessions, toMillis(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
