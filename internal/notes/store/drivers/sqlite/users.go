package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
)

type usersRepo struct {
	db DBTX
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, getUserByID, id))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, getUserByEmail, email))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, createUser,
		u.ID,
		mapStringNull(u.Email),
		u.Name,
		u.PasswordHash,
		u.Anonymous,
		toMillis(u.CreatedAt),
		toMillis(u.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *usersRepo) DeleteUser(ctx context.Context, id string) error {
	return execOne(ctx, r.db, deleteUser, id)
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u                    domain.User
		email                sql.NullString
		createdAt, updatedAt int64
	)
	err := row.Scan(&u.ID, &email, &u.Name, &u.PasswordHash, &u.Anonymous, &createdAt, &updatedAt)
	if err != nil {
		return domain.User{}, err
	}
	u.Email = mapNullString(email)
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}
