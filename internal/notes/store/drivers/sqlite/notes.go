package sqlite

import (
	"context"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
)

type notesRepo struct {
	db DBTX
}

func (r *notesRepo) ListNotes(ctx context.Context, ownerID string) ([]domain.Note, error) {
	rows, err := r.db.QueryContext(ctx, listNotes, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *notesRepo) GetNote(ctx context.Context, ownerID, id string) (domain.Note, error) {
	n, err := scanNote(r.db.QueryRowContext(ctx, getNote, ownerID, id))
	if err != nil {
		return domain.Note{}, mapNotFound(err)
	}
	return n, nil
}

func (r *notesRepo) CreateNote(ctx context.Context, n domain.Note) error {
	_, err := r.db.ExecContext(ctx, createNote,
		n.ID,
		n.OwnerID,
		n.Title,
		n.Description,
		toMillis(n.CreatedAt),
		toMillis(n.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *notesRepo) UpdateNote(ctx context.Context, n domain.Note) error {
	return execOne(ctx, r.db, updateNote,
		n.Title,
		n.Description,
		toMillis(n.UpdatedAt),
		n.OwnerID,
		n.ID,
	)
}

func (r *notesRepo) DeleteNote(ctx context.Context, ownerID, id string) error {
	return execOne(ctx, r.db, deleteNote, ownerID, id)
}

func (r *notesRepo) ReassignNotes(ctx context.Context, fromOwner, toOwner string) (int64, error) {
	res, err := r.db.ExecContext(ctx, reassignNotes, toOwner, fromOwner)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanNote(row rowScanner) (domain.Note, error) {
	var (
		n                    domain.Note
		createdAt, updatedAt int64
	)
	if err := row.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Description, &createdAt, &updatedAt); err != nil {
		return domain.Note{}, err
	}
	n.CreatedAt = fromMillis(createdAt)
	n.UpdatedAt = fromMillis(updatedAt)
	return n, nil
}
