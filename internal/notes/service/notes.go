package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
	"github.com/aussiebroadwan/notes/internal/notes/store"
	"github.com/aussiebroadwan/notes/pkg/idx"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 10_000
	maxQueryLength       = 500
)

// NotesService is owner-scoped note CRUD plus search. Every method takes the
// authenticated user ID; notes owned by someone else are reported as not found.
type NotesService struct {
	Store store.Store

	// Now replaces time.Now, for tests.
	Now func() time.Time
}

func (s *NotesService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *NotesService) List(ctx context.Context, ownerID string) ([]domain.Note, error) {
	return s.Store.Notes().ListNotes(ctx, ownerID)
}

func (s *NotesService) Get(ctx context.Context, ownerID, id string) (domain.Note, error) {
	noteID, err := parseNoteID(id)
	if err != nil {
		return domain.Note{}, err
	}
	n, err := s.Store.Notes().GetNote(ctx, ownerID, noteID)
	return n, mapNoteErr(err)
}

func (s *NotesService) Create(ctx context.Context, ownerID, title, description string) (domain.Note, error) {
	title, description, err := validateNote(title, description)
	if err != nil {
		return domain.Note{}, err
	}

	now := s.now()
	n := domain.Note{
		ID:          idx.NewAt(now).String(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Notes().CreateNote(ctx, n); err != nil {
		return domain.Note{}, err
	}

	slogx.FromContext(ctx).Info("note created", "note_id", n.ID)
	return n, nil
}

// Update replaces title and description and returns the stored note.
func (s *NotesService) Update(ctx context.Context, ownerID, id, title, description string) (domain.Note, error) {
	noteID, err := parseNoteID(id)
	if err != nil {
		return domain.Note{}, err
	}
	title, description, err = validateNote(title, description)
	if err != nil {
		return domain.Note{}, err
	}

	var updated domain.Note
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		n, err := tx.Notes().GetNote(ctx, ownerID, noteID)
		if err != nil {
			return err
		}
		n.Title = title
		n.Description = description
		n.UpdatedAt = s.now()
		if err := tx.Notes().UpdateNote(ctx, n); err != nil {
			return err
		}
		updated = n
		return nil
	})
	if err != nil {
		return domain.Note{}, mapNoteErr(err)
	}

	slogx.FromContext(ctx).Info("note updated", "note_id", noteID)
	return updated, nil
}

func (s *NotesService) Delete(ctx context.Context, ownerID, id string) error {
	noteID, err := parseNoteID(id)
	if err != nil {
		return err
	}
	if err := s.Store.Notes().DeleteNote(ctx, ownerID, noteID); err != nil {
		return mapNoteErr(err)
	}

	slogx.FromContext(ctx).Info("note deleted", "note_id", noteID)
	return nil
}

// Search ranks the owner's notes against query. See Rank.
func (s *NotesService) Search(ctx context.Context, ownerID, query string) ([]domain.SearchMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("query", "is required")
	}
	if utf8.RuneCountInString(query) > maxQueryLength {
		return nil, invalid("query", fmt.Sprintf("must be at most %d characters", maxQueryLength))
	}

	notes, err := s.Store.Notes().ListNotes(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return Rank(query, notes, MaxSearchResults), nil
}

func validateNote(title, description string) (string, string, error) {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return "", "", invalid("title", "is required")
	case utf8.RuneCountInString(title) > maxTitleLength:
		return "", "", invalid("title", fmt.Sprintf("must be at most %d characters", maxTitleLength))
	case utf8.RuneCountInString(description) > maxDescriptionLength:
		return "", "", invalid("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLength))
	}
	return title, description, nil
}

// parseNoteID canonicalises a note ID. Anything that is not a ULID cannot
// name a note.
func parseNoteID(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", invalid("id", "is required")
	}
	parsed, err := idx.Parse(id)
	if err != nil {
		return "", ErrNoteNotFound
	}
	return parsed.String(), nil
}

func mapNoteErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNoteNotFound
	}
	return err
}
