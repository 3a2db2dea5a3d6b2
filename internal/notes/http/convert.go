package http

import (
	"github.com/aussiebroadwan/notes/internal/notes/domain"
	"github.com/aussiebroadwan/notes/pkg/notesdk"
)

func toUser(u domain.User) *notesdk.User {
	return &notesdk.User{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		IsAnonymous: u.Anonymous,
		CreatedAt:   u.CreatedAt,
	}
}

func toSession(s domain.Session) *notesdk.SessionDetails {
	return &notesdk.SessionDetails{
		ID:        s.ID,
		UserID:    s.UserID,
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
	}
}

func toNote(n domain.Note) notesdk.Note {
	return notesdk.Note{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func toNotes(ns []domain.Note) []notesdk.Note {
	out := make([]notesdk.Note, 0, len(ns))
	for _, n := range ns {
		out = append(out, toNote(n))
	}
	return out
}

func toSearchResult(ms []domain.SearchMatch) notesdk.SearchResult {
	out := notesdk.SearchResult{Matches: make([]notesdk.SearchMatch, 0, len(ms))}
	for _, m := range ms {
		out.Matches = append(out.Matches, notesdk.SearchMatch{ID: m.ID, Title: m.Title, Score: m.Score})
	}
	return out
}
