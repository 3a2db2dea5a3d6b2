package notesdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Notes operations - bearer authenticated through the Executor

const (
	pathNotes  = "/api/notes"
	pathSearch = "/api/search"
)

// ListNotes returns the caller's notes.
func (c *SDKClient) ListNotes(ctx context.Context) ([]Note, error) {
	notes, err := DoJSON[[]Note](ctx, c.exec, Request{
		Method: http.MethodGet,
		Path:   pathNotes,
	})
	if err != nil || notes == nil {
		return nil, err
	}
	return *notes, nil
}

// GetNote returns one note, or nil if the API answered with an empty body.
func (c *SDKClient) GetNote(ctx context.Context, id string) (*Note, error) {
	return DoJSON[Note](ctx, c.exec, Request{
		Method: http.MethodGet,
		Path:   pathNotes,
		Query:  url.Values{"id": {id}},
	})
}

// CreateNote stores a new note and returns it as created by the API.
func (c *SDKClient) CreateNote(ctx context.Context, in NoteInput) (*Note, error) {
	req, err := NewJSONRequest(http.MethodPost, pathNotes, in)
	if err != nil {
		return nil, err
	}
	return DoJSON[Note](ctx, c.exec, req)
}

// UpdateNote replaces the title and description of an existing note.
func (c *SDKClient) UpdateNote(ctx context.Context, in NoteUpdate) (*Note, error) {
	req, err := NewJSONRequest(http.MethodPut, pathNotes, in)
	if err != nil {
		return nil, err
	}
	return DoJSON[Note](ctx, c.exec, req)
}

// DeleteNote removes a note. Any body the API returns must still be valid JSON.
func (c *SDKClient) DeleteNote(ctx context.Context, id string) error {
	_, err := DoJSON[json.RawMessage](ctx, c.exec, Request{
		Method: http.MethodDelete,
		Path:   pathNotes,
		Query:  url.Values{"id": {id}},
	})
	return err
}

// SemanticSearch ranks the caller's notes against query.
func (c *SDKClient) SemanticSearch(ctx context.Context, query string) (*SearchResult, error) {
	req, err := NewJSONRequest(http.MethodPost, pathSearch, SearchRequest{Query: query})
	if err != nil {
		return nil, err
	}
	return DoJSON[SearchResult](ctx, c.exec, req)
}
