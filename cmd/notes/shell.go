package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aussiebroadwan/notes/pkg/notesdk"
)

// notesAPI is the part of *notesdk.SDKClient the shell drives.
type notesAPI interface {
	GetSession(ctx context.Context) (*notesdk.SessionInfo, error)
	SignUpEmail(ctx context.Context, req notesdk.SignUpRequest) (*notesdk.AuthResponse, error)
	SignInEmail(ctx context.Context, req notesdk.SignInRequest) (*notesdk.AuthResponse, error)
	SignInAnonymous(ctx context.Context) (*notesdk.AuthResponse, error)
	SignOut(ctx context.Context) error

	ListNotes(ctx context.Context) ([]notesdk.Note, error)
	GetNote(ctx context.Context, id string) (*notesdk.Note, error)
	CreateNote(ctx context.Context, in notesdk.NoteInput) (*notesdk.Note, error)
	UpdateNote(ctx context.Context, in notesdk.NoteUpdate) (*notesdk.Note, error)
	DeleteNote(ctx context.Context, id string) error
	SemanticSearch(ctx context.Context, query string) (*notesdk.SearchResult, error)
}

const prompt = "notes> "

const helpText = `commands:
  signup <email> <password> [name]   create an account and log in
  login <email> <password>           log in
  anon                               continue as a guest
  logout                             end the session
  whoami                             show the current user
  ls                                 list notes, newest first
  get <id>                           show a note
  new <title> | <description>        create a note
  edit <id> <title> | <description>  replace a note
  rm <id>                            delete a note
  search <query>                     find notes by meaning
  help                               show this text
  quit                               leave
`

type shell struct {
	api    notesAPI
	in     io.Reader
	out    io.Writer
	logger *slog.Logger
}

type command func(ctx context.Context, args string) error

var errQuit = errors.New("quit")

// Run reads one command per line until quit, EOF or ctx is done.
func (s *shell) Run(ctx context.Context) error {
	commands := map[string]command{
		"signup": s.signUp,
		"login":  s.logIn,
		"anon":   s.anon,
		"logout": s.logOut,
		"whoami": s.whoAmI,
		"ls":     s.list,
		"get":    s.get,
		"new":    s.create,
		"edit":   s.edit,
		"rm":     s.remove,
		"search": s.search,
		"help":   s.help,
		"quit":   func(context.Context, string) error { return errQuit },
		"exit":   func(context.Context, string) error { return errQuit },
	}

	scanner := bufio.NewScanner(s.in)
	s.printf("%s", prompt)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		name, args, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		if name != "" {
			cmd, ok := commands[strings.ToLower(name)]
			if !ok {
				s.printf("unknown command %q, try help\n", name)
			} else if err := cmd(ctx, strings.TrimSpace(args)); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				s.report(name, err)
			}
		}
		s.printf("%s", prompt)
	}
	return scanner.Err()
}

// report prints err in user terms. A missing session is a prompt to log in,
// not a failure.
func (s *shell) report(cmd string, err error) {
	s.logger.Debug("command failed", "command", cmd, "error", err)

	var (
		usage   usageError
		httpErr *notesdk.HTTPError
	)
	switch {
	case errors.As(err, &usage):
		s.printf("usage: %s\n", string(usage))
	case errors.Is(err, notesdk.ErrUnauthenticated):
		s.printf("please log in (login, signup or anon)\n")
	case errors.Is(err, notesdk.ErrAuthorizationRejected):
		s.printf("the server rejected your session, please log in again\n")
	case errors.As(err, &httpErr):
		if apiErr, ok := httpErr.APIError(); ok {
			s.printf("error: %s\n", describe(apiErr))
			return
		}
		s.printf("error: %s\n", httpErr.StatusText)
	case errors.Is(err, context.DeadlineExceeded):
		s.printf("error: the server did not answer in time\n")
	default:
		s.logger.Warn("command failed", "command", cmd, "error", err)
		s.printf("error: %v\n", err)
	}
}

func describe(e *notesdk.APIError) string {
	switch e.Code {
	case notesdk.ErrorCodeNotFound:
		return "no such note"
	case notesdk.ErrorCodeInvalidCredentials:
		return "wrong email or password"
	case notesdk.ErrorCodeEmailTaken:
		return "that email already has an account"
	}
	if e.Description != "" {
		return e.Description
	}
	return e.Code
}

type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

func (s *shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func (s *shell) signUp(ctx context.Context, args string) error {
	parts := strings.SplitN(args, " ", 3)
	if len(parts) < 2 {
		return usageError("signup <email> <password> [name]")
	}
	req := notesdk.SignUpRequest{Email: parts[0], Password: parts[1]}
	if len(parts) == 3 {
		req.Name = strings.TrimSpace(parts[2])
	}

	res, err := s.api.SignUpEmail(ctx, req)
	if err != nil {
		return err
	}
	s.printf("welcome, %s\n", displayName(authUser(res)))
	return nil
}

func (s *shell) logIn(ctx context.Context, args string) error {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return usageError("login <email> <password>")
	}

	res, err := s.api.SignInEmail(ctx, notesdk.SignInRequest{Email: parts[0], Password: parts[1]})
	if err != nil {
		return err
	}
	s.printf("logged in as %s\n", displayName(authUser(res)))
	return nil
}

func (s *shell) anon(ctx context.Context, _ string) error {
	if _, err := s.api.SignInAnonymous(ctx); err != nil {
		return err
	}
	s.printf("continuing as a guest; sign up to keep your notes\n")
	return nil
}

func (s *shell) logOut(ctx context.Context, _ string) error {
	if err := s.api.SignOut(ctx); err != nil {
		return err
	}
	s.printf("logged out\n")
	return nil
}

func (s *shell) whoAmI(ctx context.Context, _ string) error {
	info, err := s.api.GetSession(ctx)
	if err != nil {
		return err
	}
	if info == nil {
		return notesdk.ErrUnauthenticated
	}
	if info.Session == nil {
		s.printf("%s\n", displayName(info.User))
		return nil
	}
	s.printf("%s (session expires %s)\n", displayName(info.User), info.Session.ExpiresAt.Local().Format(time.RFC1123))
	return nil
}

func (s *shell) list(ctx context.Context, _ string) error {
	notes, err := s.api.ListNotes(ctx)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		s.printf("no notes yet, create one with new\n")
		return nil
	}

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tUPDATED")
	for _, n := range notes {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", n.ID, n.Title, n.UpdatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func (s *shell) get(ctx context.Context, args string) error {
	if args == "" {
		return usageError("get <id>")
	}

	note, err := s.api.GetNote(ctx, args)
	if err != nil {
		return err
	}
	if note == nil {
		s.printf("no such note\n")
		return nil
	}
	s.printNote(note)
	return nil
}

func (s *shell) create(ctx context.Context, args string) error {
	title, description, ok := splitNote(args)
	if !ok {
		return usageError("new <title> | <description>")
	}

	note, err := s.api.CreateNote(ctx, notesdk.NoteInput{Title: title, Description: description})
	if err != nil {
		return err
	}
	if note == nil {
		s.printf("created\n")
		return nil
	}
	s.printf("created %s\n", note.ID)
	return nil
}

func (s *shell) edit(ctx context.Context, args string) error {
	id, rest, _ := strings.Cut(args, " ")
	title, description, ok := splitNote(rest)
	if id == "" || !ok {
		return usageError("edit <id> <title> | <description>")
	}

	note, err := s.api.UpdateNote(ctx, notesdk.NoteUpdate{ID: id, Title: title, Description: description})
	if err != nil {
		return err
	}
	if note == nil {
		s.printf("updated %s\n", id)
		return nil
	}
	s.printf("updated %s\n", note.ID)
	return nil
}

func (s *shell) remove(ctx context.Context, args string) error {
	if args == "" {
		return usageError("rm <id>")
	}
	if err := s.api.DeleteNote(ctx, args); err != nil {
		return err
	}
	s.printf("deleted %s\n", args)
	return nil
}

func (s *shell) search(ctx context.Context, args string) error {
	if args == "" {
		return usageError("search <query>")
	}

	res, err := s.api.SemanticSearch(ctx, args)
	if err != nil {
		return err
	}
	if res == nil || len(res.Matches) == 0 {
		s.printf("nothing matched\n")
		return nil
	}

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SCORE\tID\tTITLE")
	for _, m := range res.Matches {
		_, _ = fmt.Fprintf(tw, "%.2f\t%s\t%s\n", m.Score, m.ID, m.Title)
	}
	return tw.Flush()
}

func (s *shell) help(context.Context, string) error {
	s.printf("%s", helpText)
	return nil
}

func (s *shell) printNote(n *notesdk.Note) {
	s.printf("%s\n%s\n\n%s\n", n.Title, strings.Repeat("-", len(n.Title)), n.Description)
	s.printf("\nid %s, updated %s\n", n.ID, n.UpdatedAt.Local().Format(time.DateTime))
}

// splitNote parses "<title> | <description>". The description may be empty.
func splitNote(s string) (title, description string, ok bool) {
	title, description, _ = strings.Cut(s, "|")
	title = strings.TrimSpace(title)
	return title, strings.TrimSpace(description), title != ""
}

// authUser tolerates a sign-in answered with an empty body.
func authUser(res *notesdk.AuthResponse) *notesdk.User {
	if res == nil {
		return nil
	}
	return res.User
}

func displayName(u *notesdk.User) string {
	switch {
	case u == nil:
		return "unknown user"
	case u.IsAnonymous:
		return "guest"
	case u.Name != "":
		return u.Name + " <" + u.Email + ">"
	default:
		return u.Email
	}
}
