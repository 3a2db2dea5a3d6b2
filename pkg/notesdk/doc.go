/*
Package notesdk is the client for the notes backend. It bridges a cookie based
session to the short-lived bearer token the notes API requires.

# Session vs Bearer

The backend has two kinds of endpoints:

  - Session endpoints (sign up, sign in, sign out, session check, token issue)
    authenticate with a cookie. The SDKClient keeps it in its cookie jar.
  - Protected endpoints (notes, search) need an "Authorization: Bearer" header
    with a token minted by the issue endpoint.

Create a client and sign in:

	client := notesdk.NewSDKClient("http://localhost:8080")

	_, err := client.SignInEmail(ctx, notesdk.SignInRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery staple",
	})

Protected calls then just work:

	notes, err := client.ListNotes(ctx)
	note, err := client.CreateNote(ctx, notesdk.NoteInput{Title: "Groceries"})
	res, err := client.SemanticSearch(ctx, "what do I need to buy")

# Token Cache

The TokenProvider holds at most one bearer credential. A credential issued
with expiresIn seconds is trusted for expiresIn minus a safety margin
(15 seconds by default), so a token is never sent when it is about to lapse
on the server. When the cache is empty or stale, the next protected call asks
the issuer for a new token before dispatching. Concurrent callers that find
the cache stale share one issue call.

# Retry Policy

Every protected call runs through Executor.Do:

 1. Get a valid credential, issuing one if needed. No session means
    ErrUnauthenticated and the request is never sent.
 2. Send the request with the bearer header.
 3. On 401, drop the credential, issue a new one and send exactly once more.
 4. A second 401 returns an error matching ErrAuthorizationRejected.

Any other non-2xx status is returned as *HTTPError without retrying. An
empty 2xx body means "no result" and returns nil; a body that is not valid
JSON returns *MalformedResponseError.

# Error Handling

	notes, err := client.ListNotes(ctx)
	switch {
	case errors.Is(err, notesdk.ErrUnauthenticated):
		// send the user to sign in
	case errors.Is(err, notesdk.ErrAuthorizationRejected):
		// the backend keeps refusing fresh tokens
	default:
		var httpErr *notesdk.HTTPError
		if errors.As(err, &httpErr) {
			fmt.Println(httpErr.StatusCode, httpErr.Body)
		}
	}

# Cancellation

All calls take a context.Context. A cancelled caller returns immediately with
the context error. A token refresh shared with other callers keeps running so
that its result still lands in the cache.

# Thread Safety

SDKClient, Executor and TokenProvider are safe for concurrent use.
*/
package notesdk
