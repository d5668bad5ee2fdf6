/*
Package booklysdk holds the public API surface of the bookly service: the
request and response types, the error taxonomy and a small HTTP client.

# Client vs Session

Client covers the unauthenticated endpoints (signup, login, email links,
health). Authenticate returns a Session holding a token pair:

	client := booklysdk.NewClient("http://localhost:8080")

	session, err := client.Authenticate(ctx, "ada@example.com", "hunter22")
	if err != nil {
		return err
	}

	me, err := session.Me(ctx)

A Session retries a call once through the refresh endpoint when the access
token is rejected with invalid_token.

# Errors

Every endpoint answers errors with the same envelope:

	{"error": "account_not_verified", "error_description": "..."}

The client returns these as *APIError, which compares equal under errors.Is
to the predefined error with the same code:

	if errors.Is(err, booklysdk.ErrAccountNotVerified) {
		// ask the user to check their inbox
	}

The server writes the same values with APIError.WriteError.
*/
package booklysdk
