// Package client is the API gateway of the postdesk CLI.
//
// # Overview
//
//  1. Client describes the content API as the CLI consumes it: auth
//     (Register/Login/Logout/Me), posts and users.
//  2. HTTPClient implements it over JSON/HTTP. It attaches the bearer token
//     from a TokenSource, stamps every request with an X-Request-ID,
//     optionally throttles with a token bucket, and unwraps the API's
//     inconsistent envelopes through package envelope.
//  3. InitDatabase / RunMigrations bootstrap the local SQLite file that
//     holds the persisted session.
//
// # Error Handling
//
// Every failed call returns an *APIError carrying the HTTP status, the
// server's "msg"/"message" fields and the transport cause. Its Kind is one
// of ErrUnavailable, ErrUnauthorized, ErrNotFound (match with errors.Is).
// Message(err, fallback) renders the single user-facing line. Successful
// responses missing required fields yield ErrInvalidResponse.
package client
