// Package cli provides the interactive postdesk terminal client.
//
// It wires configuration, the local session database, the API gateway and
// the services into a REPL. At start-up the persisted session is loaded and
// re-verified in the background; screens that need a signed-in user wait
// for that verification before deciding where to go.
//
// Screens:
//   - posts / post <id>: the public feed and a single post
//   - account: the signed-in user's profile
//   - editor: the editor's own posts, with newpost, editpost and delpost
//   - admin: every user and post, with deluser and delpost
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
