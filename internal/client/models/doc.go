// Package models defines the client-side view of the content API's
// resources: users, roles and posts.
//
// The API is not consistent about shapes (ids arrive as "id" or "_id",
// strings or numbers; tags as a list or a comma-joined string; authors as a
// name or an embedded user), so the types here decode tolerantly and always
// present one canonical form to the rest of the client.
package models
