package models

import (
	"bytes"
	"encoding/json"
)

// Author is either a plain name or an embedded user reference.
type Author struct {
	Name string
	User *User
}

func (a *Author) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*a = Author{}
	switch {
	case bytes.Equal(b, []byte("null")):
		return nil
	case len(b) > 0 && b[0] == '"':
		return json.Unmarshal(b, &a.Name)
	case len(b) > 0 && b[0] == '{':
		var u User
		if err := json.Unmarshal(b, &u); err != nil {
			return err
		}
		a.User = &u
		a.Name = u.DisplayName()
		return nil
	default:
		// Bare ids are kept as the name so something is shown.
		var id ID
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		a.Name = id.String()
		return nil
	}
}

func (a Author) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Name)
}

func (a Author) String() string { return a.Name }

// Post is a blog entry.
type Post struct {
	ID        ID
	Title     string
	Content   string
	Tag       Tags
	Author    Author
	CreatedAt Timestamp
}

type postJSON struct {
	ID        ID        `json:"id,omitempty"`
	MongoID   ID        `json:"_id,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tag       *Tags     `json:"tag,omitempty"`
	Tags      *Tags     `json:"tags,omitempty"`
	Author    Author    `json:"author"`
	CreatedAt Timestamp `json:"createdAt"`
}

func (p *Post) UnmarshalJSON(b []byte) error {
	var raw postJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	tags := Tags{}
	switch {
	case raw.Tag != nil:
		tags = *raw.Tag
	case raw.Tags != nil:
		tags = *raw.Tags
	}
	*p = Post{
		ID:        pickID(raw.ID, raw.MongoID),
		Title:     raw.Title,
		Content:   raw.Content,
		Tag:       tags,
		Author:    raw.Author,
		CreatedAt: raw.CreatedAt,
	}
	return nil
}

func (p Post) MarshalJSON() ([]byte, error) {
	tags := p.Tag
	return json.Marshal(postJSON{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Tag:       &tags,
		Author:    p.Author,
		CreatedAt: p.CreatedAt,
	})
}

// Excerpt returns at most n runes of the content, with "..." appended when
// something was cut.
func (p Post) Excerpt(n int) string {
	r := []rune(p.Content)
	if len(r) <= n {
		return p.Content
	}
	return string(r[:n]) + "..."
}

// PostInput is the body sent on create and update. Author is omitted when
// empty so the server fills it from the caller's identity.
type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tag     Tags   `json:"tag"`
	Author  string `json:"author,omitempty"`
}
