package resources

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/postdesk/internal/client/models"
	"github.com/dmitrijs2005/postdesk/internal/logging"
)

var (
	ErrMissingPostID = errors.New("Post ID is missing. Cannot update post.")
	ErrEmptyPost     = errors.New("Title and content are required")
)

const (
	postsFallback      = "Failed to load posts"
	savePostFallback   = "Failed to save post"
	deletePostFallback = "Failed to delete post"
)

// PostAPI is the slice of the gateway that post screens use.
type PostAPI interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListMyPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, in models.PostInput) error
	UpdatePost(ctx context.Context, id models.ID, in models.PostInput) error
	DeletePost(ctx context.Context, id models.ID) error
}

type Scope int

const (
	AllPosts Scope = iota
	MyPosts
)

// PostForm is the editor's raw input. Tags is comma-separated text.
type PostForm struct {
	Title   string
	Content string
	Tags    string
	Author  string
}

// FormFromPost pre-fills the editor with an existing post.
func FormFromPost(p models.Post) PostForm {
	return PostForm{
		Title:   p.Title,
		Content: p.Content,
		Tags:    p.Tag.String(),
		Author:  p.Author.Name,
	}
}

// Input converts the form to the API payload. An empty author is omitted.
func (f PostForm) Input() models.PostInput {
	return models.PostInput{
		Title:   strings.TrimSpace(f.Title),
		Content: f.Content,
		Tag:     models.ParseTags(f.Tags),
		Author:  strings.TrimSpace(f.Author),
	}
}

type PostManager struct {
	*Manager[models.Post]
	api PostAPI
}

func NewPostManager(api PostAPI, scope Scope, logger logging.Logger) *PostManager {
	fetch := api.ListPosts
	if scope == MyPosts {
		fetch = api.ListMyPosts
	}
	return &PostManager{
		Manager: NewManager(Fetcher[models.Post](fetch), postsFallback, logger),
		api:     api,
	}
}

func (m *PostManager) Create(ctx context.Context, f PostForm) error {
	in := f.Input()
	if in.Title == "" || strings.TrimSpace(in.Content) == "" {
		m.fail(ErrEmptyPost, savePostFallback)
		return ErrEmptyPost
	}
	return m.Mutate(ctx, savePostFallback, func(ctx context.Context) error {
		return m.api.CreatePost(ctx, in)
	})
}

func (m *PostManager) Update(ctx context.Context, id models.ID, f PostForm) error {
	if strings.TrimSpace(id.String()) == "" {
		m.fail(ErrMissingPostID, savePostFallback)
		return ErrMissingPostID
	}
	in := f.Input()
	if in.Title == "" || strings.TrimSpace(in.Content) == "" {
		m.fail(ErrEmptyPost, savePostFallback)
		return ErrEmptyPost
	}
	return m.Mutate(ctx, savePostFallback, func(ctx context.Context) error {
		return m.api.UpdatePost(ctx, id, in)
	})
}

func (m *PostManager) Delete(ctx context.Context, id models.ID) error {
	return m.Mutate(ctx, deletePostFallback, func(ctx context.Context) error {
		return m.api.DeletePost(ctx, id)
	})
}

// Find looks a post up in the loaded list.
func (m *PostManager) Find(id models.ID) (models.Post, bool) {
	for _, p := range m.Items() {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}
