package client

import (
	"context"

	"github.com/dmitrijs2005/postdesk/internal/client/models"
)

// Client is the contract of the content API as consumed by the CLI.
type Client interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthPayload, error)
	Login(ctx context.Context, email, password string) (*AuthPayload, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)

	ListPosts(ctx context.Context) ([]models.Post, error)
	ListMyPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id models.ID) (*models.Post, error)
	CreatePost(ctx context.Context, in models.PostInput) error
	UpdatePost(ctx context.Context, id models.ID, in models.PostInput) error
	DeletePost(ctx context.Context, id models.ID) error

	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id models.ID) error
}

// TokenSource hands out the bearer token for the current session, or ""
// when nobody is logged in.
type TokenSource interface {
	Token() string
}

type RegisterRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthPayload is the identity and credential issued by login/register,
// plus the optional confirmation text the server sends in "msg".
type AuthPayload struct {
	User  models.User
	Token string
	Msg   string
}
