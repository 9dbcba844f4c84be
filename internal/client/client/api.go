package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/postdesk/internal/client/envelope"
	"github.com/dmitrijs2005/postdesk/internal/client/models"
)

// Object strategies. Auth payloads and identities sit at the top level or
// one level down under "data"; a single post under "post", "DATA" or "data".
var (
	userStrategies  = []envelope.Strategy{envelope.Field("user"), envelope.Field("data", "user"), envelope.Field("DATA", "user")}
	tokenStrategies = []envelope.Strategy{envelope.Field("token"), envelope.Field("data", "token"), envelope.Field("DATA", "token")}
	msgStrategies   = []envelope.Strategy{envelope.Field("msg"), envelope.Field("data", "msg")}
	postStrategies  = []envelope.Strategy{envelope.Field("post"), envelope.Field("DATA"), envelope.Field("data")}
)

func parseAuth(body []byte) (*AuthPayload, error) {
	user, okUser := envelope.Decode[models.User](body, userStrategies...)
	token, okToken := envelope.Decode[string](body, tokenStrategies...)
	if !okUser || !okToken || token == "" {
		return nil, ErrInvalidResponse
	}
	msg, _ := envelope.Decode[string](body, msgStrategies...)
	return &AuthPayload{User: user, Token: token, Msg: msg}, nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*AuthPayload, error) {
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	body, err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/register", body: req, auth: authNone})
	if err != nil {
		return nil, err
	}
	return parseAuth(body)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   loginRequest{Email: email, Password: password},
		auth:   authNone,
	})
	if err != nil {
		return nil, err
	}
	return parseAuth(body)
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/logout", body: struct{}{}, auth: authRequired})
	return err
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: "/api/users/me", auth: authRequired})
	if err != nil {
		return nil, err
	}
	user, ok := envelope.Decode[models.User](body, userStrategies...)
	if !ok {
		return nil, ErrInvalidResponse
	}
	return &user, nil
}

func (c *HTTPClient) ListPosts(ctx context.Context) ([]models.Post, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: "/api/post", auth: authOptional})
	if err != nil {
		return nil, err
	}
	return envelope.List[models.Post](body, "posts"), nil
}

func (c *HTTPClient) ListMyPosts(ctx context.Context) ([]models.Post, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: "/api/post/my-posts", auth: authRequired})
	if err != nil {
		return nil, err
	}
	return envelope.List[models.Post](body, "posts"), nil
}

func (c *HTTPClient) GetPost(ctx context.Context, id models.ID) (*models.Post, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: postPath(id.String()), auth: authOptional})
	if err != nil {
		return nil, err
	}
	post, ok := envelope.Decode[models.Post](body, postStrategies...)
	if !ok || post.ID == "" {
		return nil, ErrInvalidResponse
	}
	return &post, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, in models.PostInput) error {
	_, err := c.do(ctx, request{method: http.MethodPost, path: "/api/post", body: in, auth: authRequired})
	return err
}

func (c *HTTPClient) UpdatePost(ctx context.Context, id models.ID, in models.PostInput) error {
	_, err := c.do(ctx, request{method: http.MethodPut, path: postPath(id.String()), body: in, auth: authRequired})
	return err
}

func (c *HTTPClient) DeletePost(ctx context.Context, id models.ID) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: postPath(id.String()), auth: authRequired})
	return err
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: "/api/users", auth: authRequired})
	if err != nil {
		return nil, err
	}
	return envelope.List[models.User](body, "users"), nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id models.ID) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: userPath(id.String()), auth: authRequired})
	return err
}
