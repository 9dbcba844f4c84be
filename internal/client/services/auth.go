// Package services contains the application services used by the CLI.
// This file defines the authentication service: login, registration and
// logout on top of the API gateway and the session store.
package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/postdesk/internal/client/client"
	"github.com/dmitrijs2005/postdesk/internal/client/models"
	"github.com/dmitrijs2005/postdesk/internal/logging"
)

const (
	loginFallback    = "Login failed"
	registerFallback = "Registration failed"
)

// Session is the part of the session store the auth service writes to.
type Session interface {
	SetSession(ctx context.Context, user models.User, token string) error
	Clear(ctx context.Context) error
	Token() string
}

// Result is the outcome of an auth action, ready for display.
// Error is the user-facing message; Err keeps the underlying cause.
type Result struct {
	Success bool
	Message string
	Error   string
	Err     error
}

// ValidationError is input rejected before anything is sent.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login/Register: on success the returned identity and token become
//     the session; on failure the session is left as it was.
//   - Logout: tells the server when there is a token, then always clears
//     the session. A 404 from the server is not an error.
type AuthService interface {
	Login(ctx context.Context, email, password string) Result
	Register(ctx context.Context, in RegisterInput) Result
	Logout(ctx context.Context) error
}

type authService struct {
	client  client.Client
	session Session
	logger  logging.Logger
}

func NewAuthService(c client.Client, s Session, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &authService{client: c, session: s, logger: logger.With("component", "auth")}
}

func (a *authService) Login(ctx context.Context, email, password string) Result {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return failure(&ValidationError{Msg: "Email and password are required"}, loginFallback)
	}

	payload, err := a.client.Login(ctx, email, password)
	if err != nil {
		a.logger.Info(ctx, "login failed", "email", email, "error", err)
		return failure(err, loginFallback)
	}
	return a.establish(ctx, payload, loginFallback)
}

func (a *authService) Register(ctx context.Context, in RegisterInput) Result {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = models.RoleUser
	}

	switch {
	case in.Name == "" || in.Email == "" || in.Password == "":
		return failure(&ValidationError{Msg: "Name, email and password are required"}, registerFallback)
	case !in.Role.Valid():
		return failure(&ValidationError{Msg: "Role must be one of user, editor, admin"}, registerFallback)
	}

	payload, err := a.client.Register(ctx, client.RegisterRequest{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
	})
	if err != nil {
		a.logger.Info(ctx, "registration failed", "email", in.Email, "error", err)
		return failure(err, registerFallback)
	}
	return a.establish(ctx, payload, registerFallback)
}

func (a *authService) establish(ctx context.Context, p *client.AuthPayload, fallback string) Result {
	if p == nil || p.Token == "" {
		return failure(client.ErrInvalidResponse, fallback)
	}
	if err := a.session.SetSession(ctx, p.User, p.Token); err != nil {
		a.logger.Error(ctx, "failed to store session", "error", err)
		return failure(err, fallback)
	}
	a.logger.Info(ctx, "signed in", "user_id", p.User.ID, "role", p.User.Role)
	return Result{Success: true, Message: p.Msg}
}

func (a *authService) Logout(ctx context.Context) (err error) {
	defer func() {
		if cerr := a.session.Clear(ctx); cerr != nil {
			a.logger.Error(ctx, "failed to clear session", "error", cerr)
		}
	}()

	if a.session.Token() == "" {
		return nil
	}

	if err := a.client.Logout(ctx); err != nil {
		if client.StatusCode(err) == http.StatusNotFound {
			// the server has no logout route; the local clear is enough
			return nil
		}
		a.logger.Warn(ctx, "logout request failed", "error", err)
		return err
	}
	return nil
}

func failure(err error, fallback string) Result {
	return Result{Error: client.Message(err, fallback), Err: err}
}
