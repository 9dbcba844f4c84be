package cli

import (
	"context"

	"github.com/dmitrijs2005/postdesk/internal/client/models"
	"github.com/dmitrijs2005/postdesk/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register prompts for name, email, password and role and creates the
// account. On success the new account is signed in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	role, err := getSimpleText(a.reader, "Role (user, editor, admin) [user]", a.out)
	if err != nil {
		return err
	}

	res := a.auth.Register(ctx, services.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     models.Role(role),
	})
	if !res.Success {
		a.printf("Error: %s\n", res.Error)
		return res.Err
	}

	if res.Message != "" {
		a.println(res.Message)
	} else {
		a.println("Success!")
	}
	return nil
}

// Login prompts for credentials, signs in and shows the account.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	res := a.auth.Login(ctx, email, password)
	if !res.Success {
		a.printf("Error: %s\n", res.Error)
		return res.Err
	}

	if u := a.self(); u != nil {
		a.printf("Welcome, %s!\n", u.DisplayName())
	}
	return a.Account(ctx)
}

// Logout ends the session. It always succeeds locally; a failed server
// notification is only logged.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.logger.Warn(ctx, "logout notification failed", "error", err)
	}
	a.board = nil
	a.println("Logged out.")
	return nil
}
