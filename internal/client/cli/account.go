package cli

import (
	"context"

	"github.com/dmitrijs2005/postdesk/internal/client/guard"
)

// Account prints the signed-in user's profile.
func (a *App) Account(ctx context.Context) error {
	v, ok := a.enter(ctx, guard.ViewAccount)
	if !ok {
		return nil
	}
	if v != guard.ViewAccount {
		return a.open(ctx, v)
	}

	u := a.self()
	if u == nil {
		return nil
	}

	joined := "unknown"
	if !u.CreatedAt.IsZero() {
		joined = u.CreatedAt.Format("January 2006")
	}

	a.printf("Name:   %s\n", u.DisplayName())
	a.printf("Email:  %s\n", u.Email)
	a.printf("Role:   %s\n", u.Role)
	a.printf("Joined: %s\n", joined)
	return nil
}
