package cli

import (
	"context"

	"github.com/dmitrijs2005/postdesk/internal/client/guard"
	"github.com/dmitrijs2005/postdesk/internal/client/models"
)

// confirmFn is a test seam for Confirm.
var confirmFn = Confirm

// DeletePost asks for confirmation and deletes a post from the current
// dashboard's list.
func (a *App) DeletePost(ctx context.Context, id string) error {
	v, ok := a.enter(ctx, guard.ViewEditorDashboard)
	if !ok {
		return nil
	}
	if v != guard.ViewEditorDashboard {
		return a.open(ctx, v)
	}

	if !confirmFn(a.reader, "Are you sure you want to delete this post?", a.out) {
		return nil
	}

	m := a.editorBoard()
	if err := m.Delete(ctx, models.ID(id)); err != nil {
		a.printf("Error: %s\n", m.Error())
		return err
	}
	a.println("Post deleted.")
	return nil
}

// DeleteUser removes an account. Deleting yourself is refused before
// anything is asked or sent.
func (a *App) DeleteUser(ctx context.Context, id string) error {
	v, ok := a.enter(ctx, guard.ViewAdminDashboard)
	if !ok {
		return nil
	}
	if v != guard.ViewAdminDashboard {
		return a.open(ctx, v)
	}

	uid := models.ID(id)
	if me := a.self(); me == nil || me.ID != uid {
		if !confirmFn(a.reader, "Are you sure you want to delete this user?", a.out) {
			return nil
		}
	}

	if err := a.users.Delete(ctx, uid); err != nil {
		a.printf("Error: %s\n", a.users.Error())
		return err
	}
	a.println("User deleted.")
	return nil
}
