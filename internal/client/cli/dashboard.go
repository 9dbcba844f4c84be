package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/postdesk/internal/client/guard"
	"github.com/dmitrijs2005/postdesk/internal/client/resources"
	"golang.org/x/sync/errgroup"
)

// EditorDashboard lists the signed-in editor's own posts.
func (a *App) EditorDashboard(ctx context.Context) error {
	v, ok := a.enter(ctx, guard.ViewEditorDashboard)
	if !ok {
		return nil
	}
	if v != guard.ViewEditorDashboard {
		return a.open(ctx, v)
	}

	a.board = a.myPosts
	_ = a.myPosts.List(ctx)
	a.renderPostBoard("My posts", a.myPosts)
	return nil
}

// AdminDashboard lists every user and every post. Both lists are fetched
// at the same time; either may fail without affecting the other.
func (a *App) AdminDashboard(ctx context.Context) error {
	v, ok := a.enter(ctx, guard.ViewAdminDashboard)
	if !ok {
		return nil
	}
	if v != guard.ViewAdminDashboard {
		return a.open(ctx, v)
	}

	a.board = a.allPosts
	a.loadAdmin(ctx)
	a.renderAdmin()
	return nil
}

func (a *App) loadAdmin(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error { return a.users.List(ctx) })
	g.Go(func() error { return a.allPosts.List(ctx) })
	if err := g.Wait(); err != nil {
		a.logger.Warn(ctx, "admin dashboard partially loaded", "error", err)
	}
}

func (a *App) renderAdmin() {
	users := a.users.Items()
	a.printf("Users (%d)\n", len(users))
	if msg := a.users.Error(); msg != "" {
		a.printf("  Error: %s (type 'dismiss' to clear)\n", msg)
	}
	for _, u := range users {
		marker := ""
		if me := a.self(); me != nil && me.ID == u.ID {
			marker = " (you)"
		}
		a.printf("  [%s] %s <%s> %s%s\n", u.ID, u.DisplayName(), u.Email, u.Role, marker)
	}
	a.println()
	a.renderPostBoard("All posts", a.allPosts)
}

func (a *App) renderPostBoard(title string, m *resources.PostManager) {
	posts := m.Items()
	a.printf("%s (%d)\n", title, len(posts))
	if msg := m.Error(); msg != "" {
		a.printf("  Error: %s (type 'dismiss' to clear)\n", msg)
	}
	if len(posts) == 0 && m.Error() == "" {
		a.println("  No posts yet.")
		return
	}
	for _, p := range posts {
		line := fmt.Sprintf("  [%s] %s · %s", p.ID, p.Title, formatDate(p.CreatedAt))
		if tags := formatTags(p.Tag); tags != "" {
			line += " · " + tags
		}
		a.println(line)
	}
}

// Refresh reloads the dashboard opened last, or the feed.
func (a *App) Refresh(ctx context.Context) error {
	switch a.board {
	case a.myPosts:
		return a.EditorDashboard(ctx)
	case a.allPosts:
		return a.AdminDashboard(ctx)
	default:
		return a.Feed(ctx)
	}
}

// Dismiss clears every pending error message.
func (a *App) Dismiss(context.Context) error {
	a.feed.DismissError()
	a.myPosts.DismissError()
	a.allPosts.DismissError()
	a.users.DismissError()
	return nil
}
