package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/postdesk/internal/client/client"
	"github.com/dmitrijs2005/postdesk/internal/client/guard"
	"github.com/dmitrijs2005/postdesk/internal/client/models"
	"github.com/dmitrijs2005/postdesk/internal/client/resources"
)

// getMultiline is swapped in tests like getSimpleText.
var getMultiline = GetMultiline

// editorBoard is the post list edits go through: the admin list when the
// admin dashboard was opened last, otherwise the editor's own posts.
func (a *App) editorBoard() *resources.PostManager {
	if a.board != nil {
		return a.board
	}
	return a.myPosts
}

// inputPostForm prompts for every field, offering cur as the default.
func (a *App) inputPostForm(cur resources.PostForm) (resources.PostForm, error) {
	var (
		f   resources.PostForm
		err error
	)
	if f.Title, err = GetTextWithDefault(a.reader, "Title", cur.Title, a.out); err != nil {
		return f, err
	}

	prompt := "Content"
	if cur.Content != "" {
		prompt = "Content (leave empty to keep the current text)"
	}
	if f.Content, err = getMultiline(a.reader, prompt, a.out); err != nil {
		return f, err
	}
	if f.Content == "" {
		f.Content = cur.Content
	}

	if f.Tags, err = GetTextWithDefault(a.reader, "Tags, comma-separated", cur.Tags, a.out); err != nil {
		return f, err
	}
	if f.Author, err = GetTextWithDefault(a.reader, "Author (optional)", cur.Author, a.out); err != nil {
		return f, err
	}
	return f, nil
}

// NewPost collects a post and publishes it.
func (a *App) NewPost(ctx context.Context) error {
	v, ok := a.enter(ctx, guard.ViewEditorDashboard)
	if !ok {
		return nil
	}
	if v != guard.ViewEditorDashboard {
		return a.open(ctx, v)
	}

	form, err := a.inputPostForm(resources.PostForm{})
	if err != nil {
		return err
	}

	m := a.editorBoard()
	if err := m.Create(ctx, form); err != nil {
		a.printf("Error: %s\n", m.Error())
		return err
	}
	a.println("Post created.")
	return nil
}

// EditPost loads a post into the form, pre-filled, and saves the changes.
func (a *App) EditPost(ctx context.Context, id string) error {
	v, ok := a.enter(ctx, guard.ViewEditorDashboard)
	if !ok {
		return nil
	}
	if v != guard.ViewEditorDashboard {
		return a.open(ctx, v)
	}

	m := a.editorBoard()
	post, found := m.Find(models.ID(id))
	if !found {
		p, err := a.api.GetPost(ctx, models.ID(id))
		if err != nil {
			if errors.Is(err, client.ErrNotFound) {
				a.println("Post not found.")
			} else {
				a.printf("Error: %s\n", client.Message(err, "Failed to load post"))
			}
			return err
		}
		post = *p
	}

	form, err := a.inputPostForm(resources.FormFromPost(post))
	if err != nil {
		return err
	}

	if err := m.Update(ctx, post.ID, form); err != nil {
		a.printf("Error: %s\n", m.Error())
		return err
	}
	a.println("Post updated.")
	return nil
}
