package cli

import (
	"context"
)

// Feed prints all posts: the newest as the featured story, the rest
// below it with shorter excerpts.
func (a *App) Feed(ctx context.Context) error {
	if err := a.feed.List(ctx); err != nil {
		a.printf("Error: %s\n", a.feed.Error())
		return err
	}

	posts := a.feed.Items()
	if len(posts) == 0 {
		a.println("No posts yet.")
		return nil
	}

	a.println("Featured")
	writePostSummary(a.out, posts[0], featuredExcerpt)

	if len(posts) > 1 {
		a.println()
		a.println("Latest posts")
		for _, p := range posts[1:] {
			writePostSummary(a.out, p, listExcerpt)
		}
	}
	return nil
}
