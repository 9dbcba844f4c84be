package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/postdesk/internal/client/client"
	"github.com/dmitrijs2005/postdesk/internal/client/models"
)

const (
	featuredExcerpt = 150
	listExcerpt     = 100
	dateLayout      = "Jan 2, 2006"
)

func formatDate(t models.Timestamp) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Format(dateLayout)
}

func formatTags(tags models.Tags) string {
	if len(tags) == 0 {
		return ""
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "#" + t
	}
	return strings.Join(out, " ")
}

// byline is "By <author> · <date>" plus tags when there are any.
func byline(p models.Post) string {
	author := p.Author.Name
	if author == "" {
		author = "Unknown"
	}
	line := fmt.Sprintf("By %s · %s", author, formatDate(p.CreatedAt))
	if tags := formatTags(p.Tag); tags != "" {
		line += " · " + tags
	}
	return line
}

// writePostSummary prints the id, title, byline and an excerpt of n runes.
func writePostSummary(w io.Writer, p models.Post, n int) {
	fmt.Fprintf(w, "[%s] %s\n", p.ID, p.Title)
	fmt.Fprintf(w, "    %s\n", byline(p))
	if ex := p.Excerpt(n); ex != "" {
		fmt.Fprintf(w, "    %s\n", ex)
	}
}

func writePost(w io.Writer, p models.Post) {
	fmt.Fprintln(w, p.Title)
	fmt.Fprintln(w, strings.Repeat("=", len([]rune(p.Title))))
	fmt.Fprintln(w, byline(p))
	fmt.Fprintln(w)
	fmt.Fprintln(w, p.Content)
}

// ShowPost fetches and prints one post. It is public.
func (a *App) ShowPost(ctx context.Context, id string) error {
	p, err := a.api.GetPost(ctx, models.ID(id))
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			a.println("Post not found.")
		} else {
			a.printf("Error: %s\n", client.Message(err, "Failed to load post"))
		}
		return err
	}
	writePost(a.out, *p)
	return nil
}
