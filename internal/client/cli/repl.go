package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/postdesk/internal/client/models"
	"github.com/dmitrijs2005/postdesk/internal/client/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	session() session.State

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	Feed(ctx context.Context) error
	ShowPost(ctx context.Context, id string) error
	Account(ctx context.Context) error

	EditorDashboard(ctx context.Context) error
	NewPost(ctx context.Context) error
	EditPost(ctx context.Context, id string) error
	DeletePost(ctx context.Context, id string) error

	AdminDashboard(ctx context.Context) error
	DeleteUser(ctx context.Context, id string) error

	Refresh(ctx context.Context) error
	Dismiss(ctx context.Context) error
}

// helpText lists the commands that make sense for the session.
func helpText(st session.State) string {
	cmds := []string{"help", "posts", "post <id>"}
	if !st.IsAuthenticated() {
		cmds = append(cmds, "login", "register")
	} else {
		cmds = append(cmds, "account")
		if st.Role().AtLeast(models.RoleEditor) {
			cmds = append(cmds, "editor", "newpost", "editpost <id>", "delpost <id>")
		}
		if st.Role() == models.RoleAdmin {
			cmds = append(cmds, "admin", "deluser <id>")
		}
		cmds = append(cmds, "refresh", "dismiss", "logout")
	}
	cmds = append(cmds, "exit")
	return "Available commands: " + strings.Join(cmds, ", ")
}

// runREPL starts the read–eval–print loop of the postdesk CLI.
//
// It reads a line from in, parses the first token as the command and the
// rest as its argument, and dispatches to methods on 'a'. The loop exits on
// EOF or when the user types "exit" or "quit".
//
// Handlers report their own failures to the user, so their errors are
// ignored here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("postdesk %s> ", statusFn()))

		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, arg := parts[0], strings.Join(parts[1:], " ")

		withID := func(usage string, fn func(context.Context, string) error) {
			if arg == "" {
				printlnFn("Usage: " + usage)
				return
			}
			_ = fn(ctx, arg)
		}

		switch cmd {
		case "help":
			printlnFn(helpText(a.session()))

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)

		case "posts", "home", "l":
			_ = a.Feed(ctx)
		case "post", "show":
			withID("post <id>", a.ShowPost)
		case "account", "me":
			_ = a.Account(ctx)

		case "editor":
			_ = a.EditorDashboard(ctx)
		case "newpost":
			_ = a.NewPost(ctx)
		case "editpost":
			withID("editpost <id>", a.EditPost)
		case "delpost":
			withID("delpost <id>", a.DeletePost)

		case "admin":
			_ = a.AdminDashboard(ctx)
		case "deluser":
			withID("deluser <id>", a.DeleteUser)

		case "refresh":
			_ = a.Refresh(ctx)
		case "dismiss":
			_ = a.Dismiss(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
