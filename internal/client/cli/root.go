package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	st := a.session()
	switch {
	case st.Loading && st.User == nil:
		return "(verifying...)"
	case st.User == nil:
		return "(guest)"
	default:
		return fmt.Sprintf("(%s %s)", st.User.DisplayName(), st.Role())
	}
}

// Root greets the user and runs the REPL on the app's input.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to postdesk (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}
