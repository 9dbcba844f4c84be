// Package guard decides whether the current session may open a view.
package guard

import (
	"context"

	"github.com/dmitrijs2005/postdesk/internal/client/models"
	"github.com/dmitrijs2005/postdesk/internal/client/session"
)

type View string

const (
	ViewHome            View = "home"
	ViewPosts           View = "posts"
	ViewPost            View = "post"
	ViewLogin           View = "login"
	ViewRegister        View = "register"
	ViewAccount         View = "account"
	ViewEditorDashboard View = "editor-dashboard"
	ViewAdminDashboard  View = "admin-dashboard"
)

// requirement is what a view asks of the session.
type requirement struct {
	auth bool
	role models.Role
}

var requirements = map[View]requirement{
	ViewAccount:         {auth: true},
	ViewEditorDashboard: {auth: true, role: models.RoleEditor},
	ViewAdminDashboard:  {auth: true, role: models.RoleAdmin},
}

// Public reports whether v can be opened without signing in.
func (v View) Public() bool { return !requirements[v].auth }

type Outcome int

const (
	Pending Outcome = iota
	Allow
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

type Decision struct {
	Outcome Outcome
	To      View
}

// Decide applies the access policy. Nothing is decided while the session
// is still loading. Unknown views are treated as public.
func Decide(st session.State, v View) Decision {
	if st.Loading {
		return Decision{Outcome: Pending}
	}

	req := requirements[v]
	if !req.auth {
		return Decision{Outcome: Allow}
	}
	if !st.IsAuthenticated() {
		return Decision{Outcome: Redirect, To: ViewLogin}
	}
	if req.role != "" && !st.Role().AtLeast(req.role) {
		return Decision{Outcome: Redirect, To: ViewHome}
	}
	return Decision{Outcome: Allow}
}

// Source is the session as seen by the guard.
type Source interface {
	Snapshot() session.State
	Ready() <-chan struct{}
}

type Guard struct {
	src Source
}

func New(src Source) *Guard { return &Guard{src: src} }

// Enter waits for the session to finish loading, then decides. If ctx ends
// first the decision is Pending and ctx.Err() is returned.
func (g *Guard) Enter(ctx context.Context, v View) (Decision, error) {
	if v.Public() {
		return Decision{Outcome: Allow}, nil
	}

	select {
	case <-g.src.Ready():
	case <-ctx.Done():
		return Decision{Outcome: Pending}, ctx.Err()
	}
	return Decide(g.src.Snapshot(), v), nil
}

// Resolve follows redirects until a view is allowed, so the caller always
// lands somewhere it may render.
func (g *Guard) Resolve(ctx context.Context, v View) (View, error) {
	for range len(requirements) + 1 {
		d, err := g.Enter(ctx, v)
		if err != nil {
			return v, err
		}
		if d.Outcome != Redirect {
			return v, nil
		}
		v = d.To
	}
	return ViewHome, nil
}
