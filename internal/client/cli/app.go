package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/postdesk/internal/client/client"
	"github.com/dmitrijs2005/postdesk/internal/client/config"
	"github.com/dmitrijs2005/postdesk/internal/client/guard"
	"github.com/dmitrijs2005/postdesk/internal/client/models"
	"github.com/dmitrijs2005/postdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/postdesk/internal/client/resources"
	"github.com/dmitrijs2005/postdesk/internal/client/services"
	"github.com/dmitrijs2005/postdesk/internal/client/session"
	"github.com/dmitrijs2005/postdesk/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	store *session.Store
	api   client.Client
	auth  services.AuthService
	guard *guard.Guard

	feed     *resources.PostManager
	myPosts  *resources.PostManager
	allPosts *resources.PostManager
	users    *resources.UserManager
	// board is the post list of the dashboard opened last.
	board *resources.PostManager

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the session database and builds the API gateway around
// the session store.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.SessionDBPath, "error", err)
		return nil, err
	}

	store := session.NewStore(metadata.NewSQLiteRepository(db), logger)

	api, err := client.NewHTTPClient(c.APIBaseURL, store,
		client.WithHTTPClient(&http.Client{Timeout: c.RequestTimeout}),
		client.WithRateLimit(c.RequestsPerSecond),
		client.WithLogger(logger),
		client.WithUnauthorizedHandler(func(ctx context.Context) {
			if err := store.Clear(ctx); err != nil {
				logger.Error(ctx, "failed to clear rejected session", "error", err)
			}
		}),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := newApp(c, logger, store, api, os.Stdin, os.Stdout)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, store *session.Store, api client.Client, in io.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	a := &App{
		config: c,
		logger: logger,
		store:  store,
		api:    api,
		auth:   services.NewAuthService(api, store, logger),
		guard:  guard.New(store),
		reader: bufio.NewReader(in),
		out:    out,
	}
	a.feed = resources.NewPostManager(api, resources.AllPosts, logger)
	a.myPosts = resources.NewPostManager(api, resources.MyPosts, logger)
	a.allPosts = resources.NewPostManager(api, resources.AllPosts, logger)
	a.users = resources.NewUserManager(api, store.User, logger)
	return a
}

// Run loads the stored session, starts its verification and serves the
// REPL until the user leaves.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.startSession(ctx)
	a.Root(ctx)
}

func (a *App) startSession(ctx context.Context) {
	a.store.Initialize(ctx)
	go func() {
		if err := a.store.Verify(ctx, a.api); err != nil {
			a.logger.Info(ctx, "stored session not accepted", "error", err)
		}
	}()
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) session() session.State { return a.store.Snapshot() }

func (a *App) self() *models.User { return a.store.User() }

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// enter passes v through the guard and follows any redirect. ok is false
// when nothing should be rendered.
func (a *App) enter(ctx context.Context, v guard.View) (guard.View, bool) {
	target, err := a.guard.Resolve(ctx, v)
	if err != nil {
		a.println("Session is still being verified, try again.")
		return "", false
	}
	if target != v {
		a.printf("Redirecting to %s\n", target)
	}
	return target, true
}

// open renders a view reached by redirect.
func (a *App) open(ctx context.Context, v guard.View) error {
	switch v {
	case guard.ViewLogin:
		return a.Login(ctx)
	case guard.ViewHome, guard.ViewPosts:
		return a.Feed(ctx)
	case guard.ViewAccount:
		return a.Account(ctx)
	default:
		return nil
	}
}
