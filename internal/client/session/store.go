// Package session holds the signed-in identity and its bearer token, keeps
// them in the local database across runs, and re-validates them with the
// API at start-up.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/postdesk/internal/client/models"
	"github.com/dmitrijs2005/postdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/postdesk/internal/logging"
)

// Persisted keys.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Verifier resolves the identity behind the current token.
type Verifier interface {
	Me(ctx context.Context) (*models.User, error)
}

// State is a point-in-time copy of the session.
type State struct {
	User    *models.User
	Token   string
	Loading bool
}

func (s State) IsAuthenticated() bool { return s.User != nil }

func (s State) Role() models.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// Store is safe for concurrent use. A new Store reports Loading until
// Verify has run (or Initialize found nothing to verify).
type Store struct {
	repo   metadata.Repository
	logger logging.Logger

	mu      sync.RWMutex
	user    *models.User
	token   string
	loading bool

	ready     chan struct{}
	readyOnce sync.Once
}

func NewStore(repo metadata.Repository, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{
		repo:    repo,
		logger:  logger.With("component", "session"),
		loading: true,
		ready:   make(chan struct{}),
	}
}

// Initialize loads the persisted session. A stored identity is exposed
// right away while the token still awaits Verify. Unreadable or malformed
// state is discarded, never reported.
func (s *Store) Initialize(ctx context.Context) {
	token, user, err := s.load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "discarding persisted session", "error", err)
		if cerr := s.repo.Delete(ctx, KeyToken, KeyUser); cerr != nil {
			s.logger.Error(ctx, "failed to clear persisted session", "error", cerr)
		}
		token, user = "", nil
	}

	if token == "" && user != nil {
		// identity without a credential cannot be verified
		if derr := s.repo.Delete(ctx, KeyUser); derr != nil {
			s.logger.Warn(ctx, "failed to drop orphaned identity", "error", derr)
		}
		user = nil
	}

	s.mu.Lock()
	s.token, s.user = token, user
	s.mu.Unlock()

	if token == "" {
		s.finishLoading()
	}
}

func (s *Store) load(ctx context.Context) (string, *models.User, error) {
	rawToken, err := s.repo.Get(ctx, KeyToken)
	if err != nil {
		return "", nil, err
	}
	rawUser, err := s.repo.Get(ctx, KeyUser)
	if err != nil {
		return "", nil, err
	}

	var user *models.User
	if len(rawUser) > 0 {
		user, err = decodeUser(rawUser)
		if err != nil {
			return "", nil, err
		}
	}
	return string(rawToken), user, nil
}

func decodeUser(raw []byte) (*models.User, error) {
	var u *models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("malformed persisted identity: %w", err)
	}
	if u == nil {
		return nil, errors.New("malformed persisted identity: null")
	}
	return u, nil
}

// Verify asks the API who owns the current token. Success refreshes and
// re-persists the identity; any failure ends the session. Loading is
// always false afterwards.
func (s *Store) Verify(ctx context.Context, v Verifier) error {
	defer s.finishLoading()

	token := s.Token()
	if token == "" {
		return nil
	}

	user, err := v.Me(ctx)
	if err == nil && user == nil {
		err = errors.New("empty identity")
	}
	if err != nil {
		s.logger.Info(ctx, "session verification failed", "error", err)
		if s.Token() != token {
			return err
		}
		if cerr := s.Clear(ctx); cerr != nil {
			s.logger.Error(ctx, "failed to clear persisted session", "error", cerr)
		}
		return err
	}

	s.mu.Lock()
	if s.token != token {
		// signed out or replaced while the call was in flight
		s.mu.Unlock()
		return nil
	}
	s.user = user
	s.mu.Unlock()

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := s.repo.Set(ctx, KeyUser, raw); err != nil {
		s.logger.Warn(ctx, "failed to persist verified identity", "error", err)
	}
	return nil
}

// SetSession persists user and token together, then publishes them.
func (s *Store) SetSession(ctx context.Context, user models.User, token string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	err = s.repo.Update(ctx, func(ctx context.Context, repo metadata.Repository) error {
		if err := repo.Set(ctx, KeyToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyUser, raw)
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.user, s.token = &user, token
	s.mu.Unlock()
	return nil
}

// Clear ends the session. Memory is cleared even when storage fails; that
// error is returned so the caller can log it.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.user, s.token = nil, ""
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, KeyToken, KeyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) finishLoading() {
	s.readyOnce.Do(func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		close(s.ready)
	})
}

// Ready is closed once the initial load and verification are done.
func (s *Store) Ready() <-chan struct{} { return s.ready }

// Token implements client.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{Token: s.token, Loading: s.loading}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

func (s *Store) User() *models.User    { return s.Snapshot().User }
func (s *Store) Loading() bool         { return s.Snapshot().Loading }
func (s *Store) IsAuthenticated() bool { return s.Snapshot().IsAuthenticated() }
func (s *Store) Role() models.Role     { return s.Snapshot().Role() }
func (s *Store) IsAdmin() bool         { return s.Role() == models.RoleAdmin }
func (s *Store) IsEditor() bool        { return s.Role() == models.RoleEditor }
