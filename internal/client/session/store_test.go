package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/postdesk/internal/client/client"
	"github.com/dmitrijs2005/postdesk/internal/client/models"
	"github.com/dmitrijs2005/postdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/postdesk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory metadata.Repository with failure injection.
type memRepo struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	delErr  error
	setErr  error
	deletes int
}

func newMemRepo() *memRepo { return &memRepo{data: map[string][]byte{}} }

func (m *memRepo) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.data[key], nil
}

func (m *memRepo) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memRepo) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if m.delErr != nil {
		return m.delErr
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memRepo) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = map[string][]byte{}
	return nil
}

func (m *memRepo) Update(ctx context.Context, fn func(context.Context, metadata.Repository) error) error {
	return fn(ctx, m)
}

func (m *memRepo) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

type fakeVerifier struct {
	user   *models.User
	err    error
	calls  int
	during func()
}

func (f *fakeVerifier) Me(context.Context) (*models.User, error) {
	f.calls++
	if f.during != nil {
		f.during()
	}
	return f.user, f.err
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestInitialize_MalformedIdentityIsDiscarded(t *testing.T) {
	for _, raw := range []string{
		"not json",
		"{",
		"null",
		"42",
		`"ada"`,
		"[1,2]",
		`{"id":[1]}`,
		`{"role":{}}`,
	} {
		t.Run(raw, func(t *testing.T) {
			repo := newMemRepo()
			repo.data[KeyToken] = []byte("tok")
			repo.data[KeyUser] = []byte(raw)
			s := NewStore(repo, logging.Discard())

			assert.NotPanics(t, func() { s.Initialize(context.Background()) })

			st := s.Snapshot()
			assert.Nil(t, st.User)
			assert.Empty(t, st.Token)
			assert.False(t, st.Loading)
			assert.True(t, isClosed(s.Ready()))
			assert.False(t, repo.has(KeyToken))
			assert.False(t, repo.has(KeyUser))
		})
	}
}

func TestInitialize_StorageReadErrorIsDiscarded(t *testing.T) {
	repo := newMemRepo()
	repo.getErr = errors.New("disk I/O error")
	s := NewStore(repo, nil)

	s.Initialize(context.Background())

	assert.False(t, s.Loading())
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, 1, repo.deletes)
}

func TestInitialize_NoToken(t *testing.T) {
	repo := newMemRepo()
	repo.data[KeyUser] = []byte(`{"id":"1","name":"Ada","role":"admin"}`)
	s := NewStore(repo, nil)

	s.Initialize(context.Background())

	assert.False(t, s.Loading())
	assert.Nil(t, s.User())
	assert.False(t, repo.has(KeyUser))
}

func TestInitialize_OptimisticIdentityWhileLoading(t *testing.T) {
	repo := newMemRepo()
	repo.data[KeyToken] = []byte("tok")
	repo.data[KeyUser] = []byte(`{"_id":"1","name":"Ada","role":"editor"}`)
	s := NewStore(repo, nil)

	s.Initialize(context.Background())

	st := s.Snapshot()
	require.NotNil(t, st.User)
	assert.Equal(t, "Ada", st.User.Name)
	assert.Equal(t, "tok", st.Token)
	assert.True(t, st.Loading)
	assert.False(t, isClosed(s.Ready()))
	assert.True(t, s.IsEditor())
	assert.False(t, s.IsAdmin())
}

func TestVerify_SuccessReplacesIdentity(t *testing.T) {
	repo := newMemRepo()
	repo.data[KeyToken] = []byte("tok")
	repo.data[KeyUser] = []byte(`{"id":"1","name":"Old","role":"user"}`)
	s := NewStore(repo, nil)
	s.Initialize(context.Background())

	v := &fakeVerifier{user: &models.User{ID: "1", Name: "New", Role: models.RoleAdmin}}
	require.NoError(t, s.Verify(context.Background(), v))

	assert.False(t, s.Loading())
	assert.True(t, isClosed(s.Ready()))
	assert.Equal(t, "New", s.User().Name)
	assert.True(t, s.IsAdmin())
	assert.Contains(t, string(repo.data[KeyUser]), `"New"`)
}

func TestVerify_FailureClearsSession(t *testing.T) {
	repo := newMemRepo()
	repo.data[KeyToken] = []byte("tok")
	repo.data[KeyUser] = []byte(`{"id":"1","name":"Ada"}`)
	s := NewStore(repo, nil)
	s.Initialize(context.Background())

	rejected := &client.APIError{Status: 401, Kind: client.ErrUnauthorized}
	err := s.Verify(context.Background(), &fakeVerifier{err: rejected})
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	st := s.Snapshot()
	assert.Nil(t, st.User)
	assert.Empty(t, st.Token)
	assert.False(t, st.Loading)
	assert.False(t, repo.has(KeyToken))
	assert.False(t, repo.has(KeyUser))
}

func TestVerify_StaleResultDoesNotTouchNewSession(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	repo.data[KeyToken] = []byte("old")
	repo.data[KeyUser] = []byte(`{"id":"1","name":"Ada"}`)
	s := NewStore(repo, nil)
	s.Initialize(ctx)

	relogin := func() {
		require.NoError(t, s.SetSession(ctx, models.User{ID: "2", Name: "Grace"}, "new"))
	}

	err := s.Verify(ctx, &fakeVerifier{err: client.ErrUnauthorized, during: relogin})
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, "new", s.Token())
	assert.Equal(t, "Grace", s.User().Name)

	s2 := NewStore(repo, nil)
	s2.Initialize(ctx)
	relogin2 := func() {
		require.NoError(t, s2.SetSession(ctx, models.User{ID: "3", Name: "Linus"}, "newer"))
	}
	require.NoError(t, s2.Verify(ctx, &fakeVerifier{user: &models.User{ID: "2", Name: "Stale"}, during: relogin2}))
	assert.Equal(t, "Linus", s2.User().Name)
	assert.Contains(t, string(repo.data[KeyUser]), `"Linus"`)
}

func TestVerify_NoTokenSkipsNetwork(t *testing.T) {
	s := NewStore(newMemRepo(), nil)
	s.Initialize(context.Background())

	v := &fakeVerifier{}
	require.NoError(t, s.Verify(context.Background(), v))
	assert.Zero(t, v.calls)
	assert.False(t, s.Loading())
}

func TestVerify_WithoutInitializeStillFinishesLoading(t *testing.T) {
	s := NewStore(newMemRepo(), nil)
	require.True(t, s.Loading())

	require.NoError(t, s.Verify(context.Background(), &fakeVerifier{}))
	assert.False(t, s.Loading())
}

func TestSetSession_PersistsBoth(t *testing.T) {
	repo := newMemRepo()
	s := NewStore(repo, nil)

	u := models.User{ID: "7", Name: "Ed", Role: models.RoleEditor}
	require.NoError(t, s.SetSession(context.Background(), u, "tok-7"))

	assert.Equal(t, "tok-7", s.Token())
	assert.Equal(t, "tok-7", string(repo.data[KeyToken]))
	assert.Contains(t, string(repo.data[KeyUser]), `"Ed"`)
	assert.True(t, s.IsAuthenticated())
}

func TestSetSession_StorageFailureLeavesMemoryUntouched(t *testing.T) {
	repo := newMemRepo()
	repo.setErr = errors.New("read-only database")
	s := NewStore(repo, nil)

	err := s.SetSession(context.Background(), models.User{ID: "1"}, "tok")
	assert.Error(t, err)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
}

func TestClear_MemoryClearedEvenIfStorageFails(t *testing.T) {
	repo := newMemRepo()
	s := NewStore(repo, nil)
	require.NoError(t, s.SetSession(context.Background(), models.User{ID: "1"}, "tok"))

	repo.delErr = errors.New("locked")
	err := s.Clear(context.Background())
	assert.Error(t, err)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := NewStore(newMemRepo(), nil)
	require.NoError(t, s.SetSession(context.Background(), models.User{ID: "1", Name: "Ada"}, "tok"))

	st := s.Snapshot()
	st.User.Name = "Mallory"
	assert.Equal(t, "Ada", s.User().Name)
}

func TestReady_ReleasesWaiters(t *testing.T) {
	repo := newMemRepo()
	repo.data[KeyToken] = []byte("tok")
	s := NewStore(repo, nil)
	s.Initialize(context.Background())

	done := make(chan struct{})
	go func() {
		<-s.Ready()
		close(done)
	}()

	_ = s.Verify(context.Background(), &fakeVerifier{user: &models.User{ID: "1"}})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Ready was not closed")
	}
}

// A session written by one run is picked up by the next.
func TestSession_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "session.db")

	db, err := client.InitDatabase(ctx, dsn)
	require.NoError(t, err)
	first := NewStore(metadata.NewSQLiteRepository(db), nil)
	first.Initialize(ctx)
	require.NoError(t, first.SetSession(ctx, models.User{ID: "1", Name: "Ada", Role: models.RoleUser}, "tok"))
	require.NoError(t, db.Close())

	db, err = client.InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	second := NewStore(metadata.NewSQLiteRepository(db), nil)
	second.Initialize(ctx)
	st := second.Snapshot()
	require.NotNil(t, st.User)
	assert.Equal(t, "Ada", st.User.Name)
	assert.Equal(t, "tok", st.Token)
	assert.True(t, st.Loading)

	require.NoError(t, second.Verify(ctx, &fakeVerifier{user: &models.User{ID: "1", Name: "Ada", Role: models.RoleUser}}))
	assert.False(t, second.Loading())
}
