package resources

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/postdesk/internal/client/apitest"
	"github.com/dmitrijs2005/postdesk/internal/client/client"
	"github.com/dmitrijs2005/postdesk/internal/client/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	posts   []models.Post
	users   []models.User
	listErr error
	opErr   error

	listCalls   int
	myCalls     int
	created     []models.PostInput
	updatedIDs  []models.ID
	deletedIDs  []models.ID
	deletedUser []models.ID
}

func (f *fakeAPI) ListPosts(context.Context) ([]models.Post, error) {
	f.listCalls++
	return f.posts, f.listErr
}

func (f *fakeAPI) ListMyPosts(context.Context) ([]models.Post, error) {
	f.myCalls++
	return f.posts, f.listErr
}

func (f *fakeAPI) CreatePost(_ context.Context, in models.PostInput) error {
	f.created = append(f.created, in)
	return f.opErr
}

func (f *fakeAPI) UpdatePost(_ context.Context, id models.ID, _ models.PostInput) error {
	f.updatedIDs = append(f.updatedIDs, id)
	return f.opErr
}

func (f *fakeAPI) DeletePost(_ context.Context, id models.ID) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return f.opErr
}

func (f *fakeAPI) ListUsers(context.Context) ([]models.User, error) {
	f.listCalls++
	return f.users, f.listErr
}

func (f *fakeAPI) DeleteUser(_ context.Context, id models.ID) error {
	f.deletedUser = append(f.deletedUser, id)
	return f.opErr
}

func TestManager_ListFailureClearsItems(t *testing.T) {
	api := &fakeAPI{posts: []models.Post{{ID: "p1", Title: "One"}}}
	m := NewPostManager(api, AllPosts, nil)
	require.NoError(t, m.List(context.Background()))
	require.Len(t, m.Items(), 1)

	api.listErr = &client.APIError{Status: 500, ServerMessage: "db down"}
	assert.Error(t, m.List(context.Background()))
	assert.Empty(t, m.Items())
	assert.NotNil(t, m.Items())
	assert.Equal(t, "db down", m.Error())
	assert.False(t, m.Loading())
}

func TestManager_ListFallbackMessage(t *testing.T) {
	api := &fakeAPI{listErr: &client.APIError{Status: 500}}
	m := NewPostManager(api, AllPosts, nil)
	_ = m.List(context.Background())
	assert.Equal(t, "Failed to load posts", m.Error())

	m.DismissError()
	assert.Empty(t, m.Error())
}

func TestManager_NilListIsEmpty(t *testing.T) {
	m := NewPostManager(&fakeAPI{}, AllPosts, nil)
	require.NoError(t, m.List(context.Background()))
	assert.NotNil(t, m.Items())
	assert.Empty(t, m.Items())
}

func TestManager_MutationFailureKeepsItems(t *testing.T) {
	api := &fakeAPI{posts: []models.Post{{ID: "p1"}, {ID: "p2"}}}
	m := NewPostManager(api, AllPosts, nil)
	require.NoError(t, m.List(context.Background()))

	api.opErr = &client.APIError{Status: 403, ServerMessage: "Access denied"}
	assert.Error(t, m.Delete(context.Background(), "p1"))
	assert.Len(t, m.Items(), 2)
	assert.Equal(t, "Access denied", m.Error())
	assert.Equal(t, 1, api.listCalls, "failed mutation must not refetch")
}

func TestManager_MutationSuccessRefetches(t *testing.T) {
	api := &fakeAPI{posts: []models.Post{{ID: "p1"}}}
	m := NewPostManager(api, MyPosts, nil)

	require.NoError(t, m.Create(context.Background(), PostForm{Title: "T", Content: "C", Tags: "a, b ,,c "}))
	assert.Equal(t, 1, api.myCalls)
	assert.Zero(t, api.listCalls)
	require.Len(t, api.created, 1)
	assert.Empty(t, cmp.Diff(models.PostInput{Title: "T", Content: "C", Tag: models.Tags{"a", "b", "c"}}, api.created[0]))
}

func TestPostManager_UpdateMissingID(t *testing.T) {
	api := &fakeAPI{}
	m := NewPostManager(api, MyPosts, nil)

	err := m.Update(context.Background(), "", PostForm{Title: "T", Content: "C"})
	assert.ErrorIs(t, err, ErrMissingPostID)
	assert.Equal(t, "Post ID is missing. Cannot update post.", m.Error())
	assert.Empty(t, api.updatedIDs)
}

func TestPostManager_RejectsEmptyPost(t *testing.T) {
	api := &fakeAPI{}
	m := NewPostManager(api, MyPosts, nil)

	assert.ErrorIs(t, m.Create(context.Background(), PostForm{Title: "  ", Content: "C"}), ErrEmptyPost)
	assert.ErrorIs(t, m.Update(context.Background(), "p1", PostForm{Title: "T"}), ErrEmptyPost)
	assert.Empty(t, api.created)
	assert.Empty(t, api.updatedIDs)
}

func TestPostForm_RoundTrip(t *testing.T) {
	p := models.Post{
		ID:      "p1",
		Title:   "Hello",
		Content: "Body",
		Tag:     models.Tags{"go", "cli"},
		Author:  models.Author{Name: "Ada"},
	}
	f := FormFromPost(p)
	assert.Equal(t, PostForm{Title: "Hello", Content: "Body", Tags: "go, cli", Author: "Ada"}, f)
	assert.Equal(t, models.Tags{"go", "cli"}, f.Input().Tag)
}

func TestPostForm_EmptyAuthorOmitted(t *testing.T) {
	in := PostForm{Title: "T", Content: "C", Author: "   "}.Input()
	assert.Empty(t, in.Author)
	assert.NotNil(t, in.Tag)
}

func TestPostManager_Find(t *testing.T) {
	api := &fakeAPI{posts: []models.Post{{ID: "p1", Title: "One"}}}
	m := NewPostManager(api, AllPosts, nil)
	require.NoError(t, m.List(context.Background()))

	p, ok := m.Find("p1")
	assert.True(t, ok)
	assert.Equal(t, "One", p.Title)

	_, ok = m.Find("nope")
	assert.False(t, ok)
}

func TestUserManager_SelfDeleteNeverReachesNetwork(t *testing.T) {
	me := &models.User{ID: "42", Role: models.RoleAdmin}
	api := &fakeAPI{users: []models.User{*me}}
	m := NewUserManager(api, func() *models.User { return me }, nil)

	err := m.Delete(context.Background(), "42")
	assert.ErrorIs(t, err, ErrSelfDelete)
	assert.Equal(t, "Cannot delete yourself", m.Error())
	assert.Empty(t, api.deletedUser)
	assert.Zero(t, api.listCalls)
}

func TestUserManager_DeletesOthers(t *testing.T) {
	me := &models.User{ID: "1"}
	api := &fakeAPI{users: []models.User{*me}}
	m := NewUserManager(api, func() *models.User { return me }, nil)

	require.NoError(t, m.Delete(context.Background(), "2"))
	assert.Equal(t, []models.ID{"2"}, api.deletedUser)
	assert.Equal(t, 1, api.listCalls)
}

func TestUserManager_DeleteFailureFallback(t *testing.T) {
	api := &fakeAPI{opErr: errors.New("")}
	m := NewUserManager(api, func() *models.User { return nil }, nil)

	assert.Error(t, m.Delete(context.Background(), "2"))
	assert.Equal(t, "Failed to delete user", m.Error())
}

// An editor deletes a post and the list reflects the server afterwards.
func TestPostManager_DeleteThenRefetchOverHTTP(t *testing.T) {
	srv := apitest.NewServer(t)
	editor := srv.AddUser("Ed", "ed@example.com", "pw", "editor")
	srv.AddPost("First", "one", nil, editor)
	srv.AddPost("Second", "two", nil, editor)

	c, err := client.NewHTTPClient(srv.URL, staticToken(srv.IssueToken(editor)))
	require.NoError(t, err)

	m := NewPostManager(c, MyPosts, nil)
	ctx := context.Background()
	require.NoError(t, m.List(ctx))
	require.Len(t, m.Items(), 2)

	require.NoError(t, m.Delete(ctx, "p1"))

	assert.Equal(t, 1, srv.CountRequests("DELETE /api/post/p1"))
	assert.Equal(t, 2, srv.CountRequests("GET /api/post/my-posts"))
	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, models.ID("p2"), items[0].ID)
	assert.Empty(t, m.Error())
}

type staticToken string

func (s staticToken) Token() string { return string(s) }
