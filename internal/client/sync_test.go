package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/blogbook/internal/blogservice"
	"github.com/sushihentaime/blogbook/internal/userservice"
)

var validForm = BlogForm{
	Title:   "My first post",
	Content: "This content is long enough to pass.",
	Author:  "Admin",
}

func loginAdmin(t *testing.T, c *Client) {
	t.Helper()
	_, err := c.Login(context.Background(), "admin@example.com", "password123")
	require.NoError(t, err)
}

func TestClientLogin(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(t, s)
	ctx := context.Background()

	u, err := c.Login(ctx, "admin@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.True(t, c.Guard().IsAuthenticated())
	assert.Regexp(t, `^token-1-[0-9]+$`, c.Guard().Token())

	current, ok := c.Guard().CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "Admin User", current.Name)
}

func TestClientLoginWrongPassword(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(t, s)

	_, err := c.Login(context.Background(), "admin@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.False(t, c.Guard().IsAuthenticated())
	assert.Empty(t, c.Guard().Token())
}

func TestClientLoginValidation(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(t, s)

	_, err := c.Login(context.Background(), "not-an-email", "123")
	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Errors, "email")
	assert.Contains(t, verr.Errors, "password")
	assert.Zero(t, s.requests.Load())
}

func TestClientCRUD(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(t, s)
	ctx := context.Background()
	loginAdmin(t, c)

	require.NoError(t, c.Refresh(ctx))
	assert.Empty(t, c.Snapshot().Blogs)

	created, err := c.CreateBlog(ctx, validForm)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", created.Date)
	assert.Equal(t, int64(1), created.OwnerID)

	snap := c.Snapshot()
	require.Len(t, snap.Blogs, 1)
	assert.Equal(t, *created, snap.Blogs[0])

	form := validForm
	form.Title = "My first post, edited"
	updated, err := c.UpdateBlog(ctx, created.ID, form)
	require.NoError(t, err)
	assert.Equal(t, "My first post, edited", updated.Title)
	assert.Equal(t, created.Content, updated.Content)
	assert.Equal(t, "My first post, edited", c.Snapshot().Blogs[0].Title)

	require.NoError(t, c.DeleteBlog(ctx, created.ID))
	assert.Empty(t, c.Snapshot().Blogs)

	_, err = c.Blog(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientUpdateMissRefreshes(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(t, s)
	ctx := context.Background()
	loginAdmin(t, c)

	// Created behind the client's back, so the cache has never seen it.
	admin := &userservice.User{ID: 1, Email: "admin@example.com"}
	b, err := s.blogs.CreateBlog(ctx, admin, &blogservice.BlogInput{Title: "Server side"})
	require.NoError(t, err)

	_, err = c.UpdateBlog(ctx, b.ID, validForm)
	require.NoError(t, err)

	snap := c.Snapshot()
	require.Len(t, snap.Blogs, 1)
	assert.Equal(t, validForm.Title, snap.Blogs[0].Title)
}

func TestClientOwnership(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(t, s)
	ctx := context.Background()

	other := &userservice.User{ID: 99, Email: "other@example.com"}
	b, err := s.blogs.CreateBlog(ctx, other, &blogservice.BlogInput{Title: "Not yours"})
	require.NoError(t, err)

	_, err = c.UpdateBlog(ctx, b.ID, validForm)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	loginAdmin(t, c)
	require.NoError(t, c.Refresh(ctx))

	_, err = c.UpdateBlog(ctx, b.ID, validForm)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, c.DeleteBlog(ctx, b.ID), ErrForbidden)

	got, err := c.Blog(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Not yours", got.Title)
}

func TestClientCreateRequiresLogin(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(t, s)

	_, err := c.CreateBlog(context.Background(), validForm)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestClientCreateValidation(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(t, s)
	loginAdmin(t, c)
	before := s.requests.Load()

	_, err := c.CreateBlog(context.Background(), BlogForm{Title: "Hey", Content: "short", Author: "A"})
	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 3)
	assert.Equal(t, before, s.requests.Load())
}

func TestClientSignup(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(t, s)
	ctx := context.Background()

	u, err := c.Signup(ctx, "Ada Lovelace", "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.True(t, c.Guard().IsAuthenticated())

	c2 := newTestClient(t, s)
	_, err = c2.Signup(ctx, "Ada Again", "ada@example.com", "secret1")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.False(t, c2.Guard().IsAuthenticated())
}

func TestClientLogout(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(t, s)
	ctx := context.Background()
	loginAdmin(t, c)
	token := c.Guard().Token()

	require.NoError(t, c.Logout(ctx))
	assert.False(t, c.Guard().IsAuthenticated())
	assert.Empty(t, c.api.BearerToken())

	_, err := s.users.GetUserByToken(ctx, token)
	assert.ErrorIs(t, err, userservice.ErrInvalidToken)
}

func TestClientRefreshNetworkFailure(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(t, s)
	ctx := context.Background()
	loginAdmin(t, c)

	_, err := c.CreateBlog(ctx, validForm)
	require.NoError(t, err)
	require.NoError(t, c.Refresh(ctx))

	s.Close()

	err = c.Refresh(ctx)
	assert.ErrorIs(t, err, ErrNetwork)

	snap := c.Snapshot()
	assert.Len(t, snap.Blogs, 1)
	assert.False(t, snap.Loading)
	assert.NotEmpty(t, snap.Error)
}

func TestClientFeaturedAndQuery(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(t, s)
	ctx := context.Background()
	loginAdmin(t, c)

	for i, featured := range []bool{true, false, true} {
		f := validForm
		f.Featured = featured
		f.Title = []string{"Golang tips", "Cooking notes", "Go testing"}[i]
		_, err := c.CreateBlog(ctx, f)
		require.NoError(t, err)
	}

	featured := c.Featured(3)
	require.Len(t, featured, 2)
	assert.Equal(t, "Golang tips", featured[0].Title)

	view := c.Query(Query{Search: "go"})
	assert.Equal(t, 2, view.Total)
}
