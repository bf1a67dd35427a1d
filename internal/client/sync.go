package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/sushihentaime/blogbook/internal/blogservice"
	"github.com/sushihentaime/blogbook/internal/common"
)

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrEmailTaken       = errors.New("email already registered")
)

// Client sends mutations to the server and patches the local cache with
// their results.
type Client struct {
	api    *API
	cache  *Cache
	guard  *Guard
	logger *slog.Logger
	now    func() time.Time
}

// New returns a Client that resumes the session remembered by guard.
func New(api *API, guard *Guard, logger *slog.Logger) *Client {
	api.SetBearerToken(guard.Token())

	return &Client{
		api:    api,
		cache:  NewCache(),
		guard:  guard,
		logger: logger,
		now:    time.Now,
	}
}

func (c *Client) Guard() *Guard { return c.guard }

func (c *Client) Snapshot() Snapshot { return c.cache.Snapshot() }

// Query runs q over the cached list.
func (c *Client) Query(q Query) View {
	return Apply(c.cache.Snapshot().Blogs, q)
}

// Recent returns the last n blogs of the cached list.
func (c *Client) Recent(n int) []blogservice.Blog {
	return Recent(c.cache.Snapshot().Blogs, n)
}

// Featured returns up to n featured blogs from the cached list.
func (c *Client) Featured(n int) []blogservice.Blog {
	return Featured(c.cache.Snapshot().Blogs, n)
}

// Login signs in with email and password. A rejected login leaves any
// previous session untouched.
func (c *Client) Login(ctx context.Context, email, password string) (*SessionUser, error) {
	v := common.NewValidator()
	ValidateLogin(v, email, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	sess, err := c.api.CreateSession(ctx, email, password)
	if err != nil {
		return nil, errors.Wrap(err, "could not sign in")
	}

	u := SessionUser{ID: sess.User.ID, Name: sess.User.Name, Email: sess.User.Email}
	token, err := c.guard.Login(u, sess.Token)
	if err != nil {
		return nil, err
	}
	c.api.SetBearerToken(token)

	return &u, nil
}

// Signup creates an account and signs in with it.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*SessionUser, error) {
	v := common.NewValidator()
	ValidateSignup(v, name, email, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	existing, err := c.api.ListUsers(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "could not check email")
	}
	if len(existing) > 0 {
		return nil, ErrEmailTaken
	}

	if _, err := c.api.CreateUser(ctx, name, email, password); err != nil {
		return nil, errors.Wrap(err, "could not create account")
	}

	return c.Login(ctx, email, password)
}

// Logout ends the local session. The server is told on a best effort basis.
func (c *Client) Logout(ctx context.Context) error {
	if c.guard.IsAuthenticated() {
		if err := c.api.DeleteSession(ctx); err != nil {
			c.logger.Warn("could not revoke session on server", slog.String("error", err.Error()))
		}
	}

	c.api.SetBearerToken("")
	return c.guard.Logout()
}

// Refresh reloads the whole list from the server.
func (c *Client) Refresh(ctx context.Context) error {
	return errors.Wrap(c.cache.Refresh(ctx, c.api), "could not load blogs")
}

// Blog fetches one record from the server.
func (c *Client) Blog(ctx context.Context, id int64) (*blogservice.Blog, error) {
	b, err := c.api.GetBlog(ctx, id)
	return b, errors.Wrap(err, "could not load blog")
}

func (c *Client) CreateBlog(ctx context.Context, f BlogForm) (*blogservice.Blog, error) {
	v := common.NewValidator()
	ValidateBlogForm(v, f)
	if !v.Valid() {
		return nil, v.ValidationError()
	}
	if !c.guard.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	b, err := c.api.CreateBlog(ctx, blogservice.BlogInput{
		Title:    f.Title,
		Content:  f.Content,
		Author:   f.Author,
		Date:     c.today(),
		Featured: f.Featured,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create blog")
	}

	c.cache.ApplyCreated(*b)
	return b, nil
}

// UpdateBlog saves f over the record and stamps today's date.
func (c *Client) UpdateBlog(ctx context.Context, id int64, f BlogForm) (*blogservice.Blog, error) {
	v := common.NewValidator()
	ValidateBlogForm(v, f)
	if !v.Valid() {
		return nil, v.ValidationError()
	}
	if err := c.checkOwner(ctx, id); err != nil {
		return nil, err
	}

	date := c.today()
	b, err := c.api.UpdateBlog(ctx, id, blogservice.BlogPatch{
		Title:    &f.Title,
		Content:  &f.Content,
		Author:   &f.Author,
		Date:     &date,
		Featured: &f.Featured,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not update blog")
	}

	if !c.cache.ApplyUpdated(*b) {
		c.logger.Info("updated blog missing from cache, reloading", slog.Int64("id", id))
		if err := c.Refresh(ctx); err != nil {
			c.logger.Warn("could not reload blogs", slog.String("error", err.Error()))
		}
	}

	return b, nil
}

func (c *Client) DeleteBlog(ctx context.Context, id int64) error {
	if err := c.checkOwner(ctx, id); err != nil {
		return err
	}

	if err := c.api.DeleteBlog(ctx, id); err != nil {
		return errors.Wrap(err, "could not delete blog")
	}

	c.cache.ApplyDeleted(id)
	return nil
}

// checkOwner refuses edits the server would reject, using the cached copy
// when there is one.
func (c *Client) checkOwner(ctx context.Context, id int64) error {
	if !c.guard.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	b, ok := c.cache.Lookup(id)
	if !ok {
		var err error
		b, err = c.Blog(ctx, id)
		if err != nil {
			return err
		}
	}

	if !c.guard.IsOwner(b) {
		return ErrForbidden
	}
	return nil
}

func (c *Client) today() string {
	return c.now().Format(time.DateOnly)
}
