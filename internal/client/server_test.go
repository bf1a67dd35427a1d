package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/blogbook/internal/blogservice"
	"github.com/sushihentaime/blogbook/internal/common"
	"github.com/sushihentaime/blogbook/internal/userservice"
)

// testServer serves the /v1 routes over the real services so the client is
// exercised against the same semantics as the application.
type testServer struct {
	*httptest.Server
	blogs    *blogservice.BlogService
	users    *userservice.UserService
	requests atomic.Int64
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	users := userservice.NewUserService(userservice.NewMemoryDirectory(), common.NopProducer{}, userservice.NewSessionRegistry(0))
	require.NoError(t, users.Seed(context.Background(), userservice.SeedUsers()))

	s := &testServer{
		blogs: blogservice.NewBlogService(blogservice.NewMemoryRepository()),
		users: users,
	}

	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/v1/blogs", s.listBlogs)
	router.HandlerFunc(http.MethodPost, "/v1/blogs", s.createBlog)
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id", s.getBlog)
	router.HandlerFunc(http.MethodPut, "/v1/blogs/:id", s.updateBlog)
	router.HandlerFunc(http.MethodDelete, "/v1/blogs/:id", s.deleteBlog)
	router.HandlerFunc(http.MethodGet, "/v1/users", s.listUsers)
	router.HandlerFunc(http.MethodPost, "/v1/users", s.createUser)
	router.HandlerFunc(http.MethodPost, "/v1/sessions", s.createSession)
	router.HandlerFunc(http.MethodDelete, "/v1/sessions", s.deleteSession)

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)

	return s
}

func newTestClient(t *testing.T, s *testServer) *Client {
	t.Helper()

	api, err := NewAPI(s.Client(), s.URL)
	require.NoError(t, err)

	c := New(api, NewGuard(NewMemoryStorage()), slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	return c
}

func writeTestJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *testServer) fail(w http.ResponseWriter, err error) {
	var verr common.ValidationError
	switch {
	case errors.Is(err, blogservice.ErrRecordNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, blogservice.ErrNotOwner):
		writeTestJSON(w, http.StatusForbidden, map[string]any{"error": "forbidden"})
	case errors.Is(err, userservice.ErrAuthenticationFailure), errors.Is(err, userservice.ErrInvalidToken):
		writeTestJSON(w, http.StatusUnauthorized, map[string]any{"error": err.Error()})
	case errors.Is(err, userservice.ErrDuplicateEmail):
		writeTestJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": map[string]string{"email": "already exists"}})
	case errors.As(err, &verr):
		writeTestJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": verr.Errors})
	default:
		writeTestJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
}

func (s *testServer) user(r *http.Request) *userservice.User {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	u, err := s.users.GetUserByToken(r.Context(), token)
	if err != nil {
		return userservice.AnonymousUser
	}
	return u
}

func idParam(r *http.Request) int64 {
	id, _ := strconv.ParseInt(httprouter.ParamsFromContext(r.Context()).ByName("id"), 10, 64)
	return id
}

func (s *testServer) listBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, err := s.blogs.ListBlogs(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeTestJSON(w, http.StatusOK, blogs)
}

func (s *testServer) getBlog(w http.ResponseWriter, r *http.Request) {
	b, err := s.blogs.GetBlog(r.Context(), idParam(r))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeTestJSON(w, http.StatusOK, b)
}

func (s *testServer) createBlog(w http.ResponseWriter, r *http.Request) {
	var in blogservice.BlogInput
	_ = json.NewDecoder(r.Body).Decode(&in)
	b, err := s.blogs.CreateBlog(r.Context(), s.user(r), &in)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeTestJSON(w, http.StatusCreated, b)
}

func (s *testServer) updateBlog(w http.ResponseWriter, r *http.Request) {
	var p blogservice.BlogPatch
	_ = json.NewDecoder(r.Body).Decode(&p)
	b, err := s.blogs.UpdateBlog(r.Context(), s.user(r), idParam(r), &p)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeTestJSON(w, http.StatusOK, b)
}

func (s *testServer) deleteBlog(w http.ResponseWriter, r *http.Request) {
	if err := s.blogs.DeleteBlog(r.Context(), s.user(r), idParam(r)); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *testServer) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListUsers(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeTestJSON(w, http.StatusOK, users)
}

func (s *testServer) createUser(w http.ResponseWriter, r *http.Request) {
	var in struct{ Name, Email, Password string }
	_ = json.NewDecoder(r.Body).Decode(&in)
	u, err := s.users.Signup(r.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeTestJSON(w, http.StatusCreated, u)
}

func (s *testServer) createSession(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email, Password string }
	_ = json.NewDecoder(r.Body).Decode(&in)
	sess, err := s.users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeTestJSON(w, http.StatusCreated, sess)
}

func (s *testServer) deleteSession(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := s.users.Logout(r.Context(), token); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
