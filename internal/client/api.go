// Package client talks to the blog server and keeps a local mirror of its
// records together with the signed-in session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/sushihentaime/blogbook/internal/blogservice"
	"github.com/sushihentaime/blogbook/internal/userservice"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrAuthFailed = errors.New("authentication failed")
	ErrForbidden  = errors.New("not the owner of this record")
	ErrNetwork    = errors.New("network failure")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
	// Fields carries per-field messages from a 422 response.
	Fields map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("server error %d: %v", e.StatusCode, e.Fields)
	}
	if e.Message == "" {
		return fmt.Sprintf("server error %d", e.StatusCode)
	}
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrAuthFailed:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	}
	return false
}

// NetworkError means the request never got an HTTP answer.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network failure: " + e.Err.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// API is a thin HTTP binding of the server's /v1 routes.
type API struct {
	http     *http.Client
	endpoint string

	mu     sync.RWMutex
	bearer string
}

// NewAPI returns an API for the server at endpoint, e.g. http://localhost:4000.
func NewAPI(c *http.Client, endpoint string) (*API, error) {
	if c == nil {
		c = http.DefaultClient
	}
	_, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse endpoint")
	}
	return &API{http: c, endpoint: endpoint}, nil
}

func (a *API) SetBearerToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bearer = token
}

func (a *API) BearerToken() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.bearer
}

func (a *API) ListBlogs(ctx context.Context) ([]blogservice.Blog, error) {
	var blogs []blogservice.Blog
	err := a.do(ctx, http.MethodGet, "/v1/blogs", nil, nil, &blogs)
	return blogs, err
}

func (a *API) GetBlog(ctx context.Context, id int64) (*blogservice.Blog, error) {
	var b blogservice.Blog
	if err := a.do(ctx, http.MethodGet, blogPath(id), nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (a *API) CreateBlog(ctx context.Context, in blogservice.BlogInput) (*blogservice.Blog, error) {
	var b blogservice.Blog
	if err := a.do(ctx, http.MethodPost, "/v1/blogs", nil, in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (a *API) UpdateBlog(ctx context.Context, id int64, patch blogservice.BlogPatch) (*blogservice.Blog, error) {
	var b blogservice.Blog
	if err := a.do(ctx, http.MethodPut, blogPath(id), nil, patch, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (a *API) DeleteBlog(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, blogPath(id), nil, nil, nil)
}

// ListUsers returns every account when email is empty.
func (a *API) ListUsers(ctx context.Context, email string) ([]userservice.User, error) {
	var query url.Values
	if email != "" {
		query = url.Values{"email": {email}}
	}

	var users []userservice.User
	err := a.do(ctx, http.MethodGet, "/v1/users", query, nil, &users)
	return users, err
}

func (a *API) CreateUser(ctx context.Context, name, email, password string) (*userservice.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}

	var u userservice.User
	if err := a.do(ctx, http.MethodPost, "/v1/users", nil, body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (a *API) CreateSession(ctx context.Context, email, password string) (*userservice.Session, error) {
	body := map[string]string{"email": email, "password": password}

	var s userservice.Session
	if err := a.do(ctx, http.MethodPost, "/v1/sessions", nil, body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (a *API) DeleteSession(ctx context.Context) error {
	return a.do(ctx, http.MethodDelete, "/v1/sessions", nil, nil, nil)
}

func blogPath(id int64) string {
	return "/v1/blogs/" + strconv.FormatInt(id, 10)
}

func (a *API) do(ctx context.Context, method, p string, query url.Values, body, out any) error {
	u, err := url.Parse(a.endpoint)
	if err != nil {
		return errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, p)
	u.RawQuery = query.Encode()

	//
	// Build request
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "could not serialize request")
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return errors.Wrap(err, "could not build request")
	}
	req.Header.Add("Accept", "application/json")
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	if token := a.BearerToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	//
	// Perform request
	res, err := a.http.Do(req)
	if err != nil {
		return errors.Wrap(&NetworkError{Err: err}, "could not perform request")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseAPIError(res)
	}

	//
	// Process response
	if out == nil {
		return nil
	}
	return errors.Wrap(json.NewDecoder(res.Body).Decode(out), "could not parse response")
}

func parseAPIError(res *http.Response) error {
	apiErr := &APIError{StatusCode: res.StatusCode}

	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if len(data) == 0 || json.Unmarshal(data, &payload) != nil || len(payload.Error) == 0 {
		return apiErr
	}

	if json.Unmarshal(payload.Error, &apiErr.Message) != nil {
		_ = json.Unmarshal(payload.Error, &apiErr.Fields)
	}

	return apiErr
}
