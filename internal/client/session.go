package client

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/sushihentaime/blogbook/internal/blogservice"
	"github.com/sushihentaime/blogbook/internal/userservice"
)

const (
	tokenKey = "token"
	userKey  = "user"
)

// SessionUser is the part of an account remembered between runs.
type SessionUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Guard derives authentication and ownership from what is in local storage.
// A session never expires on its own; it ends with Logout or when the
// token is removed from storage.
type Guard struct {
	store LocalStorage
	now   func() time.Time
}

func NewGuard(store LocalStorage) *Guard {
	return &Guard{store: store, now: time.Now}
}

// Login remembers user and token. An empty token is replaced by a freshly
// minted one, which is returned.
func (g *Guard) Login(user SessionUser, token string) (string, error) {
	if token == "" {
		token = userservice.SessionToken(user.ID, g.now())
	}

	data, err := json.Marshal(user)
	if err != nil {
		return "", errors.Wrap(err, "could not serialize user")
	}

	if err := g.store.Set(userKey, string(data)); err != nil {
		return "", err
	}
	if err := g.store.Set(tokenKey, token); err != nil {
		return "", err
	}

	return token, nil
}

func (g *Guard) Logout() error {
	if err := g.store.Remove(tokenKey); err != nil {
		return err
	}
	return g.store.Remove(userKey)
}

func (g *Guard) Token() string {
	token, ok, err := g.store.Get(tokenKey)
	if err != nil || !ok {
		return ""
	}
	return token
}

func (g *Guard) IsAuthenticated() bool {
	return g.Token() != ""
}

// CurrentUser returns the remembered user, or false when signed out.
func (g *Guard) CurrentUser() (*SessionUser, bool) {
	if !g.IsAuthenticated() {
		return nil, false
	}

	data, ok, err := g.store.Get(userKey)
	if err != nil || !ok {
		return nil, false
	}

	var u SessionUser
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return nil, false
	}

	return &u, true
}

func (g *Guard) IsOwner(b *blogservice.Blog) bool {
	u, ok := g.CurrentUser()
	return ok && b != nil && b.OwnerID == u.ID
}
