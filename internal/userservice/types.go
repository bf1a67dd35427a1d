package userservice

import (
	"context"
	"time"

	"github.com/sushihentaime/blogbook/internal/common"
)

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// Password is kept in plain text and never rendered.
	Password string `json:"-"`
	Joined   string `json:"joined,omitempty"`
}

// AnonymousUser is attached to requests that carry no token.
var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == nil || u == AnonymousUser
}

// Session is what a successful login hands back to the client.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Directory stores accounts. Email is the practical lookup key but Create
// does not enforce its uniqueness.
type Directory interface {
	ListByEmail(ctx context.Context, email string) ([]User, error)
	Create(ctx context.Context, u *User) error
}

type UserService struct {
	dir      Directory
	ids      *common.IDGenerator
	mb       common.MessageProducer
	sessions *SessionRegistry
	now      func() time.Time
}

// SeedUsers is the account list the directory starts with.
func SeedUsers() []User {
	return []User{
		{ID: 1, Name: "Admin User", Email: "admin@example.com", Password: "password123"},
	}
}
