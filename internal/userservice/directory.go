package userservice

import (
	"context"
	"errors"
	"sync"
)

var ErrDuplicateID = errors.New("duplicate user id")

type MemoryDirectory struct {
	mu    sync.RWMutex
	users []User
}

func NewMemoryDirectory(seed ...User) *MemoryDirectory {
	users := make([]User, len(seed))
	copy(users, seed)
	return &MemoryDirectory{users: users}
}

// ListByEmail returns every account when email is empty, otherwise the
// accounts whose email matches exactly.
func (d *MemoryDirectory) ListByEmail(ctx context.Context, email string) ([]User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	users := make([]User, 0, len(d.users))
	for _, u := range d.users {
		if email == "" || u.Email == email {
			users = append(users, u)
		}
	}

	return users, nil
}

func (d *MemoryDirectory) Create(ctx context.Context, u *User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.users {
		if existing.ID == u.ID {
			return ErrDuplicateID
		}
	}

	d.users = append(d.users, *u)
	return nil
}
