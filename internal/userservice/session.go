package userservice

import (
	"fmt"
	"sync"
	"time"

	"github.com/sushihentaime/blogbook/internal/common"
)

// SessionToken renders the token format shared by the server and the client session guard.
func SessionToken(userID int64, at time.Time) string {
	return fmt.Sprintf("token-%d-%d", userID, at.UnixMilli())
}

// SessionRegistry remembers which user each issued token belongs to.
type SessionRegistry struct {
	c   *common.Cache
	ttl time.Duration
	now func() time.Time

	mu sync.Mutex
	// last is the newest millisecond stamped into a token, per user.
	last map[int64]int64
}

// NewSessionRegistry keeps tokens for ttl; ttl <= 0 keeps them until logout.
func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	cleanup := ttl
	if ttl <= 0 {
		ttl = common.NoExpiration
		cleanup = 0
	}

	return &SessionRegistry{
		c:    common.NewCache(ttl, cleanup),
		ttl:  ttl,
		now:  time.Now,
		last: make(map[int64]int64),
	}
}

// Issue stores a new token for u. Logins for the same user within one
// millisecond get distinct tokens.
func (r *SessionRegistry) Issue(u User) string {
	r.mu.Lock()
	at := r.now().UnixMilli()
	if last := r.last[u.ID]; at <= last {
		at = last + 1
	}
	r.last[u.ID] = at
	r.mu.Unlock()

	token := SessionToken(u.ID, time.UnixMilli(at))
	r.c.Set(common.CacheKeySession(token), u, r.ttl)
	return token
}

func (r *SessionRegistry) Lookup(token string) (*User, bool) {
	v, ok := r.c.Get(common.CacheKeySession(token))
	if !ok {
		return nil, false
	}

	u, ok := v.(User)
	if !ok {
		return nil, false
	}

	return &u, true
}

func (r *SessionRegistry) Revoke(token string) {
	r.c.Delete(common.CacheKeySession(token))
}
