package userservice

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"time"

	"github.com/sushihentaime/blogbook/internal/common"
)

var (
	ErrDuplicateEmail        = errors.New("duplicate email")
	ErrAuthenticationFailure = errors.New("invalid email or password")
	ErrInvalidToken          = errors.New("invalid or expired token")
)

func NewUserService(dir Directory, mb common.MessageProducer, sessions *SessionRegistry) *UserService {
	if mb == nil {
		mb = common.NopProducer{}
	}

	return &UserService{
		dir:      dir,
		ids:      common.NewIDGenerator(),
		mb:       mb,
		sessions: sessions,
		now:      time.Now,
	}
}

// Seed stores the given accounts and moves the id generator past them.
func (s *UserService) Seed(ctx context.Context, users []User) error {
	for i := range users {
		if err := s.dir.Create(ctx, &users[i]); err != nil {
			return err
		}
		s.ids.Observe(users[i].ID)
	}

	return nil
}

// ListUsers returns every account, or only those with the given email.
func (s *UserService) ListUsers(ctx context.Context, email string) ([]User, error) {
	return s.dir.ListByEmail(ctx, email)
}

// Signup creates an account and publishes a user.created event.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (*User, error) {
	v := common.NewValidator()
	ValidateName(v, name)
	ValidateEmail(v, email)
	ValidatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	existing, err := s.dir.ListByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrDuplicateEmail
	}

	u := User{
		ID:       s.ids.Next(),
		Name:     name,
		Email:    email,
		Password: password,
		Joined:   s.now().UTC().Format(time.DateOnly),
	}

	if err := s.dir.Create(ctx, &u); err != nil {
		return nil, err
	}

	data := struct {
		Email string
		Name  string
	}{
		Email: u.Email,
		Name:  u.Name,
	}

	msg, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	err = s.mb.Publish(ctx, msg, common.UserCreated)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// Authenticate returns the account whose email and password both match.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	v := common.NewValidator()
	v.Check(email != "", "email", "must be provided")
	v.Check(password != "", "password", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	users, err := s.dir.ListByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1 {
			return &u, nil
		}
	}

	return nil, ErrAuthenticationFailure
}

// Login authenticates and issues a session token.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token := s.sessions.Issue(*u)
	return &Session{Token: token, User: *u}, nil
}

func (s *UserService) Logout(ctx context.Context, token string) error {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return v.ValidationError()
	}

	s.sessions.Revoke(token)
	return nil
}

// GetUserByToken resolves a bearer token issued by Login.
func (s *UserService) GetUserByToken(ctx context.Context, token string) (*User, error) {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u, ok := s.sessions.Lookup(token)
	if !ok {
		return nil, ErrInvalidToken
	}

	return u, nil
}
