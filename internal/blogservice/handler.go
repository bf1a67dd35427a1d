package blogservice

import (
	"context"
	"errors"
	"time"

	"github.com/sushihentaime/blogbook/internal/common"
	"github.com/sushihentaime/blogbook/internal/userservice"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrNotOwner       = errors.New("blog belongs to another user")
	ErrDuplicateID    = errors.New("duplicate blog id")
)

// insertAttempts bounds the retries after an id collision with a stored record.
const insertAttempts = 3

func NewBlogService(repo Repository) *BlogService {
	return &BlogService{
		repo: repo,
		ids:  common.NewIDGenerator(),
		now:  time.Now,
	}
}

// ObserveStoredIDs moves the id generator past every stored blog. It is
// called once when the service starts on a store that may hold records.
func (s *BlogService) ObserveStoredIDs(ctx context.Context) error {
	blogs, err := s.repo.List(ctx)
	if err != nil {
		return err
	}

	for _, b := range blogs {
		s.ids.Observe(b.ID)
	}
	return nil
}

// ListBlogs returns every blog in insertion order.
func (s *BlogService) ListBlogs(ctx context.Context) ([]Blog, error) {
	return s.repo.List(ctx)
}

func (s *BlogService) GetBlog(ctx context.Context, id int64) (*Blog, error) {
	v := common.NewValidator()
	validateID(v, id)
	if !v.Valid() {
		return nil, ErrRecordNotFound
	}

	return s.repo.Get(ctx, id)
}

// CreateBlog stores a new blog owned by user. The date defaults to today (UTC).
func (s *BlogService) CreateBlog(ctx context.Context, user *userservice.User, in *BlogInput) (*Blog, error) {
	if user.IsAnonymous() {
		return nil, ErrNotOwner
	}

	v := common.NewValidator()
	validateInput(v, in)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	b := Blog{
		Title:      in.Title,
		Content:    in.Content,
		Author:     in.Author,
		Date:       in.Date,
		Featured:   in.Featured,
		OwnerID:    user.ID,
		OwnerEmail: user.Email,
	}
	if b.Date == "" {
		b.Date = s.now().UTC().Format(time.DateOnly)
	}

	var err error
	for range insertAttempts {
		b.ID = s.ids.Next()
		err = s.repo.Insert(ctx, &b)
		if !errors.Is(err, ErrDuplicateID) {
			break
		}
		s.ids.Observe(b.ID)
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// UpdateBlog overwrites the fields present in patch. Only the owner may update a blog.
func (s *BlogService) UpdateBlog(ctx context.Context, user *userservice.User, id int64, patch *BlogPatch) (*Blog, error) {
	v := common.NewValidator()
	validateID(v, id)
	if !v.Valid() {
		return nil, ErrRecordNotFound
	}

	validatePatch(v, patch)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.repo.Update(ctx, id, func(b *Blog) error {
		if !ownedBy(b, user) {
			return ErrNotOwner
		}
		patch.Apply(b)
		return nil
	})
}

// DeleteBlog removes a blog. Only the owner may delete it.
func (s *BlogService) DeleteBlog(ctx context.Context, user *userservice.User, id int64) error {
	v := common.NewValidator()
	validateID(v, id)
	if !v.Valid() {
		return ErrRecordNotFound
	}

	return s.repo.Delete(ctx, id, func(b *Blog) error {
		if !ownedBy(b, user) {
			return ErrNotOwner
		}
		return nil
	})
}

func ownedBy(b *Blog, user *userservice.User) bool {
	return !user.IsAnonymous() && b.OwnerID == user.ID
}
