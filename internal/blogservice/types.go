package blogservice

import (
	"context"
	"time"

	"github.com/sushihentaime/blogbook/internal/common"
)

type Blog struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	// Content is stored in Markdown format.
	Content  string `json:"content"`
	Author   string `json:"author"`
	Date     string `json:"date"`
	Featured bool   `json:"featured"`
	// OwnerID and OwnerEmail are copied from the creating user and never change.
	OwnerID    int64  `json:"ownerId"`
	OwnerEmail string `json:"ownerEmail"`
}

// BlogInput is the body accepted when creating a blog.
type BlogInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Author   string `json:"author"`
	Date     string `json:"date"`
	Featured bool   `json:"featured"`
}

// BlogPatch holds the fields an update overwrites. Nil fields are left alone.
type BlogPatch struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Author   *string `json:"author,omitempty"`
	Date     *string `json:"date,omitempty"`
	Featured *bool   `json:"featured,omitempty"`
}

func (p *BlogPatch) Apply(b *Blog) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Content != nil {
		b.Content = *p.Content
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Date != nil {
		b.Date = *p.Date
	}
	if p.Featured != nil {
		b.Featured = *p.Featured
	}
}

// Repository stores blogs in insertion order. Update and Delete run their
// callback while the record is locked; an error from the callback aborts
// the operation and is returned unchanged.
type Repository interface {
	List(ctx context.Context) ([]Blog, error)
	Get(ctx context.Context, id int64) (*Blog, error)
	Insert(ctx context.Context, b *Blog) error
	Update(ctx context.Context, id int64, apply func(*Blog) error) (*Blog, error)
	Delete(ctx context.Context, id int64, check func(*Blog) error) error
}

type BlogService struct {
	repo Repository
	ids  *common.IDGenerator
	now  func() time.Time
}
