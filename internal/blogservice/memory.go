package blogservice

import (
	"context"
	"sync"
)

// MemoryRepository keeps blogs in process memory. Nothing survives a restart.
type MemoryRepository struct {
	mu    sync.RWMutex
	blogs []Blog
	index map[int64]struct{}
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{index: make(map[int64]struct{})}
}

func (r *MemoryRepository) find(id int64) int {
	if _, ok := r.index[id]; !ok {
		return -1
	}

	for i := range r.blogs {
		if r.blogs[i].ID == id {
			return i
		}
	}

	return -1
}

func (r *MemoryRepository) List(ctx context.Context) ([]Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	blogs := make([]Blog, len(r.blogs))
	copy(blogs, r.blogs)

	return blogs, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id int64) (*Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.find(id)
	if i < 0 {
		return nil, ErrRecordNotFound
	}

	b := r.blogs[i]
	return &b, nil
}

func (r *MemoryRepository) Insert(ctx context.Context, b *Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[b.ID]; ok {
		return ErrDuplicateID
	}

	r.blogs = append(r.blogs, *b)
	r.index[b.ID] = struct{}{}

	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, id int64, apply func(*Blog) error) (*Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.find(id)
	if i < 0 {
		return nil, ErrRecordNotFound
	}

	b := r.blogs[i]
	if err := apply(&b); err != nil {
		return nil, err
	}

	// The id is the lookup key and cannot move.
	b.ID = id
	r.blogs[i] = b

	return &b, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64, check func(*Blog) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.find(id)
	if i < 0 {
		return ErrRecordNotFound
	}

	b := r.blogs[i]
	if err := check(&b); err != nil {
		return err
	}

	r.blogs = append(r.blogs[:i], r.blogs[i+1:]...)
	delete(r.index, id)

	return nil
}
