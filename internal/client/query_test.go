package client

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sushihentaime/blogbook/internal/blogservice"
)

func sampleBlogs() []blogservice.Blog {
	return []blogservice.Blog{
		{ID: 1, Title: "Learning Go", Content: "Channels and goroutines", Author: "Ada", Date: "2024-01-10"},
		{ID: 2, Title: "Baking bread", Content: "Flour, water, salt", Author: "Grace", Date: "2024-03-05", Featured: true},
		{ID: 3, Title: "Travel notes", Content: "A GOod trip", Author: "Linus", Date: "2023-12-24"},
		{ID: 4, Title: "Garden log", Content: "Tomatoes again", Author: "Gopher", Date: "2024-02-01", Featured: true},
	}
}

func ids(blogs []blogservice.Blog) []int64 {
	out := make([]int64, len(blogs))
	for i, b := range blogs {
		out[i] = b.ID
	}
	return out
}

func TestApplySort(t *testing.T) {
	tests := []struct {
		sort Sort
		want []int64
	}{
		{SortNewest, []int64{2, 4, 1, 3}},
		{"", []int64{2, 4, 1, 3}},
		{SortOldest, []int64{3, 1, 4, 2}},
		{SortFeatured, []int64{2, 4, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			view := Apply(sampleBlogs(), Query{Sort: tt.sort})
			assert.Equal(t, tt.want, ids(view.Blogs))
		})
	}
}

func TestApplySearch(t *testing.T) {
	view := Apply(sampleBlogs(), Query{Search: "  go "})
	assert.Equal(t, []int64{4, 1, 3}, ids(view.Blogs))
	assert.Equal(t, 3, view.Total)

	view = Apply(sampleBlogs(), Query{Search: "nothing matches"})
	assert.Empty(t, view.Blogs)
	assert.Equal(t, 0, view.Pages)
	assert.Equal(t, 1, view.Page)
}

func TestApplyPaging(t *testing.T) {
	var blogs []blogservice.Blog
	for i := 1; i <= 20; i++ {
		blogs = append(blogs, blogservice.Blog{ID: int64(i), Date: fmt.Sprintf("2024-01-%02d", i)})
	}

	view := Apply(blogs, Query{Page: 1})
	assert.Equal(t, 3, view.Pages)
	assert.Len(t, view.Blogs, PerPage)
	assert.Equal(t, int64(20), view.Blogs[0].ID)

	view = Apply(blogs, Query{Page: 3})
	assert.Len(t, view.Blogs, 2)
	assert.Equal(t, []int64{2, 1}, ids(view.Blogs))

	view = Apply(blogs, Query{Page: 99})
	assert.Equal(t, 3, view.Page)

	view = Apply(blogs, Query{Page: -1})
	assert.Equal(t, 1, view.Page)
}

func TestFeatured(t *testing.T) {
	assert.Equal(t, []int64{2, 4}, ids(Featured(sampleBlogs(), 3)))
	assert.Equal(t, []int64{2}, ids(Featured(sampleBlogs(), 1)))
	assert.Empty(t, Featured(sampleBlogs(), 0))
}

func TestRecent(t *testing.T) {
	assert.Equal(t, []int64{2, 3, 4}, ids(Recent(sampleBlogs(), 3)))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(Recent(sampleBlogs(), 10)))
	assert.Empty(t, Recent(sampleBlogs(), 0))
	assert.Empty(t, Recent(nil, 3))

	blogs := sampleBlogs()
	recent := Recent(blogs, 1)
	recent[0].Title = "changed"
	assert.Equal(t, "Garden log", blogs[3].Title)
}
