package client

import (
	"cmp"
	"slices"
	"strings"

	"github.com/sushihentaime/blogbook/internal/blogservice"
)

// PerPage is the number of blogs shown on one listing page.
const PerPage = 9

type Sort string

const (
	SortNewest   Sort = "newest"
	SortOldest   Sort = "oldest"
	SortFeatured Sort = "featured"
)

type Query struct {
	Search string
	Sort   Sort
	// Page is 1-based; out of range values are clamped.
	Page int
}

type View struct {
	Blogs []blogservice.Blog
	Page  int
	Pages int
	Total int
}

// Apply filters, sorts and pages blogs without touching the input slice.
func Apply(blogs []blogservice.Blog, q Query) View {
	matched := make([]blogservice.Blog, 0, len(blogs))
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, b := range blogs {
		if needle == "" || matches(b, needle) {
			matched = append(matched, b)
		}
	}

	switch q.Sort {
	case SortOldest:
		slices.SortStableFunc(matched, func(a, b blogservice.Blog) int {
			return cmp.Compare(a.Date, b.Date)
		})
	case SortFeatured:
		slices.SortStableFunc(matched, func(a, b blogservice.Blog) int {
			if a.Featured != b.Featured {
				if a.Featured {
					return -1
				}
				return 1
			}
			return cmp.Compare(b.Date, a.Date)
		})
	default:
		slices.SortStableFunc(matched, func(a, b blogservice.Blog) int {
			return cmp.Compare(b.Date, a.Date)
		})
	}

	total := len(matched)
	pages := (total + PerPage - 1) / PerPage
	page := q.Page
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	start := min((page-1)*PerPage, total)
	end := min(start+PerPage, total)

	return View{
		Blogs: matched[start:end],
		Page:  page,
		Pages: pages,
		Total: total,
	}
}

func matches(b blogservice.Blog, needle string) bool {
	return strings.Contains(strings.ToLower(b.Title), needle) ||
		strings.Contains(strings.ToLower(b.Content), needle) ||
		strings.Contains(strings.ToLower(b.Author), needle)
}

// Featured returns up to n featured blogs in list order.
func Featured(blogs []blogservice.Blog, n int) []blogservice.Blog {
	if n <= 0 {
		return nil
	}

	out := make([]blogservice.Blog, 0, n)
	for _, b := range blogs {
		if len(out) == n {
			break
		}
		if b.Featured {
			out = append(out, b)
		}
	}
	return out
}

// Recent returns the last n blogs of the list, oldest first.
func Recent(blogs []blogservice.Blog, n int) []blogservice.Blog {
	if n <= 0 {
		return nil
	}
	if n > len(blogs) {
		n = len(blogs)
	}
	return slices.Clone(blogs[len(blogs)-n:])
}
