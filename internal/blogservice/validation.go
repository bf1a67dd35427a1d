package blogservice

import (
	"time"

	"github.com/sushihentaime/blogbook/internal/common"
)

const (
	maxTitleLength   = 200
	maxAuthorLength  = 100
	maxContentLength = 100_000
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.MaxLength(title, maxTitleLength), "title", "must not be more than 200 characters long")
}

func validateContent(v *common.Validator, content string) {
	v.Check(v.MaxLength(content, maxContentLength), "content", "must not be more than 100000 characters long")
}

func validateAuthor(v *common.Validator, author string) {
	v.Check(v.MaxLength(author, maxAuthorLength), "author", "must not be more than 100 characters long")
}

// validateDate accepts an empty date; the caller fills in today's date.
func validateDate(v *common.Validator, date string) {
	if date == "" {
		return
	}

	_, err := time.Parse(time.DateOnly, date)
	v.Check(err == nil, "date", "must be a date in YYYY-MM-DD format")
}

func validateID(v *common.Validator, id int64) {
	v.Check(id > 0, "id", "must be greater than zero")
}

func validateInput(v *common.Validator, in *BlogInput) {
	validateTitle(v, in.Title)
	validateContent(v, in.Content)
	validateAuthor(v, in.Author)
	validateDate(v, in.Date)
}

func validatePatch(v *common.Validator, p *BlogPatch) {
	if p.Title != nil {
		validateTitle(v, *p.Title)
	}
	if p.Content != nil {
		validateContent(v, *p.Content)
	}
	if p.Author != nil {
		validateAuthor(v, *p.Author)
	}
	if p.Date != nil {
		v.Check(*p.Date != "", "date", "must be provided")
		validateDate(v, *p.Date)
	}
}
