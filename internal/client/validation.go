package client

import (
	"github.com/sushihentaime/blogbook/internal/common"
	"github.com/sushihentaime/blogbook/internal/userservice"
)

// ValidationError lists form fields that failed before any request was sent.
type ValidationError = common.ValidationError

// BlogForm is what the editor submits for create and edit.
type BlogForm struct {
	Title    string
	Content  string
	Author   string
	Featured bool
}

func ValidateBlogForm(v *common.Validator, f BlogForm) {
	v.Check(f.Title != "", "title", "Title is required")
	v.Check(v.MinLength(f.Title, 5), "title", "Title must be at least 5 characters")
	v.Check(f.Content != "", "content", "Content is required")
	v.Check(v.MinLength(f.Content, 20), "content", "Content must be at least 20 characters")
	v.Check(f.Author != "", "author", "Author is required")
	v.Check(v.MinLength(f.Author, 2), "author", "Author name must be at least 2 characters")
}

func ValidateLogin(v *common.Validator, email, password string) {
	userservice.ValidateEmail(v, email)
	v.Check(password != "", "password", "must be provided")
	v.Check(v.MinLength(password, 6), "password", "must be at least 6 characters long")
}

func ValidateSignup(v *common.Validator, name, email, password string) {
	userservice.ValidateName(v, name)
	userservice.ValidateEmail(v, email)
	userservice.ValidatePassword(v, password)
}
