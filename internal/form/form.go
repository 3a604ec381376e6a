// Package form holds the client-side validation rules for the login,
// signup and task forms. Validation runs before any request is built.
package form

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password the forms accept.
const MinPasswordLength = 6

// Field names shared by the forms.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldTitle       = "title"
	FieldDescription = "description"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Errors maps a field name to its first validation message.
type Errors map[string]string

// Add records msg for field unless the field already has a message.
func (e Errors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

// OK reports whether no field failed.
func (e Errors) OK() bool {
	return len(e) == 0
}

// Error lists the failures in field order so Errors can travel as an error.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// Err returns e as an error, or nil when there are no failures.
func (e Errors) Err() error {
	if e.OK() {
		return nil
	}
	return e
}

// Login holds the login form values.
type Login struct {
	Email    string
	Password string
}

// Validate checks email format and password length.
func (l Login) Validate() Errors {
	errs := Errors{}
	switch {
	case l.Email == "":
		errs.Add(FieldEmail, "Required")
	case !ValidEmail(l.Email):
		errs.Add(FieldEmail, "Invalid email address")
	}
	switch {
	case l.Password == "":
		errs.Add(FieldPassword, "Required")
	case utf8.RuneCountInString(l.Password) < MinPasswordLength:
		errs.Add(FieldPassword, "Password must be at least 6 characters")
	}
	return errs
}

// Signup holds the signup form values.
type Signup struct {
	Name     string
	Email    string
	Password string
}

// Validate checks the name is present, then applies the login rules.
func (s Signup) Validate() Errors {
	errs := Errors{}
	if strings.TrimSpace(s.Name) == "" {
		errs.Add(FieldName, "Name is required")
	}
	switch {
	case s.Email == "":
		errs.Add(FieldEmail, "Email is required")
	case !ValidEmail(s.Email):
		errs.Add(FieldEmail, "Invalid email")
	}
	switch {
	case s.Password == "":
		errs.Add(FieldPassword, "Password is required")
	case utf8.RuneCountInString(s.Password) < MinPasswordLength:
		errs.Add(FieldPassword, "Password must be at least 6 characters")
	}
	return errs
}

// Task holds the create/edit task form values.
type Task struct {
	Title       string
	Description string
}

// Normalize trims both fields.
func (t Task) Normalize() Task {
	return Task{
		Title:       strings.TrimSpace(t.Title),
		Description: strings.TrimSpace(t.Description),
	}
}

// Validate requires a non-blank title. The description is optional.
func (t Task) Validate() Errors {
	errs := Errors{}
	if strings.TrimSpace(t.Title) == "" {
		errs.Add(FieldTitle, "Task title is required")
	}
	return errs
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
