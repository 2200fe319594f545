// Package validation holds the field rules shared by every form the service
// accepts. Validators are pure: they never touch storage or emit notices.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Values are raw submitted field values keyed by field name.
type Values map[string]string

// Errors maps a field name to its error message. A missing key means the
// field is valid.
type Errors map[string]string

// Valid reports whether no field failed.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Details converts the errors into a generic map for error envelopes.
func (e Errors) Details() map[string]any {
	out := make(map[string]any, len(e))
	for field, msg := range e {
		out[field] = msg
	}
	return out
}

// Rule checks a single value. It returns the error message, or "" when the
// value passes. values gives access to sibling fields.
type Rule func(value string, values Values) string

// Field is a named form input with its rules. Rules run in order and the
// first failure wins.
type Field struct {
	Name  string
	Rules []Rule
}

// Form is an ordered set of fields. Field order is document order, which is
// what FirstInvalid reports against.
type Form struct {
	fields []Field
}

// NewForm builds a form from fields in document order.
func NewForm(fields ...Field) Form {
	return Form{fields: fields}
}

// Fields returns the field names in document order.
func (f Form) Fields() []string {
	names := make([]string, 0, len(f.fields))
	for _, field := range f.fields {
		names = append(names, field.Name)
	}
	return names
}

// Validate checks every field and returns the collected errors.
func (f Form) Validate(values Values) Errors {
	errs := Errors{}
	for _, field := range f.fields {
		if msg := check(field, values); msg != "" {
			errs[field.Name] = msg
		}
	}
	return errs
}

// ValidateField checks a single field by name. ok is false when the form has
// no such field.
func (f Form) ValidateField(name string, values Values) (msg string, ok bool) {
	for _, field := range f.fields {
		if field.Name == name {
			return check(field, values), true
		}
	}
	return "", false
}

// FirstInvalid returns the first field in document order that has an error.
func (f Form) FirstInvalid(errs Errors) (string, bool) {
	for _, field := range f.fields {
		if _, failed := errs[field.Name]; failed {
			return field.Name, true
		}
	}
	return "", false
}

func check(field Field, values Values) string {
	value := values[field.Name]
	for _, rule := range field.Rules {
		if msg := rule(value, values); msg != "" {
			return msg
		}
	}
	return ""
}

// Required fails on an empty value.
func Required(msg string) Rule {
	return func(value string, _ Values) string {
		if value == "" {
			return msg
		}
		return ""
	}
}

// RequiredTrimmed fails on a value that is empty after trimming whitespace.
func RequiredTrimmed(msg string) Rule {
	return func(value string, _ Values) string {
		if strings.TrimSpace(value) == "" {
			return msg
		}
		return ""
	}
}

// MinLength fails when the value has fewer than n characters.
func MinLength(n int, msg string) Rule {
	return func(value string, _ Values) string {
		if utf8.RuneCountInString(value) < n {
			return msg
		}
		return ""
	}
}

// MinTrimmedLength fails when the trimmed value has fewer than n characters.
func MinTrimmedLength(n int, msg string) Rule {
	return func(value string, _ Values) string {
		if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
			return msg
		}
		return ""
	}
}

// MaxLength fails when the value has more than n characters.
func MaxLength(n int, msg string) Rule {
	return func(value string, _ Values) string {
		if utf8.RuneCountInString(value) > n {
			return msg
		}
		return ""
	}
}

// OneOf fails when the value is not one of options.
func OneOf(msg string, options ...string) Rule {
	return func(value string, _ Values) string {
		for _, opt := range options {
			if value == opt {
				return ""
			}
		}
		return msg
	}
}

// Optional applies rule only when the value is non-empty.
func Optional(rule Rule) Rule {
	return func(value string, values Values) string {
		if value == "" {
			return ""
		}
		return rule(value, values)
	}
}

// EqualsField fails when the value differs from the named sibling field.
func EqualsField(other, msg string) Rule {
	return func(value string, values Values) string {
		if value != values[other] {
			return msg
		}
		return ""
	}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmail reports whether value looks like local@domain.tld in ASCII.
func IsEmail(value string) bool {
	for i := 0; i < len(value); i++ {
		if value[i] >= utf8.RuneSelf {
			return false
		}
	}
	return emailPattern.MatchString(value)
}

// Email fails when the trimmed value is not an email address.
func Email(msg string) Rule {
	return func(value string, _ Values) string {
		if !IsEmail(strings.TrimSpace(value)) {
			return msg
		}
		return ""
	}
}
