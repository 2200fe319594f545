package validation

import (
	"strings"

	"github.com/spec-kit/ticket-desk/internal/domain"
)

const (
	MinNameLength     = 2
	MinSubjectLength  = 3
	MinMessageLength  = 10
	MinPasswordLength = 6
	MaxDescription    = 500
)

// Field names as submitted by clients.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldSubject         = "subject"
	FieldMessage         = "message"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldStatus          = "status"
	FieldPriority        = "priority"
)

// ContactForm validates the public contact form.
var ContactForm = NewForm(
	Field{Name: FieldName, Rules: []Rule{
		RequiredTrimmed("Your name is required."),
		MinTrimmedLength(MinNameLength, "Name must be at least 2 characters."),
	}},
	Field{Name: FieldEmail, Rules: []Rule{
		RequiredTrimmed("Email is required."),
		Email("Please enter a valid email address."),
	}},
	Field{Name: FieldSubject, Rules: []Rule{
		RequiredTrimmed("Subject is required."),
		MinTrimmedLength(MinSubjectLength, "Subject must be at least 3 characters."),
	}},
	Field{Name: FieldMessage, Rules: []Rule{
		RequiredTrimmed("Message cannot be empty."),
		MinTrimmedLength(MinMessageLength, "Message must be at least 10 characters."),
	}},
)

var (
	authEmail = Field{Name: FieldEmail, Rules: []Rule{
		RequiredTrimmed("Email is required"),
		Email("Email is invalid"),
	}}
	authPassword = Field{Name: FieldPassword, Rules: []Rule{
		Required("Password is required"),
		MinLength(MinPasswordLength, "Password must be at least 6 characters"),
	}}
)

// LoginForm validates login credentials before any account lookup.
var LoginForm = NewForm(authEmail, authPassword)

// SignupForm validates account registration. Display names only need to be
// present; single-letter names such as initials are accepted.
var SignupForm = NewForm(
	Field{Name: FieldName, Rules: []Rule{
		RequiredTrimmed("Name is required"),
	}},
	authEmail,
	authPassword,
	Field{Name: FieldConfirmPassword, Rules: []Rule{
		EqualsField(FieldPassword, "Passwords do not match"),
	}},
)

// TicketForm validates a ticket as it will be stored, for both create and
// the merged result of an update.
var TicketForm = NewForm(
	Field{Name: FieldTitle, Rules: []Rule{
		RequiredTrimmed("Title is required"),
	}},
	Field{Name: FieldDescription, Rules: []Rule{
		MaxLength(MaxDescription, "Description must be less than 500 characters"),
	}},
	Field{Name: FieldStatus, Rules: []Rule{
		Required("Status is required"),
		oneOfEnum("Status", domain.TicketStatuses),
	}},
	Field{Name: FieldPriority, Rules: []Rule{
		Optional(oneOfEnum("Priority", domain.TicketPriorities)),
	}},
)

// oneOfEnum restricts a field to the values of a string enum, listing them
// in the message as "<label> must be one of: a, b, c".
func oneOfEnum[T ~string](label string, values []T) Rule {
	options := make([]string, len(values))
	for i, v := range values {
		options[i] = string(v)
	}
	return OneOf(label+" must be one of: "+strings.Join(options, ", "), options...)
}
