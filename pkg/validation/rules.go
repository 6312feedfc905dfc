package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Mode selects how the rule table treats absent fields.
type Mode int

const (
	// Create requires every field flagged RequiredOnCreate.
	Create Mode = iota
	// Edit validates only fields present in the payload.
	Edit
)

const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldPassword  = "password"
	FieldPhone     = "phone"
	FieldEmail     = "email"
)

const (
	MsgFirstName = "firstName must be at least 2 characters long"
	MsgLastName  = "lastName must be at least 2 characters long"
	MsgPassword  = "password must not be blank"
	MsgPhone     = `phone must start with "+" and contain at least 7 digits`
	MsgEmail     = "email must be a valid email address"
)

// Rule is one validator tag and the message reported when it fails.
type Rule struct {
	Tag     string
	Message string
}

// FieldRules lists the ordered rules for one payload field.
type FieldRules struct {
	Field            string
	RequiredOnCreate bool
	Rules            []Rule
}

// UserRules is evaluated in order; the order fixes the order of reported violations.
var UserRules = []FieldRules{
	{Field: FieldFirstName, RequiredOnCreate: true, Rules: []Rule{
		{Tag: "notblank", Message: MsgFirstName},
		{Tag: "min=2", Message: MsgFirstName},
	}},
	{Field: FieldLastName, RequiredOnCreate: true, Rules: []Rule{
		{Tag: "notblank", Message: MsgLastName},
		{Tag: "min=2", Message: MsgLastName},
	}},
	{Field: FieldPassword, RequiredOnCreate: true, Rules: []Rule{
		{Tag: "notblank", Message: MsgPassword},
	}},
	{Field: FieldPhone, RequiredOnCreate: true, Rules: []Rule{
		{Tag: "notblank", Message: MsgPhone},
		{Tag: "intlphone", Message: MsgPhone},
	}},
	{Field: FieldEmail, RequiredOnCreate: true, Rules: []Rule{
		{Tag: "notblank", Message: MsgEmail},
		{Tag: "email", Message: MsgEmail},
	}},
}

// FieldError is a single violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors aggregates every violation found in one payload.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Message)
	}
	return strings.Join(parts, "; ")
}

var validate = newRuleValidator()

func newRuleValidator() *validator.Validate {
	v := validator.New()
	registerCustom(v)
	return v
}

// Present reports whether a payload value counts as supplied.
func Present(v string) bool {
	return strings.TrimSpace(v) != ""
}

// Validate runs the rule table over fields. It returns nil or an Errors value
// holding at most one violation per field.
func Validate(table []FieldRules, fields map[string]string, mode Mode) error {
	var errs Errors
	for _, fr := range table {
		value := fields[fr.Field]
		if !Present(value) && (mode == Edit || !fr.RequiredOnCreate) {
			continue
		}
		for _, r := range fr.Rules {
			if err := validate.Var(value, r.Tag); err != nil {
				errs = append(errs, FieldError{Field: fr.Field, Message: r.Message})
				break
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateUser applies UserRules.
func ValidateUser(fields map[string]string, mode Mode) error {
	return Validate(UserRules, fields, mode)
}
