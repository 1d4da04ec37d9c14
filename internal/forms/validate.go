// Package forms decodes, validates and submits the site and admin forms, then
// notifies the user and refreshes whatever the submission changed.
package forms

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	msgRequired     = "This field is required"
	msgInvalidEmail = "Please enter a valid email address"
)

// ValidationError lists the offending fields with a message each.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "forms: invalid fields [" + strings.Join(names, ", ") + "]"
}

// Add records a message for field unless one is already present.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// Rule describes the checks applied to one field.
type Rule struct {
	Name     string
	Required bool
	Email    bool
}

// Validate applies rules to values. It returns nil when every rule passes.
func Validate(values url.Values, rules []Rule) *ValidationError {
	var verr ValidationError
	for _, rule := range rules {
		value := strings.TrimSpace(values.Get(rule.Name))
		if rule.Required && value == "" {
			verr.Add(rule.Name, msgRequired)
			continue
		}
		if rule.Email && value != "" && !emailPattern.MatchString(value) {
			verr.Add(rule.Name, msgInvalidEmail)
		}
	}
	if len(verr.Fields) == 0 {
		return nil
	}
	return &verr
}

// IsValidEmail reports whether value looks like an email address.
func IsValidEmail(value string) bool {
	return emailPattern.MatchString(strings.TrimSpace(value))
}

// Form is the view model of a form: submitted values plus per-field errors.
type Form struct {
	Values url.Values
	Errors map[string]string
}

// Value returns the submitted value of name.
func (f Form) Value(name string) string {
	if f.Values == nil {
		return ""
	}
	return f.Values.Get(name)
}

// Checked reports whether a checkbox was ticked.
func (f Form) Checked(name string) bool {
	return f.Values != nil && f.Values.Has(name)
}

// Invalid reports whether name failed validation.
func (f Form) Invalid(name string) bool {
	_, ok := f.Errors[name]
	return ok
}

// Error returns the validation message for name.
func (f Form) Error(name string) string {
	return f.Errors[name]
}

// Selected reports whether the submitted value of name equals option.
func (f Form) Selected(name, option string) bool {
	return f.Value(name) == option
}
