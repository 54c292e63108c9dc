// Package validator wraps go-playground validation behind a small
// injectable type so handlers do not depend on the library directly.
package validator

import "github.com/go-playground/validator/v10"

// Validator checks structs and single values against validation tags.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the default rule set. Custom rules can
// be added through RegisterValidation.
func New() *Validator {
	return &Validator{v: validator.New()}
}

// Struct validates s against its field tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single value against a tag expression.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation adds a custom validation function under the given tag.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}
