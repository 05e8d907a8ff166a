// Package validation checks submitted form values against per-field rules
// and collects every failure instead of stopping at the first one.
package validation

import (
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Input is submitted form data. A field that was not submitted has no key.
type Input map[string]string

// Errors maps a field name to its messages, in rule order.
type Errors map[string][]string

// Add records msg for field unless the field already carries it.
func (e Errors) Add(field, msg string) {
	if slices.Contains(e[field], msg) {
		return
	}
	e[field] = append(e[field], msg)
}

// Fields returns the names of the failing fields, sorted.
func (e Errors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Rule rejects a value by returning false from Check.
type Rule struct {
	Message string
	Check   func(value string, present bool) bool
}

// Field binds a set of rules to one input key.
type Field struct {
	Name  string
	Rules []Rule
}

func NewField(name string, rules ...Rule) Field {
	return Field{Name: name, Rules: rules}
}

// Schema is an ordered list of fields.
type Schema []Field

// Validate runs every rule of every field and returns nil when all pass.
func (s Schema) Validate(in Input) Errors {
	errs := Errors{}
	for _, f := range s {
		value, present := in[f.Name]
		for _, r := range f.Rules {
			if !r.Check(value, present) {
				errs.Add(f.Name, r.Message)
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Required accepts any present value that is not blank.
func Required(msg string) Rule {
	return Rule{
		Message: msg,
		Check: func(value string, present bool) bool {
			return present && strings.TrimSpace(value) != ""
		},
	}
}

// OneOf accepts only the listed values, compared exactly.
func OneOf(msg string, allowed ...string) Rule {
	return Rule{
		Message: msg,
		Check: func(value string, present bool) bool {
			return present && slices.Contains(allowed, value)
		},
	}
}

// MinLength accepts values of at least n characters.
func MinLength(n int, msg string) Rule {
	return Rule{
		Message: msg,
		Check: func(value string, present bool) bool {
			return present && utf8.RuneCountInString(value) >= n
		},
	}
}

// Email accepts a bare address such as user@example.com.
func Email(msg string) Rule {
	return Rule{
		Message: msg,
		Check: func(value string, present bool) bool {
			if !present {
				return false
			}
			addr, err := mail.ParseAddress(value)
			return err == nil && addr.Address == value
		},
	}
}

// GreaterThan coerces the value to a number and accepts it when it is
// strictly greater than min.
func GreaterThan(min decimal.Decimal, msg string) Rule {
	return Rule{
		Message: msg,
		Check: func(value string, present bool) bool {
			if !present {
				return false
			}
			n, err := ParseNumber(value)
			return err == nil && n.GreaterThan(min)
		},
	}
}

// ParseNumber coerces form text to a number. Surrounding whitespace is
// ignored and a blank value is zero.
func ParseNumber(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(value)
}
