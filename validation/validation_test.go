package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidate(t *testing.T) {
	schema := Schema{
		NewField("name", Required("name required")),
		NewField("kind", OneOf("bad kind", "a", "b")),
		NewField("qty", GreaterThan(decimal.Zero, "qty must be positive")),
	}

	tests := []struct {
		name     string
		input    Input
		expected Errors
	}{
		{
			name:     "All Valid",
			input:    Input{"name": "x", "kind": "a", "qty": "3"},
			expected: nil,
		},
		{
			name:  "All Missing",
			input: Input{},
			expected: Errors{
				"name": {"name required"},
				"kind": {"bad kind"},
				"qty":  {"qty must be positive"},
			},
		},
		{
			name:     "Blank Name",
			input:    Input{"name": "   ", "kind": "b", "qty": "1"},
			expected: Errors{"name": {"name required"}},
		},
		{
			name:     "Kind Is Case Sensitive",
			input:    Input{"name": "x", "kind": "A", "qty": "1"},
			expected: Errors{"kind": {"bad kind"}},
		},
		{
			name:     "Zero Quantity",
			input:    Input{"name": "x", "kind": "a", "qty": "0"},
			expected: Errors{"qty": {"qty must be positive"}},
		},
		{
			name:     "Non Numeric Quantity",
			input:    Input{"name": "x", "kind": "a", "qty": "ten"},
			expected: Errors{"qty": {"qty must be positive"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.Validate(tt.input))
		})
	}
}

func TestFieldCollectsMultipleMessages(t *testing.T) {
	schema := Schema{
		NewField("code",
			Required("code required"),
			OneOf("code unknown", "x1"),
			Required("code required"),
		),
	}

	errs := schema.Validate(Input{"code": ""})
	require.NotNil(t, errs)
	assert.Equal(t, []string{"code required", "code unknown"}, errs["code"])
	assert.Equal(t, []string{"code"}, errs.Fields())
}

func TestParseNumber(t *testing.T) {
	n, err := ParseNumber(" 19.99 ")
	require.NoError(t, err)
	assert.True(t, n.Equal(decimal.RequireFromString("19.99")))

	n, err = ParseNumber("")
	require.NoError(t, err)
	assert.True(t, n.IsZero())

	_, err = ParseNumber("12abc")
	assert.Error(t, err)
}

func TestLoginRules(t *testing.T) {
	schema := Schema{
		NewField("email", Email("bad email")),
		NewField("password", MinLength(6, "too short")),
	}

	assert.Nil(t, schema.Validate(Input{"email": "user@nextmail.com", "password": "123456"}))

	errs := schema.Validate(Input{"email": "User <user@nextmail.com>", "password": "12345"})
	assert.Equal(t, Errors{"email": {"bad email"}, "password": {"too short"}}, errs)

	errs = schema.Validate(Input{"email": "nope"})
	assert.Equal(t, []string{"email", "password"}, errs.Fields())
}
