package extract_test

import (
	"testing"

	"github.com/pseudomuto/sqlgate/pkg/extract"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple identifier",
			input:    "users",
			expected: `"users"`,
		},
		{
			name:     "schema qualified identifier",
			input:    "auth.users",
			expected: `"auth"."users"`,
		},
		{
			name:     "already quoted identifier",
			input:    `"My Table"`,
			expected: `"My Table"`,
		},
		{
			name:     "partially quoted qualified identifier",
			input:    `auth."User"`,
			expected: `"auth"."User"`,
		},
		{
			name:     "embedded quote is doubled",
			input:    `odd"name`,
			expected: `"odd""name"`,
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, extract.QuoteIdentifier(tt.input))
		})
	}
}

func TestIsQuoted(t *testing.T) {
	require.True(t, extract.IsQuoted(`"users"`))
	require.True(t, extract.IsQuoted(`"say ""hi"""`))
	require.False(t, extract.IsQuoted("users"))
	require.False(t, extract.IsQuoted(`"auth"."users"`))
	require.False(t, extract.IsQuoted(`"`))
}

func TestStripQuotes(t *testing.T) {
	require.Equal(t, "users", extract.StripQuotes(`"users"`))
	require.Equal(t, `say "hi"`, extract.StripQuotes(`"say ""hi"""`))
	require.Equal(t, "users", extract.StripQuotes("users"))
	require.Equal(t, `"auth"."users"`, extract.StripQuotes(`"auth"."users"`))
}

func TestIdentifierString(t *testing.T) {
	require.Equal(t, "auth.users", extract.Identifier{Schema: "auth", Name: "users"}.String())
	require.Equal(t, "users", extract.Identifier{Name: "users"}.String())
}
