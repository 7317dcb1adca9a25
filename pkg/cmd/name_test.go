package cmd

import (
	"strings"
	"testing"

	"github.com/pseudomuto/sqlgate/pkg/cmd/testutil"
	"github.com/pseudomuto/sqlgate/pkg/migration"
	"github.com/stretchr/testify/require"
)

func TestNameCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "create table",
			args:     []string{"CREATE TABLE users (id SERIAL PRIMARY KEY);"},
			expected: "create_users_public_users",
		},
		{
			name:     "schema qualified function",
			args:     []string{"CREATE OR REPLACE FUNCTION auth.user_role() RETURNS text AS $$ SELECT 'a;b' $$ LANGUAGE sql;"},
			expected: "create_function_auth_user_role",
		},
		{
			name:     "arguments are joined",
			args:     []string{"GRANT", "SELECT", "ON", "users", "TO", "anon"},
			expected: "grant_select_public_users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := testutil.NewFixture(t)

			out, err := testutil.RunCommand(t, nameCmd(nameParams{Validator: fixture.Validator}), tt.args...)
			require.NoError(t, err)
			require.Equal(t, tt.expected, strings.TrimSpace(out))
		})
	}
}

func TestNameCommandReadOnly(t *testing.T) {
	fixture := testutil.NewFixture(t)

	out, err := testutil.RunCommand(t, nameCmd(nameParams{Validator: fixture.Validator}), "SELECT * FROM users;")
	require.NoError(t, err)
	require.Equal(t, "migration_"+migration.ShortHash("SELECT * FROM users;"), strings.TrimSpace(out))
}
