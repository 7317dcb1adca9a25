package extract_test

import (
	"testing"

	"github.com/pseudomuto/sqlgate/pkg/extract"
	"github.com/stretchr/testify/require"
)

type extractCase struct {
	sql      string
	expected string
}

func runExtractCases(t *testing.T, fn func(string) string, tests []extractCase) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			require.Equal(t, tt.expected, fn(tt.sql))
		})
	}
}

func TestTable(t *testing.T) {
	runExtractCases(t, extract.Table, []extractCase{
		{"CREATE TABLE users (id SERIAL PRIMARY KEY);", "users"},
		{"CREATE TABLE IF NOT EXISTS users (id SERIAL PRIMARY KEY);", "users"},
		{"CREATE TABLE public.users (id SERIAL PRIMARY KEY);", "users"},
		{"create unlogged table if not exists app.events (id int)", "events"},
		{`CREATE TABLE "Public"."User Accounts" (id int)`, "User Accounts"},
		{"ALTER TABLE users ADD COLUMN email TEXT;", "users"},
		{"ALTER TABLE IF EXISTS ONLY public.users ADD COLUMN email TEXT;", "users"},
		{"DROP TABLE users;", "users"},
		{"DROP TABLE IF EXISTS users;", "users"},
		{"DROP TABLE public.users;", "users"},
		{"TRUNCATE TABLE app.logs", "logs"},
		{"INSERT INTO users (name) VALUES ('John');", "users"},
		{"UPDATE users SET name = 'John' WHERE id = 1;", "users"},
		{"DELETE FROM users WHERE id = 1;", "users"},
		{"MERGE INTO accounts a USING staged s ON a.id = s.id WHEN MATCHED THEN DELETE", "accounts"},
		{"", extract.Unknown},
		{"SELECT * FROM users;", extract.Unknown},
	})
}

func TestFunction(t *testing.T) {
	runExtractCases(t, extract.Function, []extractCase{
		{"CREATE FUNCTION get_user() RETURNS SETOF users AS $$ SELECT * FROM users; $$ LANGUAGE SQL;", "get_user"},
		{"CREATE OR REPLACE FUNCTION get_user() RETURNS SETOF users AS $$ SELECT * FROM users; $$ LANGUAGE SQL;", "get_user"},
		{"CREATE FUNCTION public.get_user() RETURNS SETOF users AS $$ SELECT * FROM users; $$ LANGUAGE SQL;", "get_user"},
		{"CREATE OR REPLACE FUNCTION auth.user_role(uid UUID) RETURNS text AS $$ SELECT 'x' $$ LANGUAGE sql", "user_role"},
		{"CREATE PROCEDURE archive_logs() LANGUAGE sql AS $$ DELETE FROM logs $$", "archive_logs"},
		{"ALTER FUNCTION get_user() SECURITY DEFINER;", "get_user"},
		{"ALTER FUNCTION public.get_user() SECURITY DEFINER;", "get_user"},
		{"DROP FUNCTION get_user();", "get_user"},
		{"DROP FUNCTION IF EXISTS public.get_user();", "get_user"},
		{"", extract.Unknown},
		{"SELECT * FROM users;", extract.Unknown},
	})
}

func TestView(t *testing.T) {
	runExtractCases(t, extract.View, []extractCase{
		{"CREATE VIEW user_view AS SELECT * FROM users;", "user_view"},
		{"CREATE OR REPLACE VIEW user_view AS SELECT * FROM users;", "user_view"},
		{"CREATE VIEW public.user_view AS SELECT * FROM users;", "user_view"},
		{"CREATE MATERIALIZED VIEW IF NOT EXISTS reporting.daily AS SELECT 1", "daily"},
		{"ALTER VIEW user_view RENAME TO users_view;", "user_view"},
		{"ALTER VIEW public.user_view RENAME TO users_view;", "user_view"},
		{"DROP VIEW user_view;", "user_view"},
		{"DROP VIEW IF EXISTS public.user_view;", "user_view"},
		{"", extract.Unknown},
		{"SELECT * FROM users;", extract.Unknown},
	})
}

func TestIndex(t *testing.T) {
	runExtractCases(t, extract.Index, []extractCase{
		{"CREATE INDEX idx_user_email ON users (email);", "idx_user_email"},
		{"CREATE INDEX IF NOT EXISTS idx_user_email ON users (email);", "idx_user_email"},
		{"CREATE INDEX public.idx_user_email ON users (email);", "idx_user_email"},
		{"CREATE UNIQUE INDEX CONCURRENTLY idx_user_email ON users (email);", "idx_user_email"},
		{"ALTER INDEX idx_user_email RENAME TO idx_email;", "idx_user_email"},
		{"DROP INDEX idx_user_email;", "idx_user_email"},
		{"DROP INDEX IF EXISTS idx_user_email;", "IF"},
		{"", extract.Unknown},
		{"SELECT * FROM users;", extract.Unknown},
	})
}

func TestExtension(t *testing.T) {
	runExtractCases(t, extract.Extension, []extractCase{
		{"CREATE EXTENSION pgcrypto;", "pgcrypto"},
		{"CREATE EXTENSION IF NOT EXISTS pgcrypto;", "pgcrypto"},
		{`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`, "uuid-ossp"},
		{"ALTER EXTENSION pgcrypto UPDATE TO '1.3';", "pgcrypto"},
		{"DROP EXTENSION pgcrypto;", "pgcrypto"},
		{"DROP EXTENSION IF EXISTS pgcrypto;", "IF"},
		{"", extract.Unknown},
		{"SELECT * FROM users;", extract.Unknown},
	})
}

func TestType(t *testing.T) {
	runExtractCases(t, extract.Type, []extractCase{
		{"CREATE TYPE user_status AS ENUM ('active', 'inactive', 'suspended');", "user_status"},
		{"CREATE TYPE public.user_status AS ENUM ('active', 'inactive', 'suspended');", "user_status"},
		{`CREATE DOMAIN email_address AS TEXT CHECK (VALUE ~ '^[a-z]+@[a-z]+\.[a-z]{2,}$');`, "email_address"},
		{`CREATE DOMAIN public.email_address AS TEXT CHECK (VALUE ~ '^[a-z]+@[a-z]+\.[a-z]{2,}$');`, "email_address"},
		{"ALTER TYPE user_status ADD VALUE 'pending';", "user_status"},
		{"ALTER TYPE public.user_status ADD VALUE 'pending';", "user_status"},
		{"DROP TYPE user_status;", "user_status"},
		{"DROP TYPE public.user_status;", "user_status"},
		{"DROP DOMAIN IF EXISTS email_address", "email_address"},
		{"", extract.Unknown},
		{"SELECT * FROM users;", extract.Unknown},
	})
}

func TestUpdateColumns(t *testing.T) {
	runExtractCases(t, extract.UpdateColumns, []extractCase{
		{"UPDATE users SET name = 'John' WHERE id = 1;", "name"},
		{"UPDATE users SET name = 'John', email = 'john@example.com', active = true WHERE id = 1;", "name_email_active"},
		{
			"UPDATE users SET name = 'John', email = 'john@example.com', active = true, created_at = NOW(), updated_at = NOW() WHERE id = 1;",
			"name_email_active",
		},
		{`UPDATE public.users SET "Display Name" = 'J' WHERE id = 1`, "Display Name"},
		{"UPDATE users SET tags = array['a', 'b'] WHERE id = 1", ""},
		{"UPDATE users SET name = 'John'", ""},
		{"", ""},
		{"SELECT * FROM users;", ""},
	})
}

func TestPrivilege(t *testing.T) {
	runExtractCases(t, extract.Privilege, []extractCase{
		{"GRANT SELECT ON users TO anon;", "select"},
		{"GRANT INSERT ON users TO authenticated;", "insert"},
		{"GRANT UPDATE ON users TO authenticated;", "update"},
		{"GRANT DELETE ON users TO authenticated;", "delete"},
		{"GRANT ALL ON users TO authenticated;", "all"},
		{"GRANT ALL PRIVILEGES ON users TO authenticated;", "all"},
		{"GRANT SELECT, INSERT, UPDATE ON users TO authenticated;", "select"},
		{"grant update (name) on users to authenticated", "update"},
		{"REVOKE SELECT ON users FROM anon;", "select"},
		{"REVOKE ALL ON users FROM anon;", "all"},
		{"GRANT USAGE ON SCHEMA app TO anon", extract.DefaultPrivilege},
		{"", extract.DefaultPrivilege},
		{"SELECT * FROM users;", extract.DefaultPrivilege},
	})
}

func TestDCLObject(t *testing.T) {
	runExtractCases(t, extract.DCLObject, []extractCase{
		{"GRANT SELECT ON users TO anon;", "users"},
		{"GRANT SELECT ON TABLE users TO anon;", "users"},
		{"GRANT SELECT ON public.users TO anon;", "users"},
		{"GRANT SELECT ON TABLE public.users TO anon;", "users"},
		{"REVOKE SELECT ON users FROM anon;", "users"},
		{"REVOKE SELECT ON TABLE users FROM anon;", "users"},
		{"GRANT USAGE ON SCHEMA app TO anon", "app"},
		{"GRANT SELECT ON ALL TABLES IN SCHEMA app TO anon", "app"},
		{"GRANT EXECUTE ON FUNCTION auth.user_role() TO authenticated", "user_role"},
		{"GRANT admin TO bob", extract.Unknown},
		{"", extract.Unknown},
		{"SELECT * FROM users;", extract.Unknown},
	})
}

func TestGeneric(t *testing.T) {
	runExtractCases(t, extract.Generic, []extractCase{
		{"CREATE SCHEMA app;", "app"},
		{"CREATE SCHEMA IF NOT EXISTS app;", "app"},
		{"ALTER SCHEMA app RENAME TO application;", "app"},
		{"DROP SCHEMA app;", "app"},
		{"DROP SEQUENCE IF EXISTS public.order_seq", "order_seq"},
		{"CREATE TRIGGER audit_users AFTER INSERT ON users FOR EACH ROW EXECUTE FUNCTION audit()", "audit_users"},
		{"SELECT * FROM users;", "users"},
		{"INSERT INTO users (name) VALUES ('John');", "users"},
		{"", extract.Unknown},
		{"BEGIN;", extract.Unknown},
	})
}

func TestTarget(t *testing.T) {
	tests := []struct {
		kind     string
		sql      string
		expected extract.Identifier
		ok       bool
	}{
		{"TABLE", "CREATE TABLE auth.users (id int)", extract.Identifier{Schema: "auth", Name: "users"}, true},
		{"table", "insert into users values (1)", extract.Identifier{Name: "users"}, true},
		{"FUNCTION", "CREATE FUNCTION auth.user_role() RETURNS text", extract.Identifier{Schema: "auth", Name: "user_role"}, true},
		{"PROCEDURE", "DROP PROCEDURE app.archive()", extract.Identifier{Schema: "app", Name: "archive"}, true},
		{"DOMAIN", "CREATE DOMAIN app.email AS text", extract.Identifier{Schema: "app", Name: "email"}, true},
		{"SCHEMA", "CREATE SCHEMA app", extract.Identifier{Name: "app"}, true},
		{"SEQUENCE", "CREATE SEQUENCE billing.invoice_seq", extract.Identifier{Schema: "billing", Name: "invoice_seq"}, true},
		{"TABLE", "SELECT 1", extract.Identifier{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			id, ok := extract.Target(tt.kind, tt.sql)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.expected, id)
		})
	}
}

func TestSchemaOf(t *testing.T) {
	runExtractCases(t, extract.SchemaOf, []extractCase{
		{"CREATE TABLE auth.users (id int)", "auth"},
		{"CREATE TABLE users (id int)", ""},
		{"GRANT SELECT ON app.orders TO anon", "app"},
		{"COMMENT ON COLUMN billing.invoices IS 'x'", "billing"},
		{"CREATE OR REPLACE FUNCTION auth.user_role() RETURNS text AS $$ SELECT 1 $$ LANGUAGE sql", "auth"},
		{"DROP SEQUENCE IF EXISTS public.order_seq", "public"},
		{"", ""},
	})
}

func TestCommentTarget(t *testing.T) {
	tests := []struct {
		sql  string
		kind string
		id   extract.Identifier
		ok   bool
	}{
		{"COMMENT ON TABLE public.users IS 'accounts'", "TABLE", extract.Identifier{Schema: "public", Name: "users"}, true},
		{"comment on materialized   view mv is 'x'", "MATERIALIZED VIEW", extract.Identifier{Name: "mv"}, true},
		{"COMMENT ON FUNCTION auth.user_role() IS 'x'", "FUNCTION", extract.Identifier{Schema: "auth", Name: "user_role"}, true},
		{"COMMENT ON SCHEMA app IS 'x'", "SCHEMA", extract.Identifier{Name: "app"}, true},
		{"SELECT 1", "", extract.Identifier{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			kind, id, ok := extract.CommentTarget(tt.sql)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.kind, kind)
			require.Equal(t, tt.id, id)
		})
	}
}
