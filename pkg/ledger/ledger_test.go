package ledger_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlgate/pkg/ledger"
	"github.com/stretchr/testify/require"
)

type (
	mockDB struct {
		execs    []string
		execErr  error
		queries  []string
		rows     *mockRows
		queryErr error
	}

	mockRows struct {
		data    [][]any
		current int
		closed  bool
		scanErr error
		rowsErr error
	}
)

func (m *mockDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	m.execs = append(m.execs, sql)
	return pgconn.NewCommandTag("CREATE"), m.execErr
}

func (m *mockDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	m.queries = append(m.queries, sql)
	if m.queryErr != nil {
		return nil, m.queryErr
	}

	return m.rows, nil
}

func (m *mockRows) Close()                                       { m.closed = true }
func (m *mockRows) Err() error                                   { return m.rowsErr }
func (m *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (m *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *mockRows) Values() ([]any, error)                       { return m.data[m.current-1], nil }
func (m *mockRows) RawValues() [][]byte                          { return nil }
func (m *mockRows) Conn() *pgx.Conn                              { return nil }

func (m *mockRows) Next() bool {
	if m.closed || m.current >= len(m.data) {
		return false
	}

	m.current++
	return true
}

func (m *mockRows) Scan(dest ...any) error {
	if m.scanErr != nil {
		return m.scanErr
	}

	row := m.data[m.current-1]
	if len(dest) != len(row) {
		return errors.New("column count mismatch")
	}

	for i, val := range row {
		switch d := dest[i].(type) {
		case *string:
			*d = val.(string)
		case **string:
			if val == nil {
				*d = nil
				continue
			}
			s := val.(string)
			*d = &s
		default:
			return errors.Errorf("unsupported scan type %T", d)
		}
	}

	return nil
}

func TestNew(t *testing.T) {
	l := ledger.New("", "")
	require.Equal(t, "schema_migrations", l.Schema)
	require.Equal(t, "schema_migrations", l.Table)
	require.Equal(t, `"schema_migrations"."schema_migrations"`, l.Relation())

	l = ledger.New("supabase_migrations", "history")
	require.Equal(t, `"supabase_migrations"."history"`, l.Relation())
}

func TestBootstrap(t *testing.T) {
	db := &mockDB{}

	require.NoError(t, ledger.Bootstrap(context.Background(), db))
	require.Equal(t, []string{
		`CREATE SCHEMA IF NOT EXISTS "schema_migrations"`,
		`CREATE TABLE IF NOT EXISTS "schema_migrations"."schema_migrations" (version TEXT, name TEXT, statements TEXT)`,
	}, db.execs)
}

func TestBootstrapError(t *testing.T) {
	db := &mockDB{execErr: errors.New("permission denied for database postgres")}

	err := ledger.New("audit", "migrations").Bootstrap(context.Background(), db)
	require.EqualError(t, err, "failed to bootstrap ledger audit.migrations: permission denied for database postgres")
	require.Len(t, db.execs, 1)
}

func TestLoad(t *testing.T) {
	rows := &mockRows{
		data: [][]any{
			{"20250101000000", "create_users_public_users", "CREATE TABLE users (id INT);"},
			{"20250102000000", nil, nil},
			{"20250103000000", "grant_select_public_users", "GRANT SELECT ON users TO anon;"},
		},
	}
	db := &mockDB{rows: rows}

	history, err := ledger.Load(context.Background(), db)
	require.NoError(t, err)
	require.True(t, rows.closed)
	require.Equal(t, []string{
		`SELECT version, name, statements FROM "schema_migrations"."schema_migrations" ORDER BY version ASC, ctid ASC`,
	}, db.queries)

	require.Equal(t, 3, history.Count())
	require.Equal(t, &ledger.Entry{Version: "20250102000000"}, history.Get("20250102000000"))
	require.True(t, history.Has("20250101000000"))
	require.False(t, history.Has("20240101000000"))
	require.Nil(t, history.Get("20240101000000"))
	require.Equal(t, "grant_select_public_users", history.Latest().Name)

	since := history.Since("20250101000000")
	require.Len(t, since, 2)
	require.Equal(t, "20250102000000", since[0].Version)
	require.Empty(t, history.Since("20250103000000"))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		db      *mockDB
		message string
	}{
		{
			name:    "query fails",
			db:      &mockDB{queryErr: errors.New(`relation "schema_migrations.schema_migrations" does not exist`)},
			message: `failed to load ledger entries: relation "schema_migrations.schema_migrations" does not exist`,
		},
		{
			name:    "scan fails",
			db:      &mockDB{rows: &mockRows{data: [][]any{{"1", "a", "b"}}, scanErr: errors.New("bad type")}},
			message: "failed to scan ledger row: bad type",
		},
		{
			name:    "iteration fails",
			db:      &mockDB{rows: &mockRows{rowsErr: errors.New("conn reset")}},
			message: "failed to iterate ledger rows: conn reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.Load(context.Background(), tt.db)
			require.EqualError(t, err, tt.message)
		})
	}
}

func TestHistoryEmpty(t *testing.T) {
	history := ledger.NewHistory(nil)

	require.Zero(t, history.Count())
	require.Nil(t, history.Latest())
	require.Empty(t, history.Entries())
}

func TestHistoryEntriesIsACopy(t *testing.T) {
	history := ledger.NewHistory([]*ledger.Entry{{Version: "1"}, {Version: "2"}})

	entries := history.Entries()
	entries[0] = &ledger.Entry{Version: "changed"}

	require.Equal(t, "1", history.Entries()[0].Version)
}

func TestHistorySharedVersion(t *testing.T) {
	history := ledger.NewHistory([]*ledger.Entry{
		{Version: "20250102030405", Name: "create_users_public_users"},
		{Version: "20250102030405", Name: "seed_users"},
		{Version: "20250102030406", Name: "grant_select_public_users"},
	})

	require.Equal(t, 3, history.Count())
	require.True(t, history.Has("20250102030405"))
	require.Equal(t, "seed_users", history.Get("20250102030405").Name)
	require.Len(t, history.Since("20250102030404"), 3)
	require.Equal(t, "grant_select_public_users", history.Latest().Name)
}
