package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlgate/pkg/consts"
)

type (
	// DB is the subset of a pgx connection or pool used to read and create the
	// ledger. *pgxpool.Pool, *pgx.Conn and pgx.Tx all satisfy it.
	DB interface {
		Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
		Query(context.Context, string, ...any) (pgx.Rows, error)
	}

	// Ledger identifies the table that records applied migrations.
	Ledger struct {
		Schema string
		Table  string
	}

	// Entry is a single recorded migration.
	Entry struct {
		// Version is the UTC timestamp the migration was recorded at, e.g.
		// "20250102030405".
		Version string

		// Name is the generated or caller supplied migration name.
		Name string

		// Statements is the SQL text that was executed.
		Statements string
	}

	// History is the ordered list of entries in a ledger, oldest first.
	History struct {
		entries []*Entry
		index   map[string]*Entry
	}
)

var defaultLedger = New("", "")

// New returns a Ledger for schema.table. Empty values fall back to
// schema_migrations.
func New(schema, table string) *Ledger {
	if schema == "" {
		schema = consts.DefaultLedgerSchema
	}
	if table == "" {
		table = consts.DefaultLedgerTable
	}

	return &Ledger{Schema: schema, Table: table}
}

// Bootstrap creates the default ledger if it does not exist.
func Bootstrap(ctx context.Context, db DB) error {
	return defaultLedger.Bootstrap(ctx, db)
}

// Load reads every entry from the default ledger.
func Load(ctx context.Context, db DB) (*History, error) {
	return defaultLedger.Load(ctx, db)
}

// Relation returns the quoted schema.table reference.
func (l *Ledger) Relation() string {
	return pgx.Identifier{l.Schema, l.Table}.Sanitize()
}

// BootstrapSQL returns the statements Bootstrap runs.
func (l *Ledger) BootstrapSQL() []string {
	return []string{
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pgx.Identifier{l.Schema}.Sanitize()),
		fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS %s (version TEXT, name TEXT, statements TEXT)",
			l.Relation(),
		),
	}
}

// Bootstrap creates the ledger schema and table if they do not exist. It is
// safe to call repeatedly.
func (l *Ledger) Bootstrap(ctx context.Context, db DB) error {
	for _, stmt := range l.BootstrapSQL() {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to bootstrap ledger %s.%s", l.Schema, l.Table)
		}
	}

	return nil
}

// Load reads every entry in the ledger ordered by version.
//
// Example usage:
//
//	history, err := ledger.New("schema_migrations", "schema_migrations").Load(ctx, pool)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, entry := range history.Entries() {
//		fmt.Printf("%s %s\n", entry.Version, entry.Name)
//	}
func (l *Ledger) Load(ctx context.Context, db DB) (*History, error) {
	rows, err := db.Query(ctx, fmt.Sprintf(
		"SELECT version, name, statements FROM %s ORDER BY version ASC, ctid ASC",
		l.Relation(),
	))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load ledger entries")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			entry      Entry
			name       *string
			statements *string
		)

		if err := rows.Scan(&entry.Version, &name, &statements); err != nil {
			return nil, errors.Wrap(err, "failed to scan ledger row")
		}

		if name != nil {
			entry.Name = *name
		}
		if statements != nil {
			entry.Statements = *statements
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate ledger rows")
	}

	return NewHistory(entries), nil
}

// NewHistory creates a History from entries, which are expected to be ordered
// by version.
func NewHistory(entries []*Entry) *History {
	index := make(map[string]*Entry, len(entries))
	for _, entry := range entries {
		index[entry.Version] = entry
	}

	return &History{entries: entries, index: index}
}

// Entries returns a copy of every entry, oldest first.
func (h *History) Entries() []*Entry {
	return append([]*Entry(nil), h.entries...)
}

// Count returns the number of entries.
func (h *History) Count() int {
	return len(h.entries)
}

// Get returns the entry recorded at version, or nil. Versions have second
// granularity, so when several entries share one the last of them is
// returned.
func (h *History) Get(version string) *Entry {
	return h.index[version]
}

// Has reports whether an entry exists for version.
func (h *History) Has(version string) bool {
	_, ok := h.index[version]
	return ok
}

// Latest returns the most recent entry, or nil when the ledger is empty.
func (h *History) Latest() *Entry {
	if len(h.entries) == 0 {
		return nil
	}

	return h.entries[len(h.entries)-1]
}

// Since returns the entries recorded strictly after version.
func (h *History) Since(version string) []*Entry {
	res := make([]*Entry, 0)
	for _, entry := range h.entries {
		if entry.Version > version {
			res = append(res, entry)
		}
	}

	return res
}
