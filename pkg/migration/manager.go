package migration

import (
	"fmt"
	"strings"
	"time"

	"github.com/pseudomuto/sqlgate/pkg/consts"
	"github.com/pseudomuto/sqlgate/pkg/statement"
)

type (
	// Manager prepares ledger entries for statements that need a migration.
	//
	// A Manager holds no mutable state and is safe for concurrent use. The zero
	// Config gives the default ledger relation schema_migrations.schema_migrations
	// and the real clock.
	//
	// Example usage:
	//
	//	mgr := migration.New(migration.Config{})
	//	result := statement.Validate(sql)
	//	if result.NeedsMigration() {
	//		insert, name := mgr.PrepareMigrationQuery(result, sql, "")
	//		// run sql and insert in one transaction
	//	}
	Manager struct {
		relation string
		now      func() time.Time
	}

	// Config contains configuration options for creating a new Manager.
	Config struct {
		// Schema holding the ledger table. Defaults to schema_migrations.
		Schema string

		// Table is the ledger table. Defaults to schema_migrations.
		Table string

		// Clock returns the current time. Defaults to time.Now.
		Clock func() time.Time
	}

	// Record is a single ledger row.
	Record struct {
		// Version is the UTC timestamp the migration was prepared at, formatted
		// as YYYYMMDDHHMMSS
		Version string

		// Name is the client supplied or generated migration name
		Name string

		// Statements is the original SQL text, unescaped
		Statements string
	}
)

var defaultManager = New(Config{})

// New creates a Manager from config, filling in defaults for anything unset.
func New(config Config) *Manager {
	schema := config.Schema
	if schema == "" {
		schema = consts.DefaultLedgerSchema
	}

	table := config.Table
	if table == "" {
		table = consts.DefaultLedgerTable
	}

	now := config.Clock
	if now == nil {
		now = time.Now
	}

	return &Manager{
		relation: schema + "." + table,
		now:      now,
	}
}

// GenerateQueryTimestamp returns the current UTC time formatted as
// YYYYMMDDHHMMSS using the default Manager.
func GenerateQueryTimestamp() string {
	return defaultManager.GenerateQueryTimestamp()
}

// PrepareMigrationQuery is Manager.PrepareMigrationQuery on the default
// Manager.
func PrepareMigrationQuery(result statement.ValidationResult, originalSQL, clientName string) (string, string) {
	return defaultManager.PrepareMigrationQuery(result, originalSQL, clientName)
}

// Relation returns the schema qualified ledger table this Manager writes to.
func (m *Manager) Relation() string {
	return m.relation
}

// GenerateQueryTimestamp returns the Manager's current time in UTC formatted
// as YYYYMMDDHHMMSS. Calls within the same second return the same value.
func (m *Manager) GenerateQueryTimestamp() string {
	return m.now().UTC().Format(consts.VersionLayout)
}

// NewRecord builds the ledger row for originalSQL. The name is clientName
// when one is given, otherwise the sanitized descriptive name of result.
func (m *Manager) NewRecord(result statement.ValidationResult, originalSQL, clientName string) Record {
	name := clientName
	if name == "" {
		name = SanitizeName(GenerateDescriptiveName(result))
	}

	return Record{
		Version:    m.GenerateQueryTimestamp(),
		Name:       name,
		Statements: originalSQL,
	}
}

// PrepareMigrationQuery returns the INSERT statement that records
// originalSQL in the ledger, along with the migration name it used.
//
// An empty clientName means none was supplied and a name is generated from
// result. A supplied name is returned as is.
//
// Single quotes in originalSQL are doubled exactly once, so text that already
// contains doubled quotes ends up quadrupled:
//
//	_, _ = mgr.PrepareMigrationQuery(result, "INSERT INTO users (name) VALUES ('O''Brien');", "")
//	// ... VALUES (''O''''Brien'');')
func (m *Manager) PrepareMigrationQuery(result statement.ValidationResult, originalSQL, clientName string) (string, string) {
	record := m.NewRecord(result, originalSQL, clientName)
	return m.InsertSQL(record), record.Name
}

// InsertSQL renders the INSERT statement for record against the Manager's
// ledger relation.
func (m *Manager) InsertSQL(record Record) string {
	return fmt.Sprintf(
		"INSERT INTO %s (version, name, statements) VALUES ('%s', '%s', '%s');",
		m.relation,
		escape(record.Version),
		escape(record.Name),
		escape(record.Statements),
	)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
