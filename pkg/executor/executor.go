package executor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlgate/pkg/migration"
	"github.com/pseudomuto/sqlgate/pkg/postgres"
	"github.com/pseudomuto/sqlgate/pkg/statement"
)

// readCommands can be answered from a READ ONLY transaction.
var readCommands = map[string]bool{
	"SELECT":  true,
	"EXPLAIN": true,
	"SHOW":    true,
}

type (
	// Database is the subset of *postgres.Client used by the Executor.
	Database interface {
		ReadonlyQuery(context.Context, string, ...any) (*postgres.QueryResult, error)
		ExecInTx(context.Context, ...string) (*postgres.QueryResult, error)
	}

	// Executor runs caller supplied SQL and records a ledger entry whenever
	// the SQL changes schema or data.
	//
	// The caller's SQL and the ledger insert are sent in the same transaction,
	// so a migration is either applied and recorded or neither. SQL that only
	// reads is never recorded.
	//
	// Example usage:
	//
	//	exec := executor.New(executor.Config{Database: client})
	//
	//	res, err := exec.Execute(ctx, "CREATE TABLE users (id SERIAL PRIMARY KEY)", "")
	//	if err != nil {
	//		log.Fatal(err)
	//	}
	//
	//	fmt.Println(res.Migrated, res.Name) // true create_users_public_users
	Executor struct {
		db        Database
		validator *statement.Validator
		manager   *migration.Manager
		logger    *slog.Logger
	}

	// Config contains configuration options for creating a new Executor.
	Config struct {
		// Database runs the SQL. Required.
		Database Database

		// Validator classifies SQL before it runs. Defaults to an uncached
		// validator.
		Validator *statement.Validator

		// Manager names migrations and builds the ledger insert. Defaults to
		// the schema_migrations ledger.
		Manager *migration.Manager

		// Logger defaults to slog.Default().
		Logger *slog.Logger
	}

	// Result describes a single call to Execute.
	Result struct {
		// Name is the migration name. Empty unless Migrated.
		Name string

		// Version is the ledger version. Empty unless Migrated.
		Version string

		// Migrated is true when a ledger entry was written.
		Migrated bool

		// Statements is the classification of the executed SQL.
		Statements []statement.ClassifiedStatement

		// Result holds rows for read queries, or the command status of the
		// first statement otherwise.
		Result *postgres.QueryResult

		// Duration is the time spent waiting on the database.
		Duration time.Duration
	}
)

// New creates an Executor from config.
func New(config Config) *Executor {
	validator := config.Validator
	if validator == nil {
		validator, _ = statement.NewValidator(0)
	}

	manager := config.Manager
	if manager == nil {
		manager = migration.New(migration.Config{})
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{
		db:        config.Database,
		validator: validator,
		manager:   manager,
		logger:    logger,
	}
}

// Execute classifies sql and runs it.
//
// When any statement needs a migration, sql and the ledger insert run in one
// transaction and the ledger entry is named clientName, or a generated name
// when clientName is empty. A single read statement runs in a READ ONLY
// transaction and its rows are returned. Anything else runs in a transaction
// without a ledger entry.
func (e *Executor) Execute(ctx context.Context, sql, clientName string) (*Result, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, errors.New("no SQL to execute")
	}

	validation := e.validator.Validate(sql)
	res := &Result{Statements: validation.Statements}

	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	switch {
	case validation.NeedsMigration():
		record := e.manager.NewRecord(validation, sql, clientName)
		logger := e.logger.With("version", record.Version, "name", record.Name)
		logger.Info("Applying migration", "statements", len(validation.Statements))

		result, err := e.db.ExecInTx(ctx, sql, e.manager.InsertSQL(record))
		if err != nil {
			logger.Error("Migration failed", "err", err)
			return nil, errors.Wrapf(err, "failed to apply migration %s", record.Name)
		}

		res.Name = record.Name
		res.Version = record.Version
		res.Migrated = true
		res.Result = result
		logger.Info("Migration applied", "status", result.Status)

	case isRead(validation):
		result, err := e.db.ReadonlyQuery(ctx, sql)
		if err != nil {
			return nil, errors.Wrap(err, "failed to run read query")
		}

		res.Result = result
		e.logger.Debug("Read query finished", "rows", result.Count)

	default:
		result, err := e.db.ExecInTx(ctx, sql)
		if err != nil {
			return nil, errors.Wrap(err, "failed to execute SQL")
		}

		res.Result = result
		e.logger.Debug("SQL executed without migration", "status", result.Status)
	}

	return res, nil
}

func isRead(result statement.ValidationResult) bool {
	return len(result.Statements) == 1 && readCommands[result.Statements[0].Command]
}
