package consts

import (
	"os"
	"time"
)

const (
	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// DefaultConfigFile is the configuration file looked up in the working
	// directory when no explicit path is given
	DefaultConfigFile = "sqlgate.yaml"

	// DefaultEnvFile is the optional dotenv file read before environment
	// overrides are applied
	DefaultEnvFile = ".env"

	// DefaultLedgerSchema is the schema holding the migration ledger
	DefaultLedgerSchema = "schema_migrations"

	// DefaultLedgerTable is the migration ledger table
	DefaultLedgerTable = "schema_migrations"

	// VersionLayout is the time layout of migration versions (YYYYMMDDHHMMSS)
	VersionLayout = "20060102150405"

	// MaxNameLength caps the length of sanitized migration names
	MaxNameLength = 100

	// DefaultMinConns is the number of connections the pool keeps open
	DefaultMinConns = 1

	// DefaultMaxConns is the maximum number of pooled connections
	DefaultMaxConns = 10

	// DefaultConnectAttempts is how many times pool creation is attempted
	DefaultConnectAttempts = 3

	// DefaultPoolerHost is the connection pooler used for hosted projects
	DefaultPoolerHost = "aws-0-us-east-1.pooler.supabase.com:6543"

	// DefaultDatabase is the database name used when deriving a URL from a
	// project reference
	DefaultDatabase = "postgres"

	// DefaultValidationCacheSize is the number of validation results the CLI
	// keeps in memory
	DefaultValidationCacheSize = 256

	// DefaultRetryInitialInterval is the first wait between pool creation
	// attempts
	DefaultRetryInitialInterval = 4 * time.Second

	// DefaultRetryMaxInterval caps the wait between pool creation attempts
	DefaultRetryMaxInterval = 15 * time.Second
)
