package config

import (
	"io"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlgate/pkg/consts"
	"github.com/pseudomuto/sqlgate/pkg/migration"
	"github.com/pseudomuto/sqlgate/pkg/postgres"
	"gopkg.in/yaml.v3"
)

// Environment variables that override values from sqlgate.yaml.
const (
	EnvDatabaseURL = "SQLGATE_DATABASE_URL"
	EnvDBPassword  = "SQLGATE_DB_PASSWORD"
	EnvProjectRef  = "SQLGATE_PROJECT_REF"
)

// ErrNoDatabase is returned by DatabaseURL when neither a URL nor a project
// reference and password are configured.
var ErrNoDatabase = errors.New("no database configured: set database.url or a project_ref and password")

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

type (
	// Database holds connection settings.
	//
	// When URL is empty it is derived from ProjectRef and Password. A
	// reference starting with 127.0.0.1 points at a local server; anything
	// else connects through PoolerHost as the postgres.<ref> user.
	Database struct {
		// URL is a full connection string and takes precedence over the
		// project settings below
		URL string `yaml:"url,omitempty"`

		// ProjectRef identifies a hosted project, or host:port of a local one
		ProjectRef string `yaml:"project_ref,omitempty"`

		// Password for the postgres role. Prefer SQLGATE_DB_PASSWORD over
		// committing it here
		Password string `yaml:"password,omitempty"`

		// PoolerHost is host:port of the connection pooler for hosted projects
		PoolerHost string `yaml:"pooler_host,omitempty"`

		// Name is the database to connect to
		Name string `yaml:"name,omitempty"`

		MinConns        int32         `yaml:"min_conns,omitempty"`
		MaxConns        int32         `yaml:"max_conns,omitempty"`
		ConnectAttempts int           `yaml:"connect_attempts,omitempty"`
		RetryInterval   time.Duration `yaml:"retry_interval,omitempty"`
		RetryMax        time.Duration `yaml:"retry_max_interval,omitempty"`
	}

	// Ledger names the table migrations are recorded in.
	Ledger struct {
		Schema string `yaml:"schema,omitempty"`
		Table  string `yaml:"table,omitempty"`
	}

	// Validator configures statement classification.
	Validator struct {
		// CacheSize is the number of validation results kept in memory. Zero
		// or less disables caching.
		CacheSize int `yaml:"cache_size,omitempty"`
	}

	// Dev configures the local development server.
	Dev struct {
		// Version is the postgres image tag
		Version string `yaml:"version,omitempty"`

		// InitScripts run once when the dev database is created
		InitScripts []string `yaml:"init_scripts,omitempty"`
	}

	// Config represents the sqlgate configuration file.
	Config struct {
		Database  Database  `yaml:"database"`
		Ledger    Ledger    `yaml:"ledger"`
		Validator Validator `yaml:"validator"`
		Dev       Dev       `yaml:"dev"`
	}
)

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{Validator: Validator{CacheSize: consts.DefaultValidationCacheSize}}
	cfg.applyDefaults()

	return cfg
}

// LoadConfig parses a configuration from the provided io.Reader.
//
// Missing values are filled in from pkg/consts and the result is validated.
// Environment overrides are not applied; see ApplyEnv.
//
// Example:
//
//	yamlData := `
//	database:
//	  project_ref: abcdefghijklmnop
//	ledger:
//	  schema: supabase_migrations
//	`
//
//	cfg, err := config.LoadConfig(strings.NewReader(yamlData))
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Println(cfg.Ledger.Schema, cfg.Ledger.Table) // supabase_migrations schema_migrations
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := Config{Validator: Validator{CacheSize: consts.DefaultValidationCacheSize}}
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadConfigFile loads a configuration from the specified file path.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// LoadEnvFile reads KEY=value pairs from path into the process environment.
// Variables that are already set are left alone and a missing file is not an
// error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "failed to load env file: %s", path)
	}

	return nil
}

// ApplyEnv overrides database settings with any of SQLGATE_DATABASE_URL,
// SQLGATE_DB_PASSWORD and SQLGATE_PROJECT_REF found by lookup. Pass
// os.LookupEnv to read the process environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDatabaseURL); ok && v != "" {
		c.Database.URL = v
	}
	if v, ok := lookup(EnvDBPassword); ok && v != "" {
		c.Database.Password = v
	}
	if v, ok := lookup(EnvProjectRef); ok && v != "" {
		c.Database.ProjectRef = v
	}
}

// Validate reports the first problem with the configuration.
func (c *Config) Validate() error {
	if !identifierPattern.MatchString(c.Ledger.Schema) {
		return errors.Errorf("invalid ledger schema %q: must match %s", c.Ledger.Schema, identifierPattern)
	}
	if !identifierPattern.MatchString(c.Ledger.Table) {
		return errors.Errorf("invalid ledger table %q: must match %s", c.Ledger.Table, identifierPattern)
	}
	if c.Database.MinConns < 0 || c.Database.MaxConns < 0 {
		return errors.New("connection limits must not be negative")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		return errors.Errorf("max_conns (%d) is less than min_conns (%d)", c.Database.MaxConns, c.Database.MinConns)
	}

	return nil
}

// DatabaseURL returns the connection string to use, deriving it from the
// project reference and password when no URL is configured.
func (c *Config) DatabaseURL() (string, error) {
	db := c.Database
	if db.URL != "" {
		return db.URL, nil
	}

	if db.ProjectRef == "" || db.Password == "" {
		return "", ErrNoDatabase
	}

	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword("postgres."+db.ProjectRef, db.Password),
		Host:   db.PoolerHost,
		Path:   "/" + db.Name,
	}

	if strings.HasPrefix(db.ProjectRef, "127.0.0.1") {
		u.User = url.UserPassword("postgres", db.Password)
		u.Host = db.ProjectRef
	}

	return u.String(), nil
}

// ClientConfig returns the postgres.Config for dsn using the configured pool
// settings.
func (c *Config) ClientConfig(dsn string) postgres.Config {
	return postgres.Config{
		URL:                  dsn,
		MinConns:             c.Database.MinConns,
		MaxConns:             c.Database.MaxConns,
		ConnectAttempts:      c.Database.ConnectAttempts,
		RetryInitialInterval: c.Database.RetryInterval,
		RetryMaxInterval:     c.Database.RetryMax,
	}
}

// MigrationConfig returns the migration.Config for the configured ledger.
func (c *Config) MigrationConfig() migration.Config {
	return migration.Config{
		Schema: c.Ledger.Schema,
		Table:  c.Ledger.Table,
	}
}

func (c *Config) applyDefaults() {
	if c.Database.PoolerHost == "" {
		c.Database.PoolerHost = consts.DefaultPoolerHost
	}
	if c.Database.Name == "" {
		c.Database.Name = consts.DefaultDatabase
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = consts.DefaultMinConns
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = consts.DefaultMaxConns
	}
	if c.Database.ConnectAttempts == 0 {
		c.Database.ConnectAttempts = consts.DefaultConnectAttempts
	}
	if c.Database.RetryInterval == 0 {
		c.Database.RetryInterval = consts.DefaultRetryInitialInterval
	}
	if c.Database.RetryMax == 0 {
		c.Database.RetryMax = consts.DefaultRetryMaxInterval
	}
	if c.Ledger.Schema == "" {
		c.Ledger.Schema = consts.DefaultLedgerSchema
	}
	if c.Ledger.Table == "" {
		c.Ledger.Table = consts.DefaultLedgerTable
	}
}
