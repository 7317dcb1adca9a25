package config

import (
	"os"

	"github.com/pseudomuto/sqlgate/pkg/consts"
	"github.com/pseudomuto/sqlgate/pkg/ledger"
	"github.com/pseudomuto/sqlgate/pkg/migration"
	"github.com/pseudomuto/sqlgate/pkg/statement"
	"go.uber.org/fx"
)

var Module = fx.Module("config", fx.Provide(
	// Loads .env and sqlgate.yaml from the working directory when present.
	// Without a config file the defaults are used so that commands which
	// never touch the database still work.
	func() (*Config, error) {
		if err := LoadEnvFile(consts.DefaultEnvFile); err != nil {
			return nil, err
		}

		cfg := Default()
		if _, err := os.Stat(consts.DefaultConfigFile); err == nil {
			if cfg, err = LoadConfigFile(consts.DefaultConfigFile); err != nil {
				return nil, err
			}
		}

		cfg.ApplyEnv(os.LookupEnv)
		return cfg, nil
	},
	func(c *Config) (*statement.Validator, error) {
		return statement.NewValidator(c.Validator.CacheSize)
	},
	func(c *Config) *migration.Manager {
		return migration.New(c.MigrationConfig())
	},
	func(c *Config) *ledger.Ledger {
		return ledger.New(c.Ledger.Schema, c.Ledger.Table)
	},
))
